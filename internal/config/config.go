// Package config resolves runtime settings from, in increasing priority:
// defaults, the user config file, the project config file, environment
// variables and command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds every tunable of the todo app.
type Config struct {
	// Store is the key-value backend: file, sqlite or memory.
	Store string `toml:"store"`
	// Data is the backing file of the store. Empty means a default name in
	// the working directory.
	Data string `toml:"data"`
	// Key is the storage key the list lives under.
	Key string `toml:"key"`

	Theme string `toml:"theme"`
	Group bool   `toml:"group"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogFile   string `toml:"log_file"`

	// Args are the positional arguments left after flag parsing.
	Args []string `toml:"-"`
}

const (
	DefaultStore     = "file"
	DefaultKey       = "todos"
	DefaultTheme     = "classic"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"

	userDirName     = ".tada"
	configFileName  = "config.toml"
	projectFileName = "tada.toml"
)

var (
	validStores = []string{"file", "sqlite", "memory"}
	validThemes = []string{"classic", "neon", "mono"}
)

var ErrInvalid = errors.New("invalid config")

func setDefaults(cfg *Config) {
	cfg.Store = DefaultStore
	cfg.Key = DefaultKey
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// Load builds a Config. fs receives the root flags; args are parsed with it.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if p := findUserConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}
	if p := findProjectConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", p, err)
		}
	}

	loadFromEnv(cfg)

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	if err := finalizeConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// findUserConfigFile returns $TADA_CONFIG, ~/.tada/config.toml or
// <user config dir>/tada/config.toml, whichever exists first.
func findUserConfigFile() string {
	if p := os.Getenv("TADA_CONFIG"); p != "" {
		return expandPath(p)
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, userDirName, configFileName)
		if fileExists(p) {
			return p
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		p := filepath.Join(dir, "tada", configFileName)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// findProjectConfigFile looks for tada.toml or .tada.toml in the working directory.
func findProjectConfigFile() string {
	for _, name := range []string{projectFileName, "." + projectFileName} {
		if fileExists(name) {
			return name
		}
	}
	return ""
}

func loadFromEnv(cfg *Config) {
	setString := func(env string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = v
		}
	}
	setString("TADA_STORE", &cfg.Store)
	setString("TADA_DATA", &cfg.Data)
	setString("TADA_KEY", &cfg.Key)
	setString("TADA_THEME", &cfg.Theme)
	setString("TADA_LOG_LEVEL", &cfg.LogLevel)
	setString("TADA_LOG_FORMAT", &cfg.LogFormat)
	setString("TADA_LOG_FILE", &cfg.LogFile)

	switch strings.ToLower(os.Getenv("TADA_GROUP")) {
	case "1", "true", "yes":
		cfg.Group = true
	case "0", "false", "no":
		cfg.Group = false
	}
}

func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("todo", flag.ContinueOnError)
	}
	fs.StringVar(&cfg.Store, "store", cfg.Store, "storage backend: file, sqlite or memory")
	fs.StringVar(&cfg.Data, "data", cfg.Data, "path of the data file")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "color theme: classic, neon or mono")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "append logs to this file")
	fs.BoolVar(&cfg.Group, "group", cfg.Group, "group output by pending/done")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Args = fs.Args()
	return nil
}

func finalizeConfig(cfg *Config) error {
	cfg.Store = strings.ToLower(cfg.Store)
	cfg.Theme = strings.ToLower(cfg.Theme)
	cfg.Data = expandPath(cfg.Data)
	cfg.LogFile = expandPath(cfg.LogFile)

	if !slices.Contains(validStores, cfg.Store) {
		return fmt.Errorf("%w: store %q (want one of %s)", ErrInvalid, cfg.Store, strings.Join(validStores, ", "))
	}
	if !slices.Contains(validThemes, cfg.Theme) {
		return fmt.Errorf("%w: theme %q (want one of %s)", ErrInvalid, cfg.Theme, strings.Join(validThemes, ", "))
	}
	if strings.TrimSpace(cfg.Key) == "" {
		return fmt.Errorf("%w: empty key", ErrInvalid)
	}
	return nil
}

// expandPath expands ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	return p
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
