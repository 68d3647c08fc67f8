package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"TADA_CONFIG", "TADA_STORE", "TADA_DATA", "TADA_KEY", "TADA_THEME",
	"TADA_LOG_LEVEL", "TADA_LOG_FORMAT", "TADA_LOG_FILE", "TADA_GROUP",
}

// isolate points HOME and the config dir at an empty temp tree, clears the
// TADA_* variables and moves into a fresh working directory.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	t.Chdir(work)
	return home, work
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load(newFlagSet(), nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultStore, cfg.Store)
	assert.Equal(t, DefaultKey, cfg.Key)
	assert.Equal(t, DefaultTheme, cfg.Theme)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Empty(t, cfg.Data)
	assert.False(t, cfg.Group)
	assert.Empty(t, cfg.Args)
}

func TestPrecedence(t *testing.T) {
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".tada", "config.toml"), `
store = "sqlite"
data = "~/todos.db"
theme = "neon"
log_level = "info"
`)
	writeFile(t, "tada.toml", `
theme = "mono"
key = "work"
`)
	t.Setenv("TADA_LOG_LEVEL", "debug")
	t.Setenv("TADA_GROUP", "true")

	cfg, err := Load(newFlagSet(), []string{"--store", "memory", "ls"})
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store, "flag beats user file")
	assert.Equal(t, filepath.Join(home, "todos.db"), cfg.Data, "user file, ~ expanded")
	assert.Equal(t, "mono", cfg.Theme, "project file beats user file")
	assert.Equal(t, "work", cfg.Key)
	assert.Equal(t, "debug", cfg.LogLevel, "env beats files")
	assert.True(t, cfg.Group)
	assert.Equal(t, []string{"ls"}, cfg.Args)
}

func TestExplicitConfigPath(t *testing.T) {
	home, _ := isolate(t)
	p := filepath.Join(home, "elsewhere.toml")
	writeFile(t, p, `store = "sqlite"`)
	t.Setenv("TADA_CONFIG", p)

	cfg, err := Load(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store)
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		args []string
	}{
		{name: "unknown store", args: []string{"--store", "redis"}},
		{name: "unknown theme", args: []string{"--theme", "rainbow"}},
		{name: "empty key", file: `key = " "`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			if tt.file != "" {
				writeFile(t, "tada.toml", tt.file)
			}
			_, err := Load(newFlagSet(), tt.args)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestConfigFileErrors(t *testing.T) {
	isolate(t)
	writeFile(t, "tada.toml", `stor = "file"`)
	_, err := Load(newFlagSet(), nil)
	assert.ErrorContains(t, err, "unknown keys: stor")

	writeFile(t, "tada.toml", `store = `)
	_, err = Load(newFlagSet(), nil)
	assert.ErrorContains(t, err, "loading project config file")
}

func TestBadFlag(t *testing.T) {
	isolate(t)
	_, err := Load(newFlagSet(), []string{"--nope"})
	assert.ErrorContains(t, err, "parsing flags")
}
