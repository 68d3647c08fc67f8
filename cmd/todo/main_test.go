package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/store/jsonstore"
	"github.com/idilsaglam/tada/internal/store/kvstore"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, k := range []string{"TADA_CONFIG", "TADA_STORE", "TADA_DATA", "TADA_KEY", "TADA_THEME", "TADA_LOG_LEVEL", "TADA_LOG_FILE"} {
		t.Setenv(k, "")
	}
	work := t.TempDir()
	t.Chdir(work)
	return work
}

func TestRunPersistsAcrossInvocations(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			work := isolate(t)
			data := filepath.Join(work, "list."+backend)
			flags := []string{"--store", backend, "--data", data, "--theme", "mono"}

			var out, errOut bytes.Buffer
			require.Equal(t, 0, run(append(flags, "add", "Write tests"), &out, &errOut), errOut.String())
			require.Equal(t, 0, run(append(flags, "toggle", "1"), &out, &errOut), errOut.String())

			out.Reset()
			require.Equal(t, 0, run(append(flags, "ls"), &out, &errOut), errOut.String())
			assert.Contains(t, out.String(), " 1. [ ] Buy groceries")
			assert.Contains(t, out.String(), " 4. [x] Write tests")

			kv, err := kvstore.Open(backend, data)
			require.NoError(t, err)
			defer kv.Close()
			saved, err := jsonstore.New(kv, "").Load()
			require.NoError(t, err)
			assert.Len(t, saved, 4)
			assert.True(t, saved[3].Checked)
		})
	}
}

func TestRunDefaultsToWorkingDirFile(t *testing.T) {
	work := isolate(t)
	var out, errOut bytes.Buffer
	require.Equal(t, 0, run([]string{"ls"}, &out, &errOut))
	_, err := os.Stat(filepath.Join(work, "todos.json"))
	assert.NoError(t, err, "seed list is written on first start")
}

func TestRunBadConfig(t *testing.T) {
	isolate(t)
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run([]string{"--store", "redis", "ls"}, &out, &errOut))
	assert.Contains(t, errOut.String(), "config:")
}

func TestRunMalformedDataFallsBackToSeed(t *testing.T) {
	work := isolate(t)
	data := filepath.Join(work, "todos.json")
	require.NoError(t, os.WriteFile(data, []byte(`{"todos":"[{\"id\":1}]"}`), 0o644))

	var out, errOut bytes.Buffer
	require.Equal(t, 0, run([]string{"--theme", "mono", "--log-level", "warn", "ls"}, &out, &errOut))
	assert.Contains(t, out.String(), "Buy groceries")
	assert.Contains(t, errOut.String(), "ignoring saved todos")
}

func TestRunHelpLeavesNoDataFile(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			work := isolate(t)
			data := filepath.Join(work, "list."+backend)
			flags := []string{"--store", backend, "--data", data}

			var out, errOut bytes.Buffer
			assert.Equal(t, 0, run(append(flags, "help"), &out, &errOut))
			assert.Equal(t, 2, run(append(flags, "rm", "1"), &out, &errOut))
			assert.Contains(t, errOut.String(), "unknown subcommand: rm")

			_, err := os.Stat(data)
			assert.ErrorIs(t, err, os.ErrNotExist)
		})
	}
}
