package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vnav/internal/config"
)

func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// parse runs flag parsing only and returns the resolved settings.
func parse(t *testing.T, args ...string) (*config.Config, string, error) {
	t.Helper()
	f := &rootFlags{}
	cmd := newRootCmdWith(f)
	require.NoError(t, cmd.ParseFlags(args))
	return f.load(cmd)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCmd_Version(t *testing.T) {
	out, err := executeCommand(newRootCmd(), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "vnav version dev")
}

func TestRootCmd_TooManyArgs(t *testing.T) {
	_, err := executeCommand(newRootCmd(), "a.txt", "b.txt")
	assert.Error(t, err)
}

func TestRootCmd_Metadata(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "vnav", cmd.Name())
	for _, name := range []string{"config", "log-level", "log-file", "tab-width", "wrap", "debug", "no-watch"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestLoad_FileThenFlags(t *testing.T) {
	path := writeConfig(t, "[editor]\ntab_width = 2\nscroll_off = 5\n")

	cfg, got, err := parse(t, "--config", path, "--wrap", "--log-level", "debug")
	require.NoError(t, err)

	assert.Equal(t, path, got)
	assert.Equal(t, 2, cfg.Editor.TabWidth)
	assert.Equal(t, 5, cfg.Editor.ScrollOff)
	assert.True(t, cfg.Editor.SoftWrap)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_FlagOverridesFile(t *testing.T) {
	path := writeConfig(t, "[editor]\ntab_width = 2\nsoft_wrap = true\n")

	cfg, _, err := parse(t, "--config", path, "--tab-width", "8", "--wrap=false")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Editor.TabWidth)
	assert.False(t, cfg.Editor.SoftWrap)
}

func TestLoad_DebugImpliesDebugLevel(t *testing.T) {
	path := writeConfig(t, "")

	cfg, _, err := parse(t, "--config", path, "--debug")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)

	cfg, _, err = parse(t, "--config", path, "--debug", "--log-level", "warn")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_InvalidFlag(t *testing.T) {
	path := writeConfig(t, "")

	_, _, err := parse(t, "--config", path, "--tab-width", "0")
	assert.ErrorIs(t, err, config.ErrValidationFailed)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, _, err := parse(t, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Editor, cfg.Editor)
	assert.False(t, fileExists(path))
}
