package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: error\n"), 0o600))

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", path}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestImportCommandValidatesFlags(t *testing.T) {
	_, err := runRoot(t, "import")
	assert.EqualError(t, err, "--podcast is required")

	_, err = runRoot(t, "import", "--podcast", "3")
	assert.EqualError(t, err, "--feed or --assets is required")
}

func TestMetaCommandRequiresEpisode(t *testing.T) {
	_, err := runRoot(t, "meta")
	assert.EqualError(t, err, "--episode is required")
}

func TestRetryCommandRejectsBadID(t *testing.T) {
	_, err := runRoot(t, "retry", "abc")
	assert.EqualError(t, err, `invalid job id "abc"`)
}

func TestRootFailsOnMissingConfig(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "serve"})
	err := root.Execute()
	assert.ErrorContains(t, err, "read config file")
}

func TestRootShowsHelp(t *testing.T) {
	out, err := runRoot(t)
	require.NoError(t, err)
	assert.Contains(t, out, "serve")
	assert.Contains(t, out, "import")
	assert.Contains(t, out, "meta")
}

func TestSetupLoggerLevels(t *testing.T) {
	ctx := t.Context()
	assert.True(t, setupLogger("debug").Enabled(ctx, -4))
	assert.False(t, setupLogger("warn").Enabled(ctx, 0))
	assert.True(t, setupLogger("bogus").Enabled(ctx, 0))
}
