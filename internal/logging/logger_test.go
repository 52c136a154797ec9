package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForFileEmptyPathIsNop(t *testing.T) {
	log, err := ForFile("", "debug")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1))
}

func TestForFileWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskmon.log")
	log, err := ForFile(path, "info")
	require.NoError(t, err)

	log.Info("refresh done")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"refresh done"`)
	assert.Contains(t, string(data), `"level":"info"`)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud", OutputPaths: []string{"stderr"}})
	assert.Error(t, err)
}
