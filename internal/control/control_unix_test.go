//go:build unix

package control

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKillTerminatesChild(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	require.NoError(t, New(zap.NewNop()).Kill(context.Background(), int32(cmd.Process.Pid)))

	select {
	case err := <-done:
		assert.Error(t, err, "sleep should exit on SIGTERM")
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatal("child did not exit after terminate")
	}
}

func TestLaunchOpenerFailureReason(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	c := New(nil)
	c.command = func(string) (string, []string) {
		return "sh", []string{"-c", "echo no handler for text/plain >&2; exit 4"}
	}
	err := c.Launch(context.Background(), path)
	var le *LaunchError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "no handler for text/plain", le.Reason)
}

func TestLaunchOpenerSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	c := New(nil)
	c.command = func(string) (string, []string) { return "true", nil }
	assert.NoError(t, c.Launch(context.Background(), path))
}

func TestLaunchLongRunningOpenerIsHandoff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	c := New(nil)
	c.Grace = 50 * time.Millisecond
	c.command = func(string) (string, []string) { return "sleep", []string{"1"} }
	assert.NoError(t, c.Launch(context.Background(), path))
}
