package control

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKillAbsentPIDIsNotFound(t *testing.T) {
	c := New(zap.NewNop())
	for _, pid := range []int32{2147483000, 0, -5} {
		err := c.Kill(context.Background(), pid)
		assert.ErrorIs(t, err, ErrNotFound, "pid %d", pid)
		assert.NotErrorIs(t, err, ErrPermissionDenied)
	}
}

func TestClassify(t *testing.T) {
	assert.ErrorIs(t, classify(process.ErrorProcessNotRunning), ErrNotFound)
	assert.ErrorIs(t, classify(os.ErrProcessDone), ErrNotFound)
	assert.ErrorIs(t, classify(&os.SyscallError{Syscall: "kill", Err: os.ErrPermission}), ErrPermissionDenied)

	other := errors.New("boom")
	assert.Equal(t, other, classify(other))
}

func TestLaunchEmptyPath(t *testing.T) {
	err := New(nil).Launch(context.Background(), "  ")
	var le *LaunchError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "no file selected", le.Reason)
}

func TestLaunchMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.desktop")
	err := New(nil).Launch(context.Background(), path)
	var le *LaunchError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, path, le.Path)
	assert.Contains(t, err.Error(), "failed to open")
}

func TestLaunchUnknownOpener(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	c := New(nil)
	c.command = func(p string) (string, []string) { return "taskmon-no-such-opener", []string{p} }
	var le *LaunchError
	require.ErrorAs(t, c.Launch(context.Background(), path), &le)
}
