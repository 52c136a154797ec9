//go:build unix

package windows

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandListerParsesHelperOutput(t *testing.T) {
	l := CommandLister{
		Name:    "sh",
		Args:    []string{"-c", `printf '0x1 0 42 host t\n0x2 0 42 host u\n'`},
		Timeout: time.Second,
		Parse:   ParseWmctrl,
	}
	pids, err := l.OwnerPIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int32{42, 42}, pids)
}

func TestCommandListerHelperFailure(t *testing.T) {
	l := CommandLister{
		Name:    "sh",
		Args:    []string{"-c", "echo 'Cannot open display.' >&2; exit 1"},
		Timeout: time.Second,
		Parse:   ParseWmctrl,
	}
	pids, err := l.OwnerPIDs(context.Background())
	assert.ErrorContains(t, err, "Cannot open display.")
	assert.Nil(t, pids)
}

func TestNewPicksPlatformHelper(t *testing.T) {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd", "darwin":
	default:
		t.Skipf("no window helper on %s", runtime.GOOS)
	}
	l := New(time.Second)
	cl, ok := l.(CommandLister)
	require.True(t, ok)
	assert.Equal(t, time.Second, cl.Timeout)
	switch runtime.GOOS {
	case "darwin":
		assert.Equal(t, "osascript", cl.Name)
	default:
		assert.Equal(t, "wmctrl", cl.Name)
		assert.Equal(t, []string{"-lp"}, cl.Args)
	}
}
