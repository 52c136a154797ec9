package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/taskmon/internal/control"
	"github.com/Dicklesworthstone/taskmon/internal/model"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSubcommandsRegistered(t *testing.T) {
	root := NewRootCmd()
	want := map[string]bool{"ps": false, "tasks": false, "perf": false, "kill": false, "open": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		assert.True(t, found, "%s not registered", name)
	}
}

func TestPersistentFlags(t *testing.T) {
	flags := NewRootCmd().PersistentFlags()
	tests := []struct {
		name     string
		flagType string
	}{
		{"config", "string"},
		{"format", "string"},
		{"log-file", "string"},
		{"log-level", "string"},
		{"refresh", "duration"},
	}
	for _, tt := range tests {
		f := flags.Lookup(tt.name)
		if !assert.NotNil(t, f, "flag %q", tt.name) {
			continue
		}
		assert.Equal(t, tt.flagType, f.Value.Type())
	}
}

func TestPsJSONIncludesSelf(t *testing.T) {
	out, err := run(t, "ps", "--format", "json")
	require.NoError(t, err)

	var list []model.Process
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	self := int32(os.Getpid())
	var found bool
	for _, p := range list {
		if p.PID == self {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPsFilterNoMatch(t *testing.T) {
	out, err := run(t, "ps", "no-process-is-called-this", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestKillAbsentPID(t *testing.T) {
	_, err := run(t, "kill", "2147483000")
	assert.ErrorIs(t, err, control.ErrNotFound)
}

func TestKillInvalidPID(t *testing.T) {
	_, err := run(t, "kill", "abc")
	assert.ErrorContains(t, err, "invalid pid")
}

func TestBadFormatRejected(t *testing.T) {
	_, err := run(t, "ps", "--format", "xml")
	assert.Error(t, err)
}

func TestConfigFileApplied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskmon.toml")
	require.NoError(t, os.WriteFile(path, []byte(`format = "json"`), 0o644))

	out, err := run(t, "--config", path, "ps", "no-process-is-called-this")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}
