package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProcesses() []Process {
	return []Process{
		{PID: 1, Name: "systemd", MemoryMB: 12.5},
		{PID: 42, Name: "Firefox", MemoryMB: 512},
		{PID: 43, Name: "firefox-bin", MemoryMB: 80.25},
		{PID: 99, Name: "bash", MemoryMB: 4},
	}
}

func TestFilterEmptyQueryReturnsAll(t *testing.T) {
	procs := sampleProcesses()
	assert.Equal(t, procs, Filter(procs, ""))
}

func TestFilterCaseInsensitiveSubstring(t *testing.T) {
	got := Filter(sampleProcesses(), "FIREfox")
	require.Len(t, got, 2)
	assert.Equal(t, int32(42), got[0].PID)
	assert.Equal(t, int32(43), got[1].PID)

	assert.Empty(t, Filter(sampleProcesses(), "nope"))
}

func TestFilterTasks(t *testing.T) {
	tasks := []Task{{PID: 1, Name: "Code"}, {PID: 2, Name: "Slack"}}
	assert.Len(t, FilterTasks(tasks, ""), 2)
	got := FilterTasks(tasks, "co")
	require.Len(t, got, 1)
	assert.Equal(t, "Code", got[0].Name)
}

func TestMemoryMB(t *testing.T) {
	cases := []struct {
		rss  uint64
		want float64
	}{
		{0, 0},
		{15_728_640, 15.0},
		{1_048_576, 1.0},
		{1_500_000, 1.43},
		{5_253_366, 5.01},
		// exact ties round half to even
		{131_072, 0.12},
		{655_360, 0.62},
		{1_179_648, 1.12},
		{104_988_672, 100.12},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MemoryMB(tc.rss), "rss=%d", tc.rss)
	}
}

func TestPIDKeyRoundTrip(t *testing.T) {
	assert.Equal(t, "1234", PIDKey(1234))
	pid, err := ParsePIDKey("1234")
	require.NoError(t, err)
	assert.Equal(t, int32(1234), pid)

	_, err = ParsePIDKey("abc")
	assert.Error(t, err)
}
