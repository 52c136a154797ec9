package model

import (
	"math"
	"strings"
	"time"
)

const bytesPerMB = 1024 * 1024

// Process is one row of the process table, rebuilt on every poll.
type Process struct {
	PID      int32   `json:"pid" yaml:"pid"`
	Name     string  `json:"name" yaml:"name"`
	MemoryMB float64 `json:"memory_mb" yaml:"memory_mb"`
}

// Task is a process that owns at least one visible window.
type Task Process

// Key returns the display row identifier for the task.
func (t Task) Key() string { return PIDKey(t.PID) }

// Perf is a point-in-time host counter sample. All values are percent 0-100.
type Perf struct {
	CPUPercent    float64   `json:"cpu_percent" yaml:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent" yaml:"memory_percent"`
	DiskPercent   float64   `json:"disk_percent" yaml:"disk_percent"`
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
}

// MemoryMB converts resident bytes to megabytes rounded half-to-even to two
// decimals.
func MemoryMB(rss uint64) float64 {
	return math.RoundToEven(float64(rss)/bytesPerMB*100) / 100
}

// Filter returns the records whose name contains query, ignoring case.
// Order is preserved and the empty query matches everything.
func Filter(records []Process, query string) []Process {
	q := strings.ToLower(query)
	out := make([]Process, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), q) {
			out = append(out, r)
		}
	}
	return out
}

// FilterTasks is Filter for task rows.
func FilterTasks(records []Task, query string) []Task {
	q := strings.ToLower(query)
	out := make([]Task, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), q) {
			out = append(out, r)
		}
	}
	return out
}
