package model

import (
	"strconv"
	"time"
)

// ProcessSnapshot is the full process table observed by one poll.
type ProcessSnapshot struct {
	Timestamp time.Time
	Processes []Process
}

// TaskSnapshot is the deduplicated, name-sorted task set observed by one poll.
type TaskSnapshot struct {
	Timestamp time.Time
	Tasks     []Task
}

// PIDKey renders a pid as a row key.
func PIDKey(pid int32) string { return strconv.FormatInt(int64(pid), 10) }

// ParsePIDKey is the inverse of PIDKey.
func ParsePIDKey(key string) (int32, error) {
	v, err := strconv.ParseInt(key, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}
