// Package tasks finds processes that own a visible window and keeps a
// displayed row set in step with them.
package tasks

import (
	"context"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/taskmon/internal/model"
	"github.com/Dicklesworthstone/taskmon/internal/procs"
	"github.com/Dicklesworthstone/taskmon/internal/windows"
)

// Options tunes which processes qualify as tasks.
type Options struct {
	// RequireRunning limits tasks to processes in the running state. When
	// false any live process qualifies: zombie, stopped, dead and unreadable
	// states are rejected.
	RequireRunning bool
}

// Lister builds the task set from a process source and a window lister.
type Lister struct {
	Source  procs.Source
	Windows windows.Lister
	Options Options
	Log     *zap.Logger
}

// List returns the current tasks sorted by name, case-insensitively.
func (l *Lister) List(ctx context.Context) []model.Task {
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}
	owners, err := l.Windows.OwnerPIDs(ctx)
	if err != nil {
		// Every candidate is treated as owning no window.
		log.Debug("window enumeration failed", zap.Error(err))
		owners = nil
	}

	var candidates []procs.Info
	for _, in := range procs.Succeeded(l.Source.Enumerate(ctx), log) {
		if l.eligible(in) && ownsWindow(owners, in.PID) {
			candidates = append(candidates, in)
		}
	}
	out := DedupFirstSeen(candidates)
	SortByName(out)
	return out
}

func (l *Lister) eligible(in procs.Info) bool {
	if in.PID <= 0 || in.Name == "" || in.Username == "" {
		return false
	}
	if l.Options.RequireRunning {
		return hasState(in.Status, process.Running)
	}
	if len(in.Status) == 0 || hasState(in.Status, process.UnknownState) {
		return false
	}
	return !hasState(in.Status, process.Zombie) && !hasState(in.Status, process.Stop)
}

func hasState(status []string, want string) bool {
	for _, s := range status {
		if s == want {
			return true
		}
	}
	return false
}

// ownsWindow scans the window owner list for pid.
func ownsWindow(owners []int32, pid int32) bool {
	for _, o := range owners {
		if o == pid {
			return true
		}
	}
	return false
}

// DedupFirstSeen keeps one task per lowercase name: the first pid and memory
// observed in enumeration order. Later instances of the same name are
// dropped even when larger or newer.
func DedupFirstSeen(infos []procs.Info) []model.Task {
	seen := make(map[string]struct{}, len(infos))
	out := make([]model.Task, 0, len(infos))
	for _, in := range infos {
		key := strings.ToLower(in.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, model.Task{
			PID:      in.PID,
			Name:     key,
			MemoryMB: model.MemoryMB(in.RSS),
		})
	}
	return out
}

// SortByName orders tasks by lowercase name. Names are unique after
// DedupFirstSeen so there are no ties to break.
func SortByName(ts []model.Task) {
	sort.Slice(ts, func(i, j int) bool {
		return strings.ToLower(ts[i].Name) < strings.ToLower(ts[j].Name)
	})
}
