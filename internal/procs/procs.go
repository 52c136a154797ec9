// Package procs enumerates the OS process table.
//
// Enumeration is best effort: every process yields its own Result, and a
// process that vanished or refused inspection carries an error instead of
// aborting the scan. Callers drop failed results with Succeeded.
package procs

import (
	"context"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/taskmon/internal/model"
)

// Info is the raw per-process data read from the OS.
type Info struct {
	PID      int32
	Name     string
	RSS      uint64
	Status   []string
	Username string
}

// Result is the outcome of inspecting a single process.
type Result struct {
	Info Info
	Err  error
}

// Source yields one Result per process visible to the current user.
type Source interface {
	Enumerate(ctx context.Context) []Result
}

// Succeeded returns the Info of every result without an error, in order.
func Succeeded(results []Result, log *zap.Logger) []Info {
	out := make([]Info, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			if log != nil {
				log.Debug("skip process", zap.Int32("pid", r.Info.PID), zap.Error(r.Err))
			}
			continue
		}
		out = append(out, r.Info)
	}
	return out
}

// List returns the process table in enumeration order.
func List(ctx context.Context, src Source, log *zap.Logger) []model.Process {
	infos := Succeeded(src.Enumerate(ctx), log)
	out := make([]model.Process, 0, len(infos))
	for _, in := range infos {
		out = append(out, model.Process{
			PID:      in.PID,
			Name:     in.Name,
			MemoryMB: model.MemoryMB(in.RSS),
		})
	}
	return out
}
