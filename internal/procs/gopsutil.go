package procs

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/process"
)

// Fields selects which optional attributes GopsutilSource reads.
type Fields struct {
	Status   bool
	Username bool
}

// GopsutilSource reads the live process table through gopsutil.
type GopsutilSource struct {
	Fields Fields
}

// NewGopsutilSource returns a Source reading pid, name and RSS, plus the
// optional fields requested.
func NewGopsutilSource(f Fields) *GopsutilSource { return &GopsutilSource{Fields: f} }

func (s *GopsutilSource) Enumerate(ctx context.Context) []Result {
	ps, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return []Result{{Err: fmt.Errorf("list processes: %w", err)}}
	}
	out := make([]Result, 0, len(ps))
	for _, p := range ps {
		out = append(out, s.inspect(ctx, p))
	}
	return out
}

func (s *GopsutilSource) inspect(ctx context.Context, p *process.Process) Result {
	info := Info{PID: p.Pid}
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return Result{Info: info, Err: fmt.Errorf("name: %w", err)}
	}
	info.Name = name

	mem, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		return Result{Info: info, Err: fmt.Errorf("memory: %w", err)}
	}
	info.RSS = mem.RSS

	if s.Fields.Status {
		st, err := p.StatusWithContext(ctx)
		if err != nil {
			return Result{Info: info, Err: fmt.Errorf("status: %w", err)}
		}
		info.Status = st
	}
	if s.Fields.Username {
		user, err := p.UsernameWithContext(ctx)
		if err != nil {
			return Result{Info: info, Err: fmt.Errorf("username: %w", err)}
		}
		info.Username = user
	}
	return Result{Info: info}
}
