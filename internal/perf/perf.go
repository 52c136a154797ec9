// Package perf samples host CPU, memory and disk utilisation.
package perf

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/Dicklesworthstone/taskmon/internal/model"
)

// Probe takes one performance sample.
type Probe interface {
	Sample(ctx context.Context) (model.Perf, error)
}

// GopsutilProbe reads counters through gopsutil. CPU usage is measured over
// CPUWindow, during which Sample blocks.
type GopsutilProbe struct {
	CPUWindow time.Duration
	DiskPath  string
}

func NewGopsutilProbe(window time.Duration, diskPath string) *GopsutilProbe {
	return &GopsutilProbe{CPUWindow: window, DiskPath: diskPath}
}

// Sample always returns a Perf. Counters that could not be read stay at
// zero and their errors are joined into the returned error.
func (p *GopsutilProbe) Sample(ctx context.Context) (model.Perf, error) {
	var (
		out  model.Perf
		errs []error
	)
	if pcts, err := cpu.PercentWithContext(ctx, p.CPUWindow, false); err != nil {
		errs = append(errs, fmt.Errorf("cpu: %w", err))
	} else if len(pcts) > 0 {
		out.CPUPercent = pcts[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("memory: %w", err))
	} else {
		out.MemoryPercent = vm.UsedPercent
	}
	if du, err := disk.UsageWithContext(ctx, p.DiskPath); err != nil {
		errs = append(errs, fmt.Errorf("disk %s: %w", p.DiskPath, err))
	} else {
		out.DiskPercent = du.UsedPercent
	}
	out.Timestamp = time.Now()
	return out, errors.Join(errs...)
}

// Clamp bounds v to [0,100].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
