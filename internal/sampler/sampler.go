package sampler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/taskmon/internal/model"
	"github.com/Dicklesworthstone/taskmon/internal/perf"
	"github.com/Dicklesworthstone/taskmon/internal/procs"
	"github.com/Dicklesworthstone/taskmon/internal/tasks"
)

// Msg is a snapshot sent from the poller to the UI.
type Msg interface{ snapshot() }

type (
	ProcessesMsg model.ProcessSnapshot
	TasksMsg     model.TaskSnapshot
	PerfMsg      struct {
		Perf model.Perf
		Err  error
	}
)

func (ProcessesMsg) snapshot() {}
func (TasksMsg) snapshot()     {}
func (PerfMsg) snapshot()      {}

// Sampler polls processes, tasks and host counters and emits snapshots.
// The refresh loop sleeps Interval between cycles; the perf loop runs on
// its own PerfInterval ticker and drifts relative to the refresh loop.
type Sampler struct {
	Interval     time.Duration
	PerfInterval time.Duration

	procs procs.Source
	tasks *tasks.Lister
	probe perf.Probe
	log   *zap.Logger

	kick chan struct{}
}

func New(interval, perfInterval time.Duration, src procs.Source, tl *tasks.Lister, probe perf.Probe, log *zap.Logger) *Sampler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sampler{
		Interval:     interval,
		PerfInterval: perfInterval,
		procs:        src,
		tasks:        tl,
		probe:        probe,
		log:          log,
		kick:         make(chan struct{}, 1),
	}
}

// Refresh asks the refresh loop for an immediate cycle. Requests made while
// one is already pending are merged.
func (s *Sampler) Refresh() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Stream returns a channel that receives snapshots until ctx is done, then
// is closed. A first cycle runs immediately.
func (s *Sampler) Stream(ctx context.Context) <-chan Msg {
	ch := make(chan Msg)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.refreshLoop(ctx, ch)
	}()
	go func() {
		defer wg.Done()
		s.perfLoop(ctx, ch)
	}()
	go func() {
		wg.Wait()
		close(ch)
	}()
	return ch
}

func (s *Sampler) refreshLoop(ctx context.Context, ch chan<- Msg) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-s.kick:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}
		for _, m := range s.Cycle(ctx) {
			if !send(ctx, ch, m) {
				return
			}
		}
		timer.Reset(s.Interval)
	}
}

func (s *Sampler) perfLoop(ctx context.Context, ch chan<- Msg) {
	ticker := time.NewTicker(s.PerfInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !send(ctx, ch, s.samplePerf(ctx)) {
				return
			}
		}
	}
}

// Cycle runs one refresh in fixed order: processes, tasks, performance.
func (s *Sampler) Cycle(ctx context.Context) []Msg {
	start := time.Now()
	ps := procs.List(ctx, s.procs, s.log)
	ts := s.tasks.List(ctx)
	pm := s.samplePerf(ctx)
	s.log.Debug("refresh cycle",
		zap.Int("processes", len(ps)),
		zap.Int("tasks", len(ts)),
		zap.Duration("took", time.Since(start)))
	return []Msg{
		ProcessesMsg{Timestamp: start, Processes: ps},
		TasksMsg{Timestamp: start, Tasks: ts},
		pm,
	}
}

func (s *Sampler) samplePerf(ctx context.Context) PerfMsg {
	p, err := s.probe.Sample(ctx)
	if err != nil {
		s.log.Warn("perf sample incomplete", zap.Error(err))
	}
	return PerfMsg{Perf: p, Err: err}
}

func send(ctx context.Context, ch chan<- Msg, m Msg) bool {
	select {
	case ch <- m:
		return true
	case <-ctx.Done():
		return false
	}
}
