// Package control terminates processes and launches files with the OS handler.
package control

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

var (
	// ErrNotFound means the process no longer exists.
	ErrNotFound = errors.New("process no longer exists")
	// ErrPermissionDenied means the caller may not signal the process.
	ErrPermissionDenied = errors.New("permission denied")
)

// LaunchError carries the reason a launch failed, passed through verbatim.
type LaunchError struct {
	Path   string
	Reason string
}

func (e *LaunchError) Error() string { return fmt.Sprintf("failed to open %s: %s", e.Path, e.Reason) }

// Controller sends termination requests and opens files.
type Controller struct {
	// Grace is how long Launch waits for the opener helper to fail before
	// assuming the OS handler took over.
	Grace time.Duration

	log     *zap.Logger
	command func(path string) (string, []string)
}

func New(log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{Grace: time.Second, log: log, command: openCommand}
}

// Kill asks pid to exit with a graceful terminate and returns without
// waiting for it to do so.
func (c *Controller) Kill(ctx context.Context, pid int32) error {
	if pid <= 0 {
		return fmt.Errorf("pid %d: %w", pid, ErrNotFound)
	}
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return fmt.Errorf("pid %d: %w", pid, classify(err))
	}
	if err := p.TerminateWithContext(ctx); err != nil {
		return fmt.Errorf("pid %d: %w", pid, classify(err))
	}
	c.log.Info("terminate sent", zap.Int32("pid", pid))
	return nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, process.ErrorProcessNotRunning),
		errors.Is(err, os.ErrProcessDone),
		errors.Is(err, syscall.ESRCH):
		return ErrNotFound
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.EPERM):
		return ErrPermissionDenied
	}
	return err
}

// Launch opens path with the OS registered handler. It does not check that
// a window or process appears afterwards.
func (c *Controller) Launch(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return &LaunchError{Path: path, Reason: "no file selected"}
	}
	if _, err := os.Stat(path); err != nil {
		return &LaunchError{Path: path, Reason: err.Error()}
	}

	name, args := c.command(path)
	cmd := exec.Command(name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Start(); err != nil {
		return &LaunchError{Path: path, Reason: err.Error()}
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			reason := strings.TrimSpace(out.String())
			if reason == "" {
				reason = err.Error()
			}
			return &LaunchError{Path: path, Reason: reason}
		}
	case <-time.After(c.Grace):
		c.log.Debug("opener still running, assuming handoff", zap.String("path", path))
	case <-ctx.Done():
		return ctx.Err()
	}
	c.log.Info("launched", zap.String("path", path))
	return nil
}

func openCommand(path string) (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	}
	return "xdg-open", []string{path}
}
