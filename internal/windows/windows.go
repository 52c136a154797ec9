// Package windows reports which processes own visible top-level windows.
package windows

import (
	"context"
	"encoding/csv"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/taskmon/internal/osutil"
)

// ErrUnsupported is returned on platforms without a window query helper.
var ErrUnsupported = fmt.Errorf("window enumeration is not supported on %s", runtime.GOOS)

// Lister returns the owning pid of every visible top-level window. A pid
// appears once per window, so duplicates are expected.
type Lister interface {
	OwnerPIDs(ctx context.Context) ([]int32, error)
}

// ListerFunc adapts a function to Lister.
type ListerFunc func(ctx context.Context) ([]int32, error)

func (f ListerFunc) OwnerPIDs(ctx context.Context) ([]int32, error) { return f(ctx) }

// CommandLister shells out to a platform helper and parses its output.
type CommandLister struct {
	Name    string
	Args    []string
	Timeout time.Duration
	Parse   func(string) ([]int32, error)
}

func (c CommandLister) OwnerPIDs(ctx context.Context) ([]int32, error) {
	out, err := osutil.RunCmd(ctx, c.Timeout, c.Name, c.Args...)
	if err != nil {
		return nil, err
	}
	return c.Parse(out)
}

// New returns the Lister for the running OS: wmctrl on X11 desktops,
// System Events on macOS, tasklist on Windows.
func New(timeout time.Duration) Lister {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
		return CommandLister{Name: "wmctrl", Args: []string{"-lp"}, Timeout: timeout, Parse: ParseWmctrl}
	case "darwin":
		return CommandLister{
			Name:    "osascript",
			Args:    []string{"-e", `tell application "System Events" to get unix id of every process whose visible is true`},
			Timeout: timeout,
			Parse:   ParseAppleScriptList,
		}
	case "windows":
		return CommandLister{
			Name:    "tasklist",
			Args:    []string{"/v", "/fo", "csv", "/nh"},
			Timeout: timeout,
			Parse:   ParseTasklistCSV,
		}
	}
	return ListerFunc(func(context.Context) ([]int32, error) { return nil, ErrUnsupported })
}

// ParseWmctrl reads `wmctrl -lp` output: window id, desktop, pid, host, title.
// Windows without a known pid report 0 and are skipped.
func ParseWmctrl(out string) ([]int32, error) {
	var pids []int32
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		pid, err := strconv.ParseInt(fields[2], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("wmctrl: bad pid %q", fields[2])
		}
		if pid > 0 {
			pids = append(pids, int32(pid))
		}
	}
	return pids, nil
}

// ParseAppleScriptList reads a comma separated list of unix ids.
func ParseAppleScriptList(out string) ([]int32, error) {
	out = strings.TrimSpace(out)
	if out == "" {
		return nil, nil
	}
	var pids []int32
	for _, part := range strings.Split(out, ",") {
		pid, err := strconv.ParseInt(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("osascript: bad pid %q", part)
		}
		pids = append(pids, int32(pid))
	}
	return pids, nil
}

// ParseTasklistCSV reads `tasklist /v /fo csv /nh`. The last column is the
// window title, "N/A" for processes without one.
func ParseTasklistCSV(out string) ([]int32, error) {
	r := csv.NewReader(strings.NewReader(out))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("tasklist: %w", err)
	}
	var pids []int32
	for _, rec := range records {
		if len(rec) < 3 {
			continue
		}
		title := strings.TrimSpace(rec[len(rec)-1])
		if title == "" || title == "N/A" {
			continue
		}
		pid, err := strconv.ParseInt(rec[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("tasklist: bad pid %q", rec[1])
		}
		pids = append(pids, int32(pid))
	}
	return pids, nil
}
