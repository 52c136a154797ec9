package osutil

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrTimeout is returned when a helper command outlives its deadline.
var ErrTimeout = errors.New("command timed out")

// RunCmd runs name with args and returns combined output. A non-zero exit is
// reported with the trimmed output as the reason.
func RunCmd(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("%s: %w", name, ErrTimeout)
	}
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return string(out), fmt.Errorf("%s: %s: %w", name, msg, err)
		}
		return string(out), fmt.Errorf("%s: %w", name, err)
	}
	return string(out), nil
}
