package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"time"
)

// Runner executes name with args in dir and returns its standard output.
type Runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// CLI implements Repository by invoking the git executable.
type CLI struct {
	// WorkDir is the directory Toplevel runs in. Empty means the process
	// working directory.
	WorkDir string

	binary  string
	timeout time.Duration
	run     Runner
}

// NewCLI creates a CLI backend. Empty binary and non-positive timeout fall
// back to DefaultBinary and DefaultTimeout.
func NewCLI(binary string, timeout time.Duration) *CLI {
	if binary == "" {
		binary = DefaultBinary
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CLI{
		binary:  binary,
		timeout: timeout,
		run:     execRunner,
	}
}

// Timeout returns the per-invocation deadline.
func (c *CLI) Timeout() time.Duration {
	return c.timeout
}

// Toplevel runs `git rev-parse --show-toplevel`.
func (c *CLI) Toplevel(ctx context.Context) (string, error) {
	out, err := c.output(ctx, c.WorkDir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", classify(err, ErrNotRepository)
	}
	if out == "" {
		return "", fmt.Errorf("%w: empty toplevel", ErrNotRepository)
	}
	return out, nil
}

// RemoteURL runs `git -C <dir> remote get-url <remote>`.
func (c *CLI) RemoteURL(ctx context.Context, dir, remote string) (string, error) {
	out, err := c.output(ctx, "", "-C", dir, "remote", "get-url", remote)
	if err != nil {
		return "", classify(err, ErrRemoteNotFound)
	}
	if out == "" {
		return "", fmt.Errorf("%w: %s has empty url", ErrRemoteNotFound, remote)
	}
	return out, nil
}

// output runs git under a timeout and returns trimmed stdout.
func (c *CLI) output(ctx context.Context, dir string, args ...string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.run(timeoutCtx, dir, c.binary, args...)
	if err != nil {
		if errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %v: git %s", ErrTimeout, c.timeout, strings.Join(args, " "))
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrToolNotFound, c.binary)
		}
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// classify wraps a command failure with fallback unless it already carries
// one of the package sentinels.
func classify(err, fallback error) error {
	for _, sentinel := range []error{ErrTimeout, ErrToolNotFound, ErrNotRepository, ErrRemoteNotFound} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", fallback, err)
}

func execRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, fmt.Errorf("%w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
		}
		return out, err
	}
	return out, nil
}
