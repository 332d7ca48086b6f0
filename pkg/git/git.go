// Package git answers the two questions hindsight-cc asks of version control:
// where is the top of the repository, and what URL does a named remote point at.
//
// Three backends implement Repository:
//   - CLI shells out to the git binary with a bounded per-call timeout
//   - GoGit reads the repository in-process with go-git
//   - Fallback chains two backends, consulting the second only when the
//     first reports that its tool is not installed
//
// Every backend reports failure through the sentinel errors below so callers
// can tell "not a repository" from "git is missing" with errors.Is.
package git

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotRepository indicates the directory is not inside a git repository.
	ErrNotRepository = errors.New("not a git repository")

	// ErrRemoteNotFound indicates the requested remote is not configured.
	ErrRemoteNotFound = errors.New("remote not found")

	// ErrToolNotFound indicates the git binary could not be executed.
	ErrToolNotFound = errors.New("git executable not found")

	// ErrTimeout indicates a git invocation exceeded its deadline.
	ErrTimeout = errors.New("git command timed out")

	// ErrUnknownBackend indicates an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown git backend")
)

// Backend names accepted by New.
const (
	BackendCLI   = "cli"
	BackendGoGit = "gogit"
	BackendAuto  = "auto"
)

const (
	// DefaultBinary is the git executable looked up on PATH.
	DefaultBinary = "git"

	// DefaultTimeout bounds each git invocation.
	DefaultTimeout = 2 * time.Second
)

// Repository is the narrow view of version control needed to identify a project.
type Repository interface {
	// Toplevel returns the absolute top-level directory of the repository
	// containing the working directory.
	Toplevel(ctx context.Context) (string, error)

	// RemoteURL returns the URL configured for remote in the repository at dir.
	RemoteURL(ctx context.Context, dir, remote string) (string, error)
}

// Options selects and configures a backend.
type Options struct {
	// Backend is one of BackendCLI, BackendGoGit or BackendAuto. Empty means CLI.
	Backend string

	// Binary is the git executable for the CLI backend.
	Binary string

	// Timeout bounds each CLI invocation.
	Timeout time.Duration

	// WorkDir overrides the process working directory for Toplevel.
	WorkDir string
}

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendCLI, BackendGoGit, BackendAuto}
}

// New builds the Repository described by opts.
func New(opts Options) (Repository, error) {
	switch opts.Backend {
	case "", BackendCLI:
		return newCLIFromOptions(opts), nil
	case BackendGoGit:
		return &GoGit{WorkDir: opts.WorkDir}, nil
	case BackendAuto:
		return &Fallback{
			Primary:   newCLIFromOptions(opts),
			Secondary: &GoGit{WorkDir: opts.WorkDir},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

func newCLIFromOptions(opts Options) *CLI {
	c := NewCLI(opts.Binary, opts.Timeout)
	c.WorkDir = opts.WorkDir
	return c
}
