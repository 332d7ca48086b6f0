package bankid

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gcswan/hindsight-cc/pkg/git"
)

// Locator finds the project root.
type Locator interface {
	Locate(ctx context.Context) (string, error)
}

// Extractor derives a remote identity for a project root.
type Extractor interface {
	Extract(ctx context.Context, root string) (identity string, ok bool)
}

// RootLocator locates the project root: the git toplevel, else the working
// directory.
type RootLocator struct {
	repo  git.Repository
	getwd func() (string, error)
}

// NewRootLocator creates a locator backed by repo.
func NewRootLocator(repo git.Repository) *RootLocator {
	return &RootLocator{repo: repo, getwd: os.Getwd}
}

// Locate returns the git toplevel when the repository query succeeds with a
// non-empty answer, and the working directory otherwise. It errors only when
// the working directory itself is unavailable.
func (l *RootLocator) Locate(ctx context.Context) (string, error) {
	if root, err := l.repo.Toplevel(ctx); err == nil {
		if root = strings.TrimSpace(root); root != "" {
			return root, nil
		}
	}

	cwd, err := l.getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return cwd, nil
}

// Resolver produces bank IDs. It holds no mutable state and is safe for
// concurrent use.
type Resolver struct {
	locator   Locator
	extractor Extractor
}

// NewResolver creates a resolver from its two collaborators.
func NewResolver(locator Locator, extractor Extractor) *Resolver {
	return &Resolver{locator: locator, extractor: extractor}
}

// New creates a resolver whose root and remote lookups both use repo.
func New(repo git.Repository) *Resolver {
	return NewResolver(NewRootLocator(repo), NewRemoteExtractor(repo))
}

// Resolve returns the bank ID for the current project using the git CLI
// with the default timeout.
func Resolve(ctx context.Context, sink Sink) string {
	return New(git.NewCLI(git.DefaultBinary, git.DefaultTimeout)).Resolve(ctx, sink)
}

// Resolve returns the bank ID for the current project.
func (r *Resolver) Resolve(ctx context.Context, sink Sink) string {
	return r.ResolveDetail(ctx, sink).ID
}

// ResolveDetail returns the bank ID together with the tier that produced it.
func (r *Resolver) ResolveDetail(ctx context.Context, sink Sink) Result {
	root, err := r.locator.Locate(ctx)
	if err != nil {
		sink.emit("Failed to detect project directory: %v", err)
		return defaultResult()
	}
	if root == "" {
		sink.emit("No project directory available, using default")
		return defaultResult()
	}
	sink.emit("Detected project directory: %s", root)

	root = normalizeRoot(root)

	if identity, ok := r.extractor.Extract(ctx, root); ok {
		sink.emit("Using git-based ID: %s", identity)
		return Result{ID: Compose(identity), Identity: identity, Source: SourceRemote, Root: root}
	}

	identity := PathIdentity(root)
	sink.emit("Using path-based ID: %s", identity)
	return Result{ID: Compose(identity), Identity: identity, Source: SourcePath, Root: root}
}

// normalizeRoot makes path absolute and resolves symlinks in its longest
// existing prefix. Components below that prefix are kept as written, so
// synthetic paths pass through.
func normalizeRoot(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	var missing []string
	for p := path; ; {
		if resolved, err := filepath.EvalSymlinks(p); err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...)
		}
		parent := filepath.Dir(p)
		if parent == p {
			return path
		}
		missing = append([]string{filepath.Base(p)}, missing...)
		p = parent
	}
}
