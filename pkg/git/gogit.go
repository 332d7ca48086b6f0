package git

import (
	"context"
	"errors"
	"fmt"
	"os"

	gogit "github.com/go-git/go-git/v5"
)

// GoGit implements Repository in-process with go-git, without a git binary.
type GoGit struct {
	// WorkDir is where Toplevel starts searching. Empty means the process
	// working directory.
	WorkDir string
}

// Toplevel walks up from WorkDir to the directory holding .git.
func (g *GoGit) Toplevel(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := g.WorkDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}

	repo, err := openDetect(dir)
	if err != nil {
		return "", err
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no worktree and therefore no toplevel.
		return "", fmt.Errorf("%w: %s: %v", ErrNotRepository, dir, err)
	}
	return wt.Filesystem.Root(), nil
}

// RemoteURL returns the first URL configured for remote.
func (g *GoGit) RemoteURL(ctx context.Context, dir, remote string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	repo, err := openDetect(dir)
	if err != nil {
		return "", err
	}

	r, err := repo.Remote(remote)
	if err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return "", fmt.Errorf("%w: %s", ErrRemoteNotFound, remote)
		}
		return "", fmt.Errorf("reading remote %s: %w", remote, err)
	}

	urls := r.Config().URLs
	if len(urls) == 0 || urls[0] == "" {
		return "", fmt.Errorf("%w: %s has no url", ErrRemoteNotFound, remote)
	}
	return urls[0], nil
}

func openDetect(dir string) (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", dir, err)
	}
	return repo, nil
}
