package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrHeadNotFound indicates the HEAD file is missing from the git directory.
var ErrHeadNotFound = errors.New("HEAD file not found")

// Detached is reported by Branch when HEAD does not point at a branch.
const Detached = "detached"

// Branch reads the current branch of the repository whose top level is root.
//
// It reads HEAD directly, so it needs neither the git binary nor a full
// repository open. Linked worktrees, where .git is a file containing
// "gitdir: <path>", are followed to their own HEAD.
//
// Returns:
//   - Branch name (e.g., "main", "feature/v3-rebuild")
//   - Detached if HEAD holds a commit hash or is empty
//   - ErrNotRepository if root has no .git entry
//   - ErrHeadNotFound if HEAD is missing
func Branch(root string) (string, error) {
	gitDir, err := resolveGitDir(root)
	if err != nil {
		return "", err
	}

	headFile := filepath.Join(gitDir, "HEAD")
	content, err := os.ReadFile(headFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrHeadNotFound, headFile)
		}
		return "", fmt.Errorf("reading HEAD file: %w", err)
	}

	head := strings.TrimSpace(string(content))
	if branch, ok := strings.CutPrefix(head, "ref: refs/heads/"); ok && branch != "" {
		return branch, nil
	}
	return Detached, nil
}

// resolveGitDir returns the git directory for root, following a .git file.
func resolveGitDir(root string) (string, error) {
	dotGit := filepath.Join(root, ".git")
	info, err := os.Stat(dotGit)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotRepository, root)
		}
		return "", fmt.Errorf("inspecting %s: %w", dotGit, err)
	}
	if info.IsDir() {
		return dotGit, nil
	}

	content, err := os.ReadFile(dotGit)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", dotGit, err)
	}
	target, ok := strings.CutPrefix(strings.TrimSpace(string(content)), "gitdir:")
	if !ok {
		return "", fmt.Errorf("%w: malformed %s", ErrNotRepository, dotGit)
	}
	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}
	return target, nil
}
