package bankid

import (
	"context"
	"strings"

	"github.com/gcswan/hindsight-cc/pkg/git"
)

// remoteMatch is a remote URL split into its parts.
type remoteMatch struct {
	Scheme string
	User   string
	Host   string
	Path   string
}

// ParseRemoteURL reduces a remote URL to an identity.
//
// Two shapes are recognized after a trailing ".git" is removed:
//
//	user@host:path                  (colon form, e.g. git@github.com:owner/repo)
//	scheme://[user@]host/path       (slash form, e.g. https://github.com/owner/repo)
//
// The identity is the last two path segments joined by "-", so
// org/team/repo yields "team-repo". A single segment is returned as is.
// ok is false when the URL has neither shape or an empty path.
func ParseRemoteURL(url string) (identity string, ok bool) {
	url = strings.TrimSuffix(strings.TrimSpace(url), ".git")

	m, ok := matchColonForm(url)
	if !ok {
		m, ok = matchSlashForm(url)
	}
	if !ok {
		return "", false
	}
	return identityFromRemotePath(m.Path)
}

// matchColonForm matches user@host:path. The user must be non-empty and
// contain no "/", the host runs up to the first ":", and the path is
// everything after it.
func matchColonForm(url string) (remoteMatch, bool) {
	user, rest, found := strings.Cut(url, "@")
	if !found || user == "" || strings.Contains(user, "/") {
		return remoteMatch{}, false
	}

	host, path, found := strings.Cut(rest, ":")
	if !found || host == "" || strings.Contains(host, "/") || path == "" {
		return remoteMatch{}, false
	}
	return remoteMatch{User: user, Host: host, Path: path}, true
}

// matchSlashForm matches scheme://[user@]host/path. The authority runs up to
// the first "/", the optional user is everything in it before the last "@",
// the host may carry a port, and the path is everything after the authority.
func matchSlashForm(url string) (remoteMatch, bool) {
	scheme, rest, found := strings.Cut(url, "://")
	if !found || !isScheme(scheme) {
		return remoteMatch{}, false
	}

	authority, path, found := strings.Cut(rest, "/")
	if !found || path == "" {
		return remoteMatch{}, false
	}

	var user string
	if i := strings.LastIndex(authority, "@"); i >= 0 {
		user, authority = authority[:i], authority[i+1:]
		if user == "" {
			return remoteMatch{}, false
		}
	}
	if authority == "" {
		return remoteMatch{}, false
	}
	return remoteMatch{Scheme: scheme, User: user, Host: authority, Path: path}, true
}

// isScheme reports whether s is a URL scheme: a letter followed by letters,
// digits, "+", "-" or ".".
func isScheme(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

func identityFromRemotePath(path string) (string, bool) {
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	switch n := len(segments); {
	case n >= 2:
		return segments[n-2] + "-" + segments[n-1], true
	case n == 1:
		return segments[0], true
	default:
		return "", false
	}
}

// RemoteExtractor derives an identity from a project's origin remote.
type RemoteExtractor struct {
	repo   git.Repository
	remote string
}

// NewRemoteExtractor creates an extractor that reads the origin remote.
func NewRemoteExtractor(repo git.Repository) *RemoteExtractor {
	return &RemoteExtractor{repo: repo, remote: OriginRemote}
}

// Extract returns the remote identity of the repository at root. ok is false
// when there is no usable remote, which is an expected outcome.
func (e *RemoteExtractor) Extract(ctx context.Context, root string) (identity string, ok bool) {
	url, err := e.repo.RemoteURL(ctx, root, e.remote)
	if err != nil {
		return "", false
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return "", false
	}
	return ParseRemoteURL(url)
}
