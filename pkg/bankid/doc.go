// Package bankid derives the memory bank ID that namespaces hindsight-cc
// memories for the project Claude Code is working in.
//
// # Resolution
//
// A bank ID is "claude-code--" followed by a lowercased identity. The
// identity comes from the first tier that produces one:
//
//  1. Remote: the last two path segments of the origin remote URL
//     (git@github.com:owner/repo.git -> owner-repo)
//  2. Path: the last two components of the project root
//     (/home/user/code/myapp -> code-myapp)
//  3. Default: "default", when the project root cannot be determined at all
//
// The project root is the git toplevel of the working directory, or the
// working directory itself outside a repository.
//
// # Usage
//
//	id := bankid.Resolve(ctx, nil)
//
// or, with an explicit backend and a debug sink:
//
//	repo, _ := git.New(git.Options{Backend: git.BackendAuto})
//	id := bankid.New(repo).Resolve(ctx, func(msg string) {
//	    fmt.Fprintln(os.Stderr, msg)
//	})
//
// Resolution never fails. Every failure drops to the next tier, and the sink
// is the only place the chosen tier is reported.
package bankid
