package bankid

import (
	"fmt"
	"strings"
)

const (
	// Prefix starts every bank ID.
	Prefix = "claude-code--"

	// DefaultIdentity is used when no project root can be determined.
	DefaultIdentity = "default"

	// UnknownIdentity is the path identity of an empty path.
	UnknownIdentity = "unknown-unknown"

	// OriginRemote is the only remote consulted for a remote identity.
	OriginRemote = "origin"
)

// Sink receives human-readable progress messages. A nil Sink discards them.
type Sink func(msg string)

func (s Sink) emit(format string, args ...any) {
	if s == nil {
		return
	}
	s(fmt.Sprintf(format, args...))
}

// Source identifies which tier produced a bank ID.
type Source int

const (
	// SourceDefault means project detection failed.
	SourceDefault Source = iota
	// SourceRemote means the identity came from the origin remote URL.
	SourceRemote
	// SourcePath means the identity came from the project root path.
	SourcePath
)

// String returns the tier name.
func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourcePath:
		return "path"
	default:
		return "default"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of a resolution.
type Result struct {
	// ID is the bank ID.
	ID string `json:"bank_id"`

	// Identity is the identity string before prefixing and lowercasing.
	Identity string `json:"identity"`

	// Source is the tier that produced Identity.
	Source Source `json:"source"`

	// Root is the normalized project root. Empty for SourceDefault.
	Root string `json:"project_dir,omitempty"`
}

// Compose builds a bank ID from an identity.
func Compose(identity string) string {
	return strings.ToLower(Prefix + identity)
}

func defaultResult() Result {
	return Result{
		ID:       Compose(DefaultIdentity),
		Identity: DefaultIdentity,
		Source:   SourceDefault,
	}
}
