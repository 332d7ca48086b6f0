package bankid

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// PathIdentity derives an identity from the last two components of path.
//
// The root marker counts as a component, so /tmp yields "/-tmp". A single
// component is doubled ("x-x") and an empty path yields UnknownIdentity.
// PathIdentity does no I/O.
func PathIdentity(path string) string {
	parts := pathComponents(path)
	switch n := len(parts); {
	case n >= 2:
		return parts[n-2] + "-" + parts[n-1]
	case n == 1:
		return parts[0] + "-" + parts[0]
	default:
		return UnknownIdentity
	}
}

// pathComponents splits path into its root marker (if any) followed by its
// named elements. Empty and "." elements are dropped.
//
//	/a/b/c   -> ["/", "a", "b", "c"]
//	a/./b/   -> ["a", "b"]
//	C:\x\y   -> ["C:\", "x", "y"] (Windows)
func pathComponents(path string) []string {
	vol := filepath.VolumeName(path)
	rest := path[len(vol):]

	var parts []string
	switch {
	case rest != "" && os.IsPathSeparator(rest[0]):
		parts = append(parts, vol+string(filepath.Separator))
	case vol != "":
		parts = append(parts, vol)
	}

	for _, elem := range strings.FieldsFunc(rest, isSeparator) {
		if elem == "." {
			continue
		}
		parts = append(parts, elem)
	}
	return parts
}

func isSeparator(r rune) bool {
	return r < utf8.RuneSelf && os.IsPathSeparator(uint8(r))
}
