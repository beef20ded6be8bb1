package recipes

import "strings"

// DeriveName strips the last extension from a file name: everything from the
// final '.' on. Names without a '.', or ending in one, are returned unchanged.
func DeriveName(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 && i < len(filename)-1 {
		return filename[:i]
	}
	return filename
}
