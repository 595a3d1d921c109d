package conversion

import (
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions lists the video containers scanned when nothing else is configured
var DefaultExtensions = []string{
	".mp4", ".mov", ".avi", ".mkv", ".m4v", ".wmv", ".flv", ".ts",
	".webm", ".mpg", ".mpeg", ".m2v", ".mp2", ".m2p", ".mpe",
	".3gp", ".3g2", ".mxf", ".rm", ".rmvb", ".asf", ".vob", ".divx",
	".y4m", ".ogv", ".ogg", ".drc", ".gifv", ".mts", ".m2ts", ".f4v",
}

// ExtensionSet is a case-insensitive set of file extensions stored as ".ext"
type ExtensionSet map[string]struct{}

// NormalizeExtension lowercases ext and ensures a single leading dot.
// It returns "" for blank input.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	ext = strings.TrimLeft(ext, ".")
	if ext == "" {
		return ""
	}
	return "." + ext
}

// NewExtensionSet builds a set from exts, skipping blanks
func NewExtensionSet(exts ...string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, e := range exts {
		if n := NormalizeExtension(e); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// DefaultExtensionSet returns a fresh set of DefaultExtensions
func DefaultExtensionSet() ExtensionSet {
	return NewExtensionSet(DefaultExtensions...)
}

// Matches reports whether path's extension (text after the last '.') is in the set
func (s ExtensionSet) Matches(path string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}
	_, ok := s[strings.ToLower(ext)]
	return ok
}

// Has reports whether ext itself is a member
func (s ExtensionSet) Has(ext string) bool {
	_, ok := s[NormalizeExtension(ext)]
	return ok
}

// List returns the members sorted
func (s ExtensionSet) List() []string {
	out := make([]string, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of members
func (s ExtensionSet) Len() int {
	return len(s)
}
