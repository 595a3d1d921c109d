package conversion

import (
	"path/filepath"
	"strings"
)

// ResolveOutputPath computes where the converted audio for source is written.
//
// Without a destination root the output sits beside the source. With one, the
// source's path relative to SourceRoot is re-rooted under DestinationRoot;
// sources outside SourceRoot are flattened to their base name so the result
// never escapes the destination root.
func ResolveOutputPath(source string, req *Request) string {
	ext := ExtensionFor(req.Format)

	if req.DestinationRoot == "" {
		return replaceExt(source, ext)
	}

	rel := filepath.Base(source)
	if req.SourceRoot != "" {
		if r, err := filepath.Rel(req.SourceRoot, source); err == nil && isLocal(r) {
			rel = r
		}
	}

	return replaceExt(filepath.Join(req.DestinationRoot, rel), ext)
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// isLocal reports whether rel stays inside its base directory
func isLocal(rel string) bool {
	if rel == "." || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
