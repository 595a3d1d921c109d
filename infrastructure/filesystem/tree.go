package filesystem

import (
	"fmt"
	"path/filepath"
	"sort"

	"vidtowav/domain/conversion"
	"vidtowav/domain/selection"

	"github.com/karrick/godirwalk"
)

// BuildTree reads root into a fully checked selection tree. Each directory
// lists its matching files before its subdirectories. Subdirectories are
// only read when recursive is set.
func BuildTree(root string, exts conversion.ExtensionSet, recursive bool) (*selection.Node, error) {
	root = filepath.Clean(root)
	name := filepath.Base(root)
	if name == "." || name == string(filepath.Separator) {
		name = root
	}

	node := selection.NewDir(root, name)
	if err := fillDir(node, exts, recursive); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", root, err)
	}
	return node, nil
}

func fillDir(dir *selection.Node, exts conversion.ExtensionSet, recursive bool) error {
	dirents, err := godirwalk.ReadDirents(dir.Path, nil)
	if err != nil {
		return err
	}
	sort.Sort(dirents)

	var subdirs []*godirwalk.Dirent
	for _, de := range dirents {
		path := filepath.Join(dir.Path, de.Name())
		if de.IsDir() {
			subdirs = append(subdirs, de)
			continue
		}
		if exts.Matches(path) {
			dir.Add(selection.NewFile(path, de.Name()))
		}
	}

	if !recursive {
		return nil
	}
	for _, de := range subdirs {
		child := dir.Add(selection.NewDir(filepath.Join(dir.Path, de.Name()), de.Name()))
		// unreadable subfolders stay in the tree, empty
		_ = fillDir(child, exts, recursive)
	}
	return nil
}
