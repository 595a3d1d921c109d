package filesystem

import (
	"fmt"
	"os"

	"vidtowav/domain/conversion"
)

// Checker is the conversion.FileSystem backed by the local disk
type Checker struct {
	dirPerm os.FileMode
}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{dirPerm: 0755}
}

// Exists reports whether anything occupies path, including a dangling symlink
func (c *Checker) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// EnsureDir creates dir and any missing parents
func (c *Checker) EnsureDir(dir string) error {
	if info, err := os.Stat(dir); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("cannot create folder %s: a file is in the way", dir)
		}
		return nil
	}
	if err := os.MkdirAll(dir, c.dirPerm); err != nil {
		return fmt.Errorf("failed to create folder %s: %w", dir, err)
	}
	return nil
}

var _ conversion.FileSystem = (*Checker)(nil)
