package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"vidtowav/domain/conversion"

	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
)

// Discoverer builds the worklist for a request from the local filesystem
type Discoverer struct {
	logger *zap.Logger
}

// DiscovererOption configures a Discoverer
type DiscovererOption func(*Discoverer)

// WithDiscoveryLogger sets the diagnostic logger
func WithDiscoveryLogger(logger *zap.Logger) DiscovererOption {
	return func(d *Discoverer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDiscoverer creates a filesystem discoverer
func NewDiscoverer(opts ...DiscovererOption) *Discoverer {
	d := &Discoverer{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.Named("discovery")
	return d
}

// Discover returns explicitly selected files first, in the order given, then
// every matching file under the scan folders in lexical walk order. A path is
// never returned twice. Missing folders contribute nothing.
func (d *Discoverer) Discover(ctx context.Context, req *conversion.Request) ([]conversion.WorkItem, error) {
	var items []conversion.WorkItem
	seen := make(map[string]struct{})

	add := func(path string) {
		key := filepath.Clean(path)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		items = append(items, conversion.WorkItem{Path: path})
	}

	for _, f := range req.ExplicitFiles() {
		add(f)
	}

	for _, folder := range req.ScanFolders() {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		info, err := os.Stat(folder)
		if err != nil || !info.IsDir() {
			d.logger.Debug("skipping missing folder", zap.String("folder", folder), zap.Error(err))
			continue
		}

		var files []string
		if req.Recursive {
			files, err = walkRecursive(ctx, folder, req.Extensions, d.logger)
		} else {
			files, err = listImmediate(folder, req.Extensions)
		}
		if err != nil {
			return items, fmt.Errorf("failed to scan %s: %w", folder, err)
		}

		d.logger.Debug("scanned folder", zap.String("folder", folder), zap.Int("matches", len(files)))
		for _, f := range files {
			add(f)
		}
	}

	return items, nil
}

// walkRecursive visits folder and every subdirectory in sorted order
func walkRecursive(ctx context.Context, folder string, exts conversion.ExtensionSet, logger *zap.Logger) ([]string, error) {
	var files []string
	err := godirwalk.Walk(folder, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if de.IsDir() || !exts.Matches(path) {
				return nil
			}
			if de.IsSymlink() && !isRegularFile(path) {
				return nil
			}
			files = append(files, path)
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			if ctx.Err() != nil {
				return godirwalk.Halt
			}
			logger.Debug("unreadable entry", zap.String("path", path), zap.Error(err))
			return godirwalk.SkipNode
		},
	})
	return files, err
}

// listImmediate returns matching regular files directly inside folder
func listImmediate(folder string, exts conversion.ExtensionSet) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(folder, e.Name())
		if !exts.Matches(path) {
			continue
		}
		if e.Type()&os.ModeSymlink != 0 && !isRegularFile(path) {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Ensure Discoverer implements conversion.Discoverer
var _ conversion.Discoverer = (*Discoverer)(nil)
