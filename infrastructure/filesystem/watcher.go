package filesystem

import (
	"context"
	"fmt"
	"os"

	"vidtowav/domain/conversion"

	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
)

// Watcher reports new or changed video files under a root
type Watcher struct {
	watcher   *fsnotify.Watcher
	exts      conversion.ExtensionSet
	recursive bool
	logger    *zap.Logger
	changes   chan string
}

// NewWatcher watches root, and every subdirectory when recursive is set.
// Directories created later are added as they appear.
func NewWatcher(root string, exts conversion.ExtensionSet, recursive bool, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		watcher:   fw,
		exts:      exts,
		recursive: recursive,
		logger:    logger.Named("watcher"),
		changes:   make(chan string, 64),
	}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Changes delivers paths of matching files that were created, written or
// renamed into place. Bursts beyond the buffer are dropped; one pending
// path is enough to trigger a rescan.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Run forwards events until ctx is done, then closes Changes
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.changes)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}

	if event.Has(fsnotify.Create) && w.recursive {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("cannot watch new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			w.emit(event.Name)
			return
		}
	}

	if !w.exts.Matches(event.Name) {
		return
	}
	w.emit(event.Name)
}

func (w *Watcher) emit(path string) {
	select {
	case w.changes <- path:
	default:
		w.logger.Debug("change dropped, rescan already pending", zap.String("path", path))
	}
}

func (w *Watcher) addTree(root string) error {
	if !w.recursive {
		return w.add(root)
	}
	return godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			return w.add(path)
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			w.logger.Debug("skipping unreadable directory", zap.String("path", path), zap.Error(err))
			return godirwalk.SkipNode
		},
	})
}

func (w *Watcher) add(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.logger.Debug("watching", zap.String("dir", dir))
	return nil
}
