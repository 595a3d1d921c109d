package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vidtowav/domain/conversion"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

func nextChange(t *testing.T, changes <-chan string) string {
	t.Helper()
	select {
	case p, ok := <-changes:
		if !ok {
			t.Fatal("changes closed early")
		}
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a change")
	}
	return ""
}

func TestWatcher_ReportsVideosInNewSubfolders(t *testing.T) {
	root := t.TempDir()
	w, err := NewWatcher(root, conversion.NewExtensionSet(".mp4"), true, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	sub := filepath.Join(root, "day1")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	// the new folder is reported once it is being watched
	if got := nextChange(t, w.Changes()); got != sub {
		t.Fatalf("first change = %q, want %q", got, sub)
	}

	notes := filepath.Join(sub, "notes.txt")
	video := filepath.Join(sub, "TALK.MP4")
	if err := os.WriteFile(notes, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(video, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	for {
		got := nextChange(t, w.Changes())
		if got == notes {
			t.Fatalf("non-video file reported: %s", got)
		}
		if got == video {
			break
		}
	}
}

func TestWatcher_Handle(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"created video", fsnotify.Event{Name: "/in/a.MP4", Op: fsnotify.Create}, true},
		{"written video", fsnotify.Event{Name: "/in/a.mp4", Op: fsnotify.Write}, true},
		{"renamed video", fsnotify.Event{Name: "/in/a.mp4", Op: fsnotify.Rename}, true},
		{"other extension", fsnotify.Event{Name: "/in/a.txt", Op: fsnotify.Create}, false},
		{"removed video", fsnotify.Event{Name: "/in/a.mp4", Op: fsnotify.Remove}, false},
		{"chmod only", fsnotify.Event{Name: "/in/a.mp4", Op: fsnotify.Chmod}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Watcher{
				exts:    conversion.NewExtensionSet(".mp4"),
				logger:  zap.NewNop(),
				changes: make(chan string, 1),
			}
			w.handle(tt.event)
			if got := len(w.changes) == 1; got != tt.want {
				t.Errorf("reported = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWatcher_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	w := &Watcher{logger: zap.NewNop(), changes: make(chan string, 1)}

	done := make(chan struct{})
	go func() {
		w.emit("/in/a.mp4")
		w.emit("/in/b.mp4")
		w.emit("/in/c.mp4")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit blocked on a full buffer")
	}
	if got := <-w.changes; got != "/in/a.mp4" {
		t.Errorf("kept change = %q, want the first one", got)
	}
}
