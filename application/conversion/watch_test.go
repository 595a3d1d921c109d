package conversion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vidtowav/domain/conversion"
)

func TestWatchLoop_RerunsAfterChanges(t *testing.T) {
	disc := &mockDiscoverer{items: workItems("/in/a.mp4")}
	p := newPipeline(&mockProbe{available: true}, disc, &mockConverter{})
	loop := NewWatchLoop(p, 10*time.Millisecond, nil)

	var mu sync.Mutex
	runs := 0
	ran := make(chan struct{}, 8)
	loop.OnRun = func(conversion.Summary, error) {
		mu.Lock()
		runs++
		mu.Unlock()
		ran <- struct{}{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan string, 8)
	errc := make(chan error, 1)
	go func() {
		errc <- loop.Run(ctx, newRequest(t, "/in", "", conversion.FormatWAV), changes, &recordingSink{})
	}()

	waitRun := func() {
		t.Helper()
		select {
		case <-ran:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for a run")
		}
	}

	waitRun() // initial run

	// a burst of changes settles into a single run
	changes <- "/in/b.mp4"
	changes <- "/in/c.mp4"
	changes <- "/in/d.mp4"
	waitRun()

	select {
	case <-ran:
		t.Fatal("burst produced more than one run")
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	if err := <-errc; err != nil {
		t.Errorf("Run() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestWatchLoop_InitialRunFailure(t *testing.T) {
	p := newPipeline(&mockProbe{available: false}, &mockDiscoverer{}, &mockConverter{})
	loop := NewWatchLoop(p, time.Millisecond, nil)

	err := loop.Run(context.Background(), newRequest(t, "/in", "", conversion.FormatWAV), nil, &recordingSink{})
	if !errors.Is(err, conversion.ErrToolUnavailable) {
		t.Errorf("Run() error = %v, want ErrToolUnavailable", err)
	}
}
