package conversion

import (
	"context"
	"errors"
	"sync"

	"vidtowav/domain/conversion"
)

// mockConverter records jobs and optionally fails chosen sources
type mockConverter struct {
	mu       sync.Mutex
	jobs     []conversion.Job
	failWith map[string]error
	// written, when set, receives each successful destination
	written *mockFS
	// afterCall runs after each invocation with the 1-based call count
	afterCall func(n int)
}

func (m *mockConverter) Convert(ctx context.Context, job conversion.Job) error {
	m.mu.Lock()
	m.jobs = append(m.jobs, job)
	n := len(m.jobs)
	m.mu.Unlock()

	if m.afterCall != nil {
		defer m.afterCall(n)
	}
	if err := m.failWith[job.Source]; err != nil {
		return err
	}
	if m.written != nil {
		m.written.touch(job.Destination)
	}
	return nil
}

func (m *mockConverter) sources() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.jobs))
	for i, j := range m.jobs {
		out[i] = j.Source
	}
	return out
}

// mockFS is an in-memory conversion.FileSystem
type mockFS struct {
	mu     sync.Mutex
	files  map[string]bool
	dirs   []string
	dirErr error
}

func newMockFS(existing ...string) *mockFS {
	fs := &mockFS{files: make(map[string]bool)}
	for _, p := range existing {
		fs.files[p] = true
	}
	return fs
}

func (m *mockFS) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[path]
}

func (m *mockFS) EnsureDir(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dirErr != nil {
		return m.dirErr
	}
	m.dirs = append(m.dirs, dir)
	return nil
}

func (m *mockFS) touch(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = true
}

// recordingSink captures every event
type recordingSink struct {
	mu       sync.Mutex
	progress [][2]int
	lines    []string
	finished []conversion.Summary
}

func (s *recordingSink) OnProgress(current, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, [2]int{current, total})
}

func (s *recordingSink) OnLog(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *recordingSink) OnFinished(summary conversion.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = append(s.finished, summary)
}

func (s *recordingSink) count(line string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		if l == line {
			n++
		}
	}
	return n
}

// mockProbe reports a fixed availability
type mockProbe struct {
	available bool
	calls     int
}

func (m *mockProbe) IsToolAvailable(ctx context.Context) bool {
	m.calls++
	return m.available
}

// mockDiscoverer returns canned items, optionally blocking until released
type mockDiscoverer struct {
	items   []conversion.WorkItem
	err     error
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (m *mockDiscoverer) Discover(ctx context.Context, req *conversion.Request) ([]conversion.WorkItem, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.items, m.err
}

func (m *mockDiscoverer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var errBoom = errors.New("boom")

func workItems(paths ...string) []conversion.WorkItem {
	items := make([]conversion.WorkItem, len(paths))
	for i, p := range paths {
		items[i] = conversion.WorkItem{Path: p}
	}
	return items
}
