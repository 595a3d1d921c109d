package conversion

import "sync/atomic"

// StopFlag is the cooperative cancellation handle shared between a run and
// its consumer. The consumer sets it; the engine polls it between items.
type StopFlag struct {
	stopped atomic.Bool
}

// Stop requests that the run halt before its next item
func (f *StopFlag) Stop() {
	f.stopped.Store(true)
}

// Stopped reports whether Stop was called. A nil flag is never stopped.
func (f *StopFlag) Stopped() bool {
	return f != nil && f.stopped.Load()
}
