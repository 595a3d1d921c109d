package conversion

import (
	"context"
	"errors"
	"time"

	"vidtowav/domain/conversion"

	"go.uber.org/zap"
)

// DefaultDebounce is how long the watch loop waits for a burst of file
// events to settle before rescanning
const DefaultDebounce = 2 * time.Second

// WatchLoop re-runs a pipeline whenever the watched tree changes. Runs
// never overlap: changes seen during a run schedule one follow-up run.
type WatchLoop struct {
	pipeline *Pipeline
	debounce time.Duration
	logger   *zap.Logger

	// OnRun, when set, receives the result of every completed run
	OnRun func(conversion.Summary, error)
}

// NewWatchLoop creates a watch loop over pipeline
func NewWatchLoop(pipeline *Pipeline, debounce time.Duration, logger *zap.Logger) *WatchLoop {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WatchLoop{
		pipeline: pipeline,
		debounce: debounce,
		logger:   logger.Named("watch"),
	}
}

// Run performs an initial run, then one run per settled burst of changes,
// until ctx is done. An in-flight run is stopped cooperatively on exit.
// It returns an error only when a run cannot start, for example because
// ffmpeg disappeared.
func (w *WatchLoop) Run(ctx context.Context, req *conversion.Request, changes <-chan string, sink conversion.Sink) error {
	var (
		job     *Job
		jobDone <-chan struct{}
		timer   *time.Timer
		timerC  <-chan time.Time
		pending bool
	)

	start := func() error {
		j, err := w.pipeline.Start(ctx, req, sink)
		if err != nil {
			return err
		}
		job, jobDone = j, j.Done()
		return nil
	}
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
		} else {
			timer.Reset(w.debounce)
		}
		timerC = timer.C
	}

	if err := start(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			if job != nil {
				job.Stop()
				summary, err := job.Wait()
				if w.OnRun != nil {
					w.OnRun(summary, err)
				}
			}
			return nil

		case path, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			w.logger.Debug("change detected", zap.String("path", path))
			if job != nil {
				pending = true
			} else {
				schedule()
			}

		case <-timerC:
			timerC = nil
			if err := start(); err != nil {
				if errors.Is(err, conversion.ErrRunInProgress) {
					pending = true
					continue
				}
				return err
			}

		case <-jobDone:
			summary, err := job.Wait()
			if w.OnRun != nil {
				w.OnRun(summary, err)
			}
			job, jobDone = nil, nil
			if pending {
				pending = false
				schedule()
			}
		}
	}
}
