package conversion

import (
	"context"
	"path/filepath"
	"time"

	"vidtowav/domain/conversion"

	"go.uber.org/zap"
)

// Service is the conversion engine: it processes a worklist one item at a
// time and reports every decision to a sink.
type Service struct {
	converter conversion.AudioConverter
	fs        conversion.FileSystem
	logger    *zap.Logger
	itemPause time.Duration
	now       func() time.Time
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithLogger sets the diagnostic logger
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithItemPause sets a short yield between items
func WithItemPause(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.itemPause = d
	}
}

// WithClock overrides time.Now (for testing)
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new conversion engine
func NewService(converter conversion.AudioConverter, fs conversion.FileSystem, opts ...ServiceOption) *Service {
	s := &Service{
		converter: converter,
		fs:        fs,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("engine")
	return s
}

// Run converts items in order. It checks stop before each item and treats
// a cancelled ctx the same way. Every processed item yields exactly one
// outcome, one log line and one progress update. The summary is always
// delivered to sink, even for an empty worklist or a stopped run.
//
// Cancelling ctx also kills an in-flight ffmpeg process. The partial output
// it leaves behind is skipped as already existing on the next run unless
// overwrite is enabled.
func (s *Service) Run(ctx context.Context, items []conversion.WorkItem, req *conversion.Request, sink conversion.Sink, stop *StopFlag) conversion.Summary {
	summary := conversion.Summary{
		Total:   len(items),
		Started: s.now(),
	}

	for i, item := range items {
		if stop.Stopped() || ctx.Err() != nil {
			summary.Stopped = true
			sink.OnLog(LineStopped)
			s.logger.Info("run stopped", zap.Int("processed", summary.Processed()), zap.Int("total", len(items)))
			break
		}

		outcome := s.process(ctx, item, req)
		summary.Record(outcome)
		sink.OnLog(outcomeLine(outcome))
		sink.OnProgress(i+1, len(items))

		if s.itemPause > 0 && i < len(items)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(s.itemPause):
			}
		}
	}

	return s.finish(summary, sink)
}

// finish stamps the elapsed time and delivers the summary
func (s *Service) finish(summary conversion.Summary, sink conversion.Sink) conversion.Summary {
	summary.Elapsed = s.now().Sub(summary.Started)
	for _, line := range summaryLines(summary) {
		sink.OnLog(line)
	}
	sink.OnFinished(summary)
	return summary
}

// process decides skip-vs-convert for one item. It never returns an error:
// failures become Failed outcomes.
func (s *Service) process(ctx context.Context, item conversion.WorkItem, req *conversion.Request) conversion.Outcome {
	dest := conversion.ResolveOutputPath(item.Path, req)
	outcome := conversion.Outcome{Source: item.Path, Destination: dest}

	if !req.Overwrite && s.fs.Exists(dest) {
		outcome.Kind = conversion.Skipped
		outcome.Reason = conversion.AlreadyExists
		s.logger.Debug("skipping existing output", zap.String("destination", dest))
		return outcome
	}

	if req.DestinationRoot != "" {
		if err := s.fs.EnsureDir(filepath.Dir(dest)); err != nil {
			outcome.Kind = conversion.Failed
			outcome.Diagnostic = err.Error()
			s.logger.Warn("cannot create output directory", zap.String("destination", dest), zap.Error(err))
			return outcome
		}
	}

	s.logger.Debug("converting", zap.String("source", item.Path), zap.String("destination", dest))
	err := s.converter.Convert(ctx, conversion.Job{
		Source:      item.Path,
		Destination: dest,
		Format:      req.Format,
		Quality:     req.Quality,
		Overwrite:   req.Overwrite,
	})
	if err != nil {
		outcome.Kind = conversion.Failed
		outcome.Diagnostic = conversion.Diagnostic(err)
		return outcome
	}

	outcome.Kind = conversion.Converted
	return outcome
}
