package ffmpeg

import (
	"context"
	"errors"
	"os/exec"

	"vidtowav/domain/conversion"

	"go.uber.org/zap"
)

// Converter implements conversion.AudioConverter using ffmpeg
type Converter struct {
	ffmpegPath string
	runner     CommandRunner
	logger     *zap.Logger
}

// Option is a functional option for configuring Converter and Preflight
type Option func(*settings)

type settings struct {
	ffmpegPath string
	runner     CommandRunner
	logger     *zap.Logger
}

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) Option {
	return func(s *settings) {
		if path != "" {
			s.ffmpegPath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) Option {
	return func(s *settings) {
		s.runner = runner
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// NewConverter creates a new FFmpeg-based audio converter
func NewConverter(opts ...Option) *Converter {
	s := newSettings(opts)
	return &Converter{
		ffmpegPath: s.ffmpegPath,
		runner:     s.runner,
		logger:     s.logger.Named("ffmpeg"),
	}
}

// BuildArgs returns the ffmpeg argument vector for a job:
// input and -vn, the format's codec arguments, the output path, then the
// overwrite or no-clobber flag and quiet logging.
func BuildArgs(job conversion.Job) []string {
	args := []string{"-i", job.Source, "-vn"}
	args = append(args, conversion.CodecArgsFor(job.Format, job.Quality)...)

	clobber := "-n"
	if job.Overwrite {
		clobber = "-y"
	}
	return append(args, job.Destination, clobber, "-hide_banner", "-loglevel", "warning")
}

// Convert implements conversion.AudioConverter
func (c *Converter) Convert(ctx context.Context, job conversion.Job) error {
	args := BuildArgs(job)
	c.logger.Debug("running ffmpeg", zap.String("binary", c.ffmpegPath), zap.Strings("args", args))

	stderr, err := c.runner.Run(ctx, c.ffmpegPath, args...)
	if err == nil {
		return nil
	}

	toolErr := &conversion.ToolError{ExitCode: -1, Stderr: stderr, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		toolErr.ExitCode = exitErr.ExitCode()
	}

	c.logger.Warn("ffmpeg failed",
		zap.String("source", job.Source),
		zap.Int("exit_code", toolErr.ExitCode),
		zap.String("stderr", stderr),
		zap.Error(err),
	)
	return toolErr
}

// Ensure Converter implements conversion.AudioConverter
var _ conversion.AudioConverter = (*Converter)(nil)
