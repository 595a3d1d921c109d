package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"vidtowav/domain/conversion"

	"go.uber.org/zap"
)

// Preflight checks that ffmpeg can be launched before a run starts
type Preflight struct {
	ffmpegPath string
	runner     CommandRunner
	logger     *zap.Logger
}

// NewPreflight creates a preflight probe
func NewPreflight(opts ...Option) *Preflight {
	s := newSettings(opts)
	return &Preflight{
		ffmpegPath: s.ffmpegPath,
		runner:     s.runner,
		logger:     s.logger.Named("preflight"),
	}
}

// IsToolAvailable runs "ffmpeg -version". Only a launch failure (missing or
// non-executable binary) reports false; any exit status counts as available.
func (p *Preflight) IsToolAvailable(ctx context.Context) bool {
	_, err := p.runner.Output(ctx, p.ffmpegPath, "-version")
	if err == nil {
		return true
	}
	if isLaunchFailure(err) {
		p.logger.Debug("ffmpeg not launchable", zap.String("binary", p.ffmpegPath), zap.Error(err))
		return false
	}
	return true
}

// VerifyInstalled checks that ffmpeg is available
func (p *Preflight) VerifyInstalled(ctx context.Context) error {
	if !p.IsToolAvailable(ctx) {
		return fmt.Errorf("%w (looked for %q)", conversion.ErrToolUnavailable, p.ffmpegPath)
	}
	return nil
}

// Version returns the first line of "ffmpeg -version"
func (p *Preflight) Version(ctx context.Context) (string, error) {
	out, err := p.runner.Output(ctx, p.ffmpegPath, "-version")
	if err != nil {
		if isLaunchFailure(err) {
			return "", fmt.Errorf("%w: %v", conversion.ErrToolUnavailable, err)
		}
		return "", fmt.Errorf("ffmpeg -version failed: %w", err)
	}

	sc := bufio.NewScanner(bytes.NewReader(out))
	if sc.Scan() {
		return strings.TrimSpace(sc.Text()), nil
	}
	return "", nil
}

func isLaunchFailure(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, exec.ErrDot) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission)
}

// Ensure Preflight implements conversion.ToolProbe
var _ conversion.ToolProbe = (*Preflight)(nil)
