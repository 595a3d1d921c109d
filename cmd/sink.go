package cmd

import (
	"strings"
	"sync"

	appconv "vidtowav/application/conversion"
	"vidtowav/domain/conversion"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	convertedColor = color.New(color.FgGreen).SprintFunc()
	skippedColor   = color.New(color.FgYellow).SprintFunc()
	failedColor    = color.New(color.FgRed).SprintFunc()
	headingColor   = color.New(color.FgCyan, color.Bold).SprintFunc()
	stoppedColor   = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// TerminalSink prints run events to a terminal. Per-item lines are colored
// by outcome and, when enabled, a progress bar tracks the run.
type TerminalSink struct {
	out      OutputWriter
	progress bool

	mu       sync.Mutex
	bar      *pterm.ProgressbarPrinter
	finished []conversion.Summary
}

// NewTerminalSink creates a sink writing to out
func NewTerminalSink(out OutputWriter, progress bool) *TerminalSink {
	return &TerminalSink{out: out, progress: progress}
}

// OnProgress implements conversion.Sink
func (s *TerminalSink) OnProgress(current, total int) {
	if !s.progress || total <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bar == nil {
		bar, err := pterm.DefaultProgressbar.
			WithTotal(total).
			WithTitle("Converting").
			WithWriter(s.out).
			WithRemoveWhenDone(true).
			Start()
		if err != nil {
			s.progress = false
			return
		}
		s.bar = bar
	}
	if delta := current - s.bar.Current; delta > 0 {
		s.bar.Add(delta)
	}
}

// OnLog implements conversion.Sink
func (s *TerminalSink) OnLog(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pterm.Fprintln(s.out, styleLine(line))
}

// OnFinished implements conversion.Sink
func (s *TerminalSink) OnFinished(summary conversion.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar != nil {
		_, _ = s.bar.Stop()
		s.bar = nil
	}
	s.finished = append(s.finished, summary)
}

// Finished returns the summaries delivered so far
func (s *TerminalSink) Finished() []conversion.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]conversion.Summary(nil), s.finished...)
}

func styleLine(line string) string {
	switch {
	case strings.HasPrefix(line, appconv.PrefixConverted):
		return convertedColor(line)
	case strings.HasPrefix(line, appconv.PrefixSkipped):
		return skippedColor(line)
	case strings.HasPrefix(line, appconv.PrefixFailed):
		return failedColor(line)
	case line == appconv.LineSummaryStart, line == appconv.LineSummaryEnd:
		return headingColor(line)
	case line == appconv.LineStopped:
		return stoppedColor(line)
	}
	return line
}

var _ conversion.Sink = (*TerminalSink)(nil)
