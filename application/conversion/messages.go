package conversion

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"vidtowav/domain/conversion"
)

// Prefixes of the per-item log lines, so sinks can style them
const (
	PrefixConverted = "Converted: "
	PrefixSkipped   = "Skipped: "
	PrefixFailed    = "Failed: "
)

// Lines emitted around a run
const (
	LineStopped      = "Conversion stopped by user."
	LineNoFiles      = "No video files found in the selected folders."
	LineSummaryStart = "=== Conversion summary ==="
	LineSummaryEnd   = "=== Finished ==="
)

func searchingLine(req *conversion.Request) string {
	if req.Selection != nil {
		return fmt.Sprintf("Searching %d selected folder(s) and %d file(s)",
			len(req.Selection.Folders), len(req.Selection.Files))
	}
	return "Searching for videos in: " + req.SourceRoot
}

func extensionsLine(req *conversion.Request) string {
	return "Extensions: " + strings.Join(req.Extensions.List(), ", ")
}

func foundLine(n int) string {
	return fmt.Sprintf("Found %d video file(s).", n)
}

func formatLine(req *conversion.Request) string {
	if conversion.UsesQuality(req.Format) {
		return fmt.Sprintf("Output format: %s (quality %d)", req.Format, req.Quality)
	}
	return fmt.Sprintf("Output format: %s", req.Format)
}

// outcomeLine is the single log line for one decision
func outcomeLine(o conversion.Outcome) string {
	name := filepath.Base(o.Source)
	switch o.Kind {
	case conversion.Converted:
		return PrefixConverted + name
	case conversion.Skipped:
		return fmt.Sprintf("%s%s (%s)", PrefixSkipped, name, o.Reason)
	default:
		return fmt.Sprintf("%s%s: %s", PrefixFailed, name, singleLine(o.Diagnostic))
	}
}

// singleLine joins the non-blank lines of multi-line tool output with "; "
func singleLine(s string) string {
	var parts []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "; ")
}

func summaryLines(s conversion.Summary) []string {
	return []string{
		LineSummaryStart,
		fmt.Sprintf("Total files found: %d", s.Total),
		fmt.Sprintf("Successful conversions: %d", s.Converted),
		fmt.Sprintf("Failed conversions: %d", s.Failed),
		fmt.Sprintf("Skipped files: %d", s.Skipped),
		fmt.Sprintf("Elapsed: %s", s.Elapsed.Round(time.Millisecond)),
		LineSummaryEnd,
	}
}
