package conversion

import (
	"errors"
	"fmt"
	"strings"
)

// Errors that prevent a run from starting
var (
	ErrToolUnavailable = errors.New("ffmpeg is not installed or not on PATH")
	ErrNoInput         = errors.New("no input directory configured")
	ErrNothingSelected = errors.New("no folders or files selected for conversion")
	ErrNoExtensions    = errors.New("no video extensions selected")
	ErrRunInProgress   = errors.New("a conversion run is already in progress")
	ErrUnknownFormat   = errors.New("unknown output format")
)

// ToolError describes a single failed ffmpeg invocation
type ToolError struct {
	ExitCode int    // -1 when the process could not be started
	Stderr   string // captured standard error
	Err      error
}

func (e *ToolError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("ffmpeg could not be started: %v", e.Err)
	}
	return fmt.Sprintf("ffmpeg exited with status %d", e.ExitCode)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Diagnostic returns the text shown to the user for this failure
func (e *ToolError) Diagnostic() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return s
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Error()
}

// Diagnostic extracts user-facing failure text from any error
func Diagnostic(err error) string {
	var te *ToolError
	if errors.As(err, &te) {
		return te.Diagnostic()
	}
	return err.Error()
}
