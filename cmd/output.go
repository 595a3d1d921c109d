package cmd

import (
	"errors"
	"fmt"
	"os"

	appconv "vidtowav/application/conversion"
	"vidtowav/domain/conversion"
	"vidtowav/infrastructure/config"
)

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// DefaultOutput is the default output writer for commands
var DefaultOutput OutputWriter = os.Stdout

// explain turns a run-start error into a ValidationError with a fix-it command
// where one exists.
func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, conversion.ErrNoInput):
		return &appconv.ValidationError{
			Message:    err.Error(),
			Suggestion: config.SuggestSetInputCommand(),
		}
	case errors.Is(err, conversion.ErrNoExtensions):
		return &appconv.ValidationError{
			Message:    err.Error(),
			Suggestion: config.SuggestAddExtensionCommand(".mp4"),
		}
	case errors.Is(err, conversion.ErrToolUnavailable):
		return &appconv.ValidationError{
			Message:    err.Error(),
			Suggestion: "vidtowav check",
		}
	case errors.Is(err, conversion.ErrUnknownFormat):
		return &appconv.ValidationError{
			Message:    err.Error(),
			Suggestion: "vidtowav formats",
		}
	}
	return err
}

func megabytes(n int64) string {
	return fmt.Sprintf("%.2f MB", float64(n)/1024/1024)
}
