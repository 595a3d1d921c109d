package cmd

import (
	"context"
	"fmt"
	"time"

	"vidtowav/infrastructure/ffmpeg"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that ffmpeg can be launched",
	Long: `Check that ffmpeg is installed and on PATH, and print its version.

Example:
  vidtowav check`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunCheckWithDependencies(cmd.Context(), ffmpeg.NewPreflight(ffmpeg.WithLogger(logger)), DefaultOutput)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// ToolChecker reports whether ffmpeg is usable and which version it is
type ToolChecker interface {
	VerifyInstalled(ctx context.Context) error
	Version(ctx context.Context) (string, error)
}

// RunCheckWithDependencies runs the check command with injected dependencies (for testing)
func RunCheckWithDependencies(ctx context.Context, checker ToolChecker, out OutputWriter) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := checker.VerifyInstalled(ctx); err != nil {
		fmt.Fprintln(out, color.RedString("ffmpeg: not available"))
		fmt.Fprintln(out, "Install ffmpeg and make sure it is on your PATH:")
		fmt.Fprintln(out, "  macOS:   brew install ffmpeg")
		fmt.Fprintln(out, "  Debian:  sudo apt install ffmpeg")
		fmt.Fprintln(out, "  Windows: winget install ffmpeg")
		return err
	}

	version, err := checker.Version(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, color.GreenString("ffmpeg: available"))
	if version != "" {
		fmt.Fprintf(out, "  %s\n", version)
	}
	return nil
}
