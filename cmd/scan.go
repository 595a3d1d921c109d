package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	appconv "vidtowav/application/conversion"
	"vidtowav/domain/conversion"
	"vidtowav/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	scanInput     string
	scanRecursive bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Count the videos in each folder without converting",
	Long: `Discover video files the same way convert does and report how many
were found in each folder.

Examples:
  vidtowav scan
  vidtowav scan --input ~/Videos --recursive=false`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		in := ConvertInput{Input: scanInput}
		if cmd.Flags().Changed("recursive") {
			in.Recursive = &scanRecursive
		}
		req, err := BuildRequest(cfg, in)
		if err != nil {
			return err
		}
		return RunScanWithDependencies(cmd.Context(), filesystem.NewDiscoverer(filesystem.WithDiscoveryLogger(logger)), req, DefaultOutput)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&scanInput, "input", "i", "", "Input directory (defaults to paths.input_directory)")
	scanCmd.Flags().BoolVarP(&scanRecursive, "recursive", "r", true, "Include subfolders")
}

// RunScanWithDependencies runs the scan command with injected dependencies (for testing)
func RunScanWithDependencies(ctx context.Context, discoverer conversion.Discoverer, req *conversion.Request, out OutputWriter) error {
	fmt.Fprintf(out, "Scanning %s\n", req.SourceRoot)

	items, err := discoverer.Discover(ctx, req)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	report := appconv.CountByFolder(items, req.SourceRoot)
	if report.Total == 0 {
		fmt.Fprintln(out, appconv.LineNoFiles)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "VIDEOS\tFOLDER\t")
	for _, f := range report.Folders {
		fmt.Fprintf(w, "%d\t%s\t\n", f.Count, f.Label())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nFound %d video file(s) in %d folder(s).\n", report.Total, report.FoldersWithVideos())
	return nil
}
