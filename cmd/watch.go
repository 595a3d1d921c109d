package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	appconv "vidtowav/application/conversion"
	"vidtowav/domain/conversion"
	"vidtowav/infrastructure/filesystem"
	"vidtowav/infrastructure/history"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	watchInput    string
	watchOutput   string
	watchFormat   string
	watchQuality  int
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Convert new videos as they appear",
	Long: `Convert everything once, then watch the input folder and convert
files as they are added or finish copying. Existing outputs are skipped,
so each re-run only converts what is new.

Press Ctrl+C to stop watching.

Example:
  vidtowav watch --input ~/Recordings --format wav_voice`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchInput, "input", "i", "", "Input directory (defaults to paths.input_directory)")
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Output directory (defaults to paths.output_directory)")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "", "Output format id")
	watchCmd.Flags().IntVarP(&watchQuality, "quality", "q", conversion.DefaultQuality, "Quality level 0 (best) to 4 (smallest)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", appconv.DefaultDebounce, "Quiet period before converting after a change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	in := ConvertInput{Input: watchInput, Output: watchOutput, Format: watchFormat}
	if cmd.Flags().Changed("quality") {
		in.Quality = &watchQuality
	}
	req, err := BuildRequest(cfg, in)
	if err != nil {
		return err
	}

	watcher, err := filesystem.NewWatcher(req.SourceRoot, req.Extensions, req.Recursive, logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go watcher.Run(ctx)

	store, closeStore := openHistory(cfg)
	defer closeStore()

	loop := appconv.NewWatchLoop(newPipeline(cfg), watchDebounce, logger)
	return RunWatchWithDependencies(ctx, loop, req, watcher.Changes(), store, DefaultOutput)
}

// RunWatchWithDependencies runs the watch loop with injected dependencies (for testing)
func RunWatchWithDependencies(
	ctx context.Context,
	loop *appconv.WatchLoop,
	req *conversion.Request,
	changes <-chan string,
	store HistoryRecorder,
	output OutputWriter,
) error {
	loop.OnRun = func(summary conversion.Summary, err error) {
		if store != nil {
			if _, recErr := store.Append(history.NewRecord(req, summary)); recErr != nil {
				logger.Warn("failed to record run history", zap.Error(recErr))
			}
		}
		if err != nil {
			fmt.Fprintln(output, color.RedString("Run failed: %v", err))
		}
		fmt.Fprintf(output, "Watching %s for new videos. Press Ctrl+C to stop.\n", req.SourceRoot)
	}

	sink := NewTerminalSink(output, false)
	if err := loop.Run(ctx, req, changes, sink); err != nil {
		return explain(err)
	}
	fmt.Fprintln(output, "Stopped watching.")
	return nil
}
