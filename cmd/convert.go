package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	appconv "vidtowav/application/conversion"
	"vidtowav/domain/conversion"
	"vidtowav/domain/selection"
	"vidtowav/infrastructure/config"
	"vidtowav/infrastructure/ffmpeg"
	"vidtowav/infrastructure/filesystem"
	"vidtowav/infrastructure/history"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrConversionsFailed is returned when a run finished with failed items
var ErrConversionsFailed = errors.New("some files failed to convert")

var (
	convertInput       string
	convertOutput      string
	convertFormat      string
	convertQuality     int
	convertRecursive   bool
	convertOverwrite   bool
	convertExtensions  []string
	convertFolders     []string
	convertFiles       []string
	convertInteractive bool
	convertPublish     bool
	convertNoProgress  bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert every video under a folder to audio",
	Long: `Scan the input folder for video files and extract their audio with ffmpeg.

Outputs mirror the input folder structure under --output, or are written
next to each video when no output directory is configured. Files whose
output already exists are skipped unless --overwrite is given.

Press Ctrl+C once to stop after the current file, twice to abort it.

Examples:
  vidtowav convert
  vidtowav convert --input ~/Videos --output ~/Audio --format mp3 --quality 0
  vidtowav convert --folder ~/Videos/2025 --file ~/Videos/intro.mov
  vidtowav convert --interactive`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "", "Input directory (defaults to paths.input_directory)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output directory (defaults to paths.output_directory, or beside each video)")
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "Output format id (see 'vidtowav formats')")
	convertCmd.Flags().IntVarP(&convertQuality, "quality", "q", conversion.DefaultQuality, "Quality level 0 (best) to 4 (smallest)")
	convertCmd.Flags().BoolVarP(&convertRecursive, "recursive", "r", true, "Include subfolders")
	convertCmd.Flags().BoolVar(&convertOverwrite, "overwrite", false, "Replace existing outputs")
	convertCmd.Flags().StringSliceVar(&convertExtensions, "ext", nil, "Video extensions to include, replacing the configured list")
	convertCmd.Flags().StringArrayVar(&convertFolders, "folder", nil, "Convert only this folder (can be repeated)")
	convertCmd.Flags().StringArrayVar(&convertFiles, "file", nil, "Convert this file regardless of extension (can be repeated)")
	convertCmd.Flags().BoolVar(&convertInteractive, "interactive", false, "Choose folders and files from a checklist")
	convertCmd.Flags().BoolVar(&convertPublish, "publish", false, "Upload converted files to Google Drive afterwards")
	convertCmd.Flags().BoolVar(&convertNoProgress, "no-progress", false, "Disable the progress bar")
}

// ConvertInput holds per-run overrides of the configuration
type ConvertInput struct {
	Input      string
	Output     string
	Format     string
	Quality    *int
	Recursive  *bool
	Overwrite  *bool
	Extensions []string
	Folders    []string
	Files      []string
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	input := ConvertInput{
		Input:      convertInput,
		Output:     convertOutput,
		Format:     convertFormat,
		Extensions: convertExtensions,
		Folders:    convertFolders,
		Files:      convertFiles,
	}
	if cmd.Flags().Changed("quality") {
		input.Quality = &convertQuality
	}
	if cmd.Flags().Changed("recursive") {
		input.Recursive = &convertRecursive
	}
	if cmd.Flags().Changed("overwrite") {
		input.Overwrite = &convertOverwrite
	}

	req, err := BuildRequest(cfg, input)
	if err != nil {
		return err
	}

	if convertInteractive {
		if err := chooseInteractively(DefaultPrompter, req); err != nil {
			return err
		}
	}

	store, closeStore := openHistory(cfg)
	defer closeStore()

	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	pipeline := newPipeline(cfg)
	sink := NewTerminalSink(DefaultOutput, !convertNoProgress && !color.NoColor)

	summary, err := RunConvertWithDependencies(cmd.Context(), pipeline, req, sink, store, signals, DefaultOutput)
	if err != nil && !errors.Is(err, ErrConversionsFailed) {
		return err
	}

	if convertPublish {
		if pubErr := publishPaths(cmd.Context(), cfg, summary.ConvertedPaths()); pubErr != nil {
			return pubErr
		}
	}
	return err
}

// BuildRequest merges the configuration with per-run overrides and validates
// the result strictly: unknown format ids are rejected here rather than
// falling back to WAV.
func BuildRequest(cfg *config.Config, in ConvertInput) (*conversion.Request, error) {
	req := cfg.Request()

	if in.Input != "" {
		req.SourceRoot = in.Input
	}
	if in.Output != "" {
		req.DestinationRoot = in.Output
	}
	if in.Format != "" {
		req.Format = conversion.FormatID(strings.ToLower(in.Format))
	}
	if in.Quality != nil {
		if *in.Quality < conversion.MinQuality || *in.Quality > conversion.MaxQuality {
			return nil, config.ErrInvalidQuality
		}
		req.Quality = *in.Quality
	}
	if in.Recursive != nil {
		req.Recursive = *in.Recursive
	}
	if in.Overwrite != nil {
		req.Overwrite = *in.Overwrite
	}
	if len(in.Extensions) > 0 {
		req.Extensions = conversion.NewExtensionSet(in.Extensions...)
	}
	// Roots and selections must agree on being absolute for outputs to mirror the tree
	req.SourceRoot = absPath(req.SourceRoot)
	req.DestinationRoot = absPath(req.DestinationRoot)
	if len(in.Folders) > 0 || len(in.Files) > 0 {
		req.Selection = &conversion.Selection{
			Folders: absPaths(in.Folders),
			Files:   absPaths(in.Files),
		}
	}

	if !conversion.IsKnownFormat(req.Format) {
		return nil, explain(fmt.Errorf("%w: %q", conversion.ErrUnknownFormat, req.Format))
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, explain(err)
	}
	return req, nil
}

// RunConvertWithDependencies runs one conversion with injected dependencies (for testing).
// The first value on signals stops the run after the current file; the second
// cancels the context, killing ffmpeg mid-file.
func RunConvertWithDependencies(
	ctx context.Context,
	pipeline *appconv.Pipeline,
	req *conversion.Request,
	sink conversion.Sink,
	store HistoryRecorder,
	signals <-chan os.Signal,
	output OutputWriter,
) (conversion.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	job, err := pipeline.Start(ctx, req, sink)
	if err != nil {
		return conversion.Summary{}, explain(err)
	}

	interrupts := 0
	for waiting := true; waiting; {
		select {
		case <-job.Done():
			waiting = false
		case <-signals:
			interrupts++
			if interrupts == 1 {
				job.Stop()
				fmt.Fprintln(output, "Stopping after the current file. Press Ctrl+C again to abort it.")
			} else {
				cancel()
			}
		}
	}

	summary, runErr := job.Wait()

	if store != nil {
		if _, err := store.Append(history.NewRecord(req, summary)); err != nil {
			logger.Warn("failed to record run history", zap.Error(err))
		}
	}

	if runErr != nil {
		return summary, fmt.Errorf("discovery failed: %w", runErr)
	}
	if summary.Failed > 0 {
		return summary, fmt.Errorf("%w: %d of %d", ErrConversionsFailed, summary.Failed, summary.Processed())
	}
	return summary, nil
}

// HistoryRecorder stores finished runs
type HistoryRecorder interface {
	Append(rec history.Record) (history.Record, error)
}

func newPipeline(cfg *config.Config) *appconv.Pipeline {
	converter := ffmpeg.NewConverter(ffmpeg.WithLogger(logger))
	engine := appconv.NewService(converter, filesystem.NewChecker(),
		appconv.WithLogger(logger),
		appconv.WithItemPause(cfg.Conversion.ItemPause),
	)
	return appconv.NewPipeline(
		ffmpeg.NewPreflight(ffmpeg.WithLogger(logger)),
		filesystem.NewDiscoverer(filesystem.WithDiscoveryLogger(logger)),
		engine,
		appconv.WithPipelineLogger(logger),
	)
}

// openHistory opens the run ledger. History is best-effort: when it cannot be
// opened the run proceeds without it.
func openHistory(cfg *config.Config) (HistoryRecorder, func()) {
	if cfg.History.Path == "" {
		return nil, func() {}
	}
	store, err := history.Open(cfg.History.Path, logger)
	if err != nil {
		logger.Warn("run history disabled", zap.String("path", cfg.History.Path), zap.Error(err))
		return nil, func() {}
	}
	return store, func() { _ = store.Close() }
}

// chooseInteractively replaces req's selection with folders and files picked
// from a checklist of the input tree.
func chooseInteractively(prompter Prompter, req *conversion.Request) error {
	if req.SourceRoot == "" {
		return explain(conversion.ErrNoInput)
	}
	root, err := filesystem.BuildTree(req.SourceRoot, req.Extensions, req.Recursive)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", req.SourceRoot, err)
	}

	var (
		labels []string
		nodes  = map[string]*selection.Node{}
	)
	root.Walk(func(n *selection.Node) {
		if n == root {
			return
		}
		label := treeLabel(req.SourceRoot, n)
		labels = append(labels, label)
		nodes[label] = n
	})
	if len(labels) == 0 {
		return fmt.Errorf("no video files found under %s", req.SourceRoot)
	}

	chosen, err := prompter.MultiSelect("Select folders and files to convert:", labels, labels)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}

	picked := make(map[*selection.Node]bool, len(chosen))
	for _, label := range chosen {
		picked[nodes[label]] = true
	}
	// Pre-order: a folder's choice cascades first, then each child overrides it
	root.Walk(func(n *selection.Node) {
		if n != root {
			n.SetChecked(picked[n])
		}
	})

	sel := selection.Resolve(root)
	req.Selection = &sel
	return req.Validate()
}

func treeLabel(root string, n *selection.Node) string {
	rel, err := filepath.Rel(root, n.Path)
	if err != nil {
		rel = n.Path
	}
	rel = filepath.ToSlash(rel)
	if n.IsDir {
		return rel + "/"
	}
	return rel
}

func absPaths(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, absPath(p))
	}
	return out
}

// absPath resolves p against the working directory. Empty stays empty.
func absPath(p string) string {
	if p == "" {
		return ""
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// elapsed formats a duration for run listings
func elapsed(d time.Duration) string {
	return d.Round(100 * time.Millisecond).String()
}
