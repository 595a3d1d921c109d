//go:build integration

package steps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	appconv "vidtowav/application/conversion"
	"vidtowav/cmd"
	"vidtowav/infrastructure/config"
	"vidtowav/infrastructure/ffmpeg"
	"vidtowav/infrastructure/filesystem"
	"vidtowav/infrastructure/history"

	"github.com/cucumber/godog"
)

// stubRunner stands in for the ffmpeg binary. Conversions write an empty
// destination file so skip-if-exists behaves as it would for real.
type stubRunner struct {
	mu       sync.Mutex
	missing  bool
	calls    [][]string
	failures map[string]string // source base name -> stderr
}

func (r *stubRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, args)
	r.mu.Unlock()

	if r.missing {
		return "", exec.ErrNotFound
	}
	if stderr, ok := r.failures[filepath.Base(args[1])]; ok {
		return stderr, errors.New("exit status 1")
	}
	if dst := destinationArg(args); dst != "" {
		if err := os.WriteFile(dst, nil, 0644); err != nil {
			return err.Error(), err
		}
	}
	return "", nil
}

func (r *stubRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if r.missing {
		return nil, exec.ErrNotFound
	}
	return []byte("ffmpeg version 6.1.1 Copyright (c) 2000-2023 the FFmpeg developers\n"), nil
}

func (r *stubRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// destinationArg returns the path just before the overwrite flag
func destinationArg(args []string) string {
	for i, a := range args {
		if (a == "-y" || a == "-n") && i > 0 {
			return args[i-1]
		}
	}
	return ""
}

type conversionContext struct {
	inputDir  string
	outputDir string
	runner    *stubRunner
	cfg       *config.Config
	store     *history.Store
}

var SharedConversionContext = &conversionContext{}

func InitializeConversionScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedConversionContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		testCtx.inputDir = filepath.Join(result.tempDir, "videos")
		testCtx.outputDir = ""
		testCtx.runner = &stubRunner{failures: map[string]string{}}
		testCtx.cfg = config.Default()
		testCtx.cfg.Paths.InputDirectory = testCtx.inputDir
		testCtx.store = nil
		return c, os.MkdirAll(testCtx.inputDir, 0755)
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.store != nil {
			testCtx.store.Close()
		}
		return c, nil
	})

	ctx.Step(`^ffmpeg is available$`, testCtx.ffmpegIsAvailable)
	ctx.Step(`^ffmpeg is not available$`, testCtx.ffmpegIsNotAvailable)
	ctx.Step(`^an input folder containing:$`, testCtx.anInputFolderContaining)
	ctx.Step(`^the output folder is "([^"]*)"$`, testCtx.theOutputFolderIs)
	ctx.Step(`^the output file "([^"]*)" already exists$`, testCtx.theOutputFileAlreadyExists)
	ctx.Step(`^ffmpeg fails for "([^"]*)" with "([^"]*)"$`, testCtx.ffmpegFailsForWith)
	ctx.Step(`^overwriting is enabled$`, testCtx.overwritingIsEnabled)
	ctx.Step(`^recursion is disabled$`, testCtx.recursionIsDisabled)
	ctx.Step(`^run history is enabled$`, testCtx.runHistoryIsEnabled)
	ctx.Step(`^I convert to "([^"]*)" at quality (\d+)$`, testCtx.iConvertToAtQuality)
	ctx.Step(`^I convert only the file "([^"]*)"$`, testCtx.iConvertOnlyTheFile)
	ctx.Step(`^I scan the input folder$`, testCtx.iScanTheInputFolder)
	ctx.Step(`^I check for ffmpeg$`, testCtx.iCheckForFFmpeg)
	ctx.Step(`^I list the formats$`, testCtx.iListTheFormats)
	ctx.Step(`^ffmpeg should have been called (\d+) times?$`, testCtx.ffmpegShouldHaveBeenCalledTimes)
	ctx.Step(`^ffmpeg should have received "([^"]*)"$`, testCtx.ffmpegShouldHaveReceived)
	ctx.Step(`^the output folder should contain "([^"]*)"$`, testCtx.theOutputFolderShouldContain)
	ctx.Step(`^the input folder should contain "([^"]*)"$`, testCtx.theInputFolderShouldContain)
	ctx.Step(`^the history should record (\d+) converted and (\d+) failed$`, testCtx.theHistoryShouldRecord)
}

func (c *conversionContext) ffmpegIsAvailable() error {
	c.runner.missing = false
	return nil
}

func (c *conversionContext) ffmpegIsNotAvailable() error {
	c.runner.missing = true
	return nil
}

func (c *conversionContext) anInputFolderContaining(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		p := filepath.Join(c.inputDir, filepath.FromSlash(row.Cells[0].Value))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(p, []byte("video"), 0644); err != nil {
			return err
		}
	}
	return nil
}

func (c *conversionContext) theOutputFolderIs(name string) error {
	c.outputDir = filepath.Join(result.tempDir, name)
	c.cfg.Paths.OutputDirectory = c.outputDir
	return nil
}

func (c *conversionContext) theOutputFileAlreadyExists(rel string) error {
	root := c.outputDir
	if root == "" {
		root = c.inputDir
	}
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	return os.WriteFile(p, []byte("old audio"), 0644)
}

func (c *conversionContext) ffmpegFailsForWith(name, stderr string) error {
	c.runner.failures[name] = stderr
	return nil
}

func (c *conversionContext) overwritingIsEnabled() error {
	c.cfg.Conversion.Overwrite = true
	return nil
}

func (c *conversionContext) recursionIsDisabled() error {
	c.cfg.Conversion.Recursive = false
	return nil
}

func (c *conversionContext) runHistoryIsEnabled() error {
	store, err := history.Open(filepath.Join(result.tempDir, "history.db"), nil)
	if err != nil {
		return err
	}
	c.store = store
	return nil
}

func (c *conversionContext) pipeline() *appconv.Pipeline {
	converter := ffmpeg.NewConverter(ffmpeg.WithCommandRunner(c.runner))
	engine := appconv.NewService(converter, filesystem.NewChecker())
	return appconv.NewPipeline(
		ffmpeg.NewPreflight(ffmpeg.WithCommandRunner(c.runner)),
		filesystem.NewDiscoverer(),
		engine,
	)
}

func (c *conversionContext) run(in cmd.ConvertInput) error {
	req, err := cmd.BuildRequest(c.cfg, in)
	if err != nil {
		result.err = err
		return nil
	}

	sink := cmd.NewTerminalSink(result.output, false)
	var store cmd.HistoryRecorder
	if c.store != nil {
		store = c.store
	}
	_, result.err = cmd.RunConvertWithDependencies(context.Background(), c.pipeline(), req, sink, store, nil, result.output)
	return nil
}

func (c *conversionContext) iConvertToAtQuality(format string, quality int) error {
	return c.run(cmd.ConvertInput{Format: format, Quality: &quality})
}

func (c *conversionContext) iConvertOnlyTheFile(rel string) error {
	return c.run(cmd.ConvertInput{Files: []string{filepath.Join(c.inputDir, filepath.FromSlash(rel))}})
}

func (c *conversionContext) iScanTheInputFolder() error {
	req, err := cmd.BuildRequest(c.cfg, cmd.ConvertInput{})
	if err != nil {
		result.err = err
		return nil
	}
	result.err = cmd.RunScanWithDependencies(context.Background(), filesystem.NewDiscoverer(), req, result.output)
	return nil
}

func (c *conversionContext) iCheckForFFmpeg() error {
	result.err = cmd.RunCheckWithDependencies(context.Background(), ffmpeg.NewPreflight(ffmpeg.WithCommandRunner(c.runner)), result.output)
	return nil
}

func (c *conversionContext) iListTheFormats() error {
	result.err = cmd.RunFormatsWithDependencies(result.output)
	return nil
}

func (c *conversionContext) ffmpegShouldHaveBeenCalledTimes(n int) error {
	if got := c.runner.callCount(); got != n {
		return fmt.Errorf("expected %d ffmpeg invocations, got %d", n, got)
	}
	return nil
}

func (c *conversionContext) ffmpegShouldHaveReceived(arg string) error {
	c.runner.mu.Lock()
	defer c.runner.mu.Unlock()
	for _, call := range c.runner.calls {
		for _, a := range call {
			if a == arg {
				return nil
			}
		}
	}
	return fmt.Errorf("no ffmpeg invocation received %q: %v", arg, c.runner.calls)
}

func (c *conversionContext) theOutputFolderShouldContain(rel string) error {
	return fileExists(filepath.Join(c.outputDir, filepath.FromSlash(rel)))
}

func (c *conversionContext) theInputFolderShouldContain(rel string) error {
	return fileExists(filepath.Join(c.inputDir, filepath.FromSlash(rel)))
}

func (c *conversionContext) theHistoryShouldRecord(converted, failed int) error {
	if c.store == nil {
		return fmt.Errorf("run history is not enabled in this scenario")
	}
	rec, err := c.store.Last()
	if err != nil {
		return err
	}
	if rec.Converted != converted || rec.Failed != failed {
		return fmt.Errorf("history recorded %d converted and %d failed, want %d and %d",
			rec.Converted, rec.Failed, converted, failed)
	}
	return nil
}

func fileExists(p string) error {
	if _, err := os.Stat(p); err != nil {
		return fmt.Errorf("expected %s to exist: %w", p, err)
	}
	return nil
}
