package cmd

import (
	"fmt"
	"os"

	"vidtowav/infrastructure/config"
	"vidtowav/infrastructure/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error

	verbose bool
	logFile string

	logger      = zap.NewNop()
	closeLogger = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "vidtowav",
	Short: "Batch-convert video files to audio with ffmpeg",
	Long: `vidtowav scans a folder tree for video files and extracts their audio
tracks with ffmpeg:

  - Convert to WAV, a 16 kHz mono voice WAV, MP3, Ogg, FLAC, AAC, M4A, Opus or WMA
  - Mirror the input folder structure under an output directory
  - Skip files that were already converted
  - Watch a folder and convert new recordings as they appear
  - Publish the results to Google Drive

Example:
  vidtowav convert --input ~/Videos --output ~/Audio --format mp3 --quality 1`,
	SilenceUsage:      true,
	PersistentPreRunE: initLogging,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogger()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostic details to stderr")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON diagnostics to this file")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	// A missing file means defaults; a malformed one is reported by commands that need it
	cfg, cfgErr = config.LoadOrDefault(cfgFile)
	if cfgErr != nil {
		cfg = nil
	}
}

func initLogging(cmd *cobra.Command, args []string) error {
	opts := logging.Options{Console: os.Stderr}
	if cfg != nil {
		opts.Level = cfg.Logging.Level
		opts.File = cfg.Logging.File
	}
	if verbose {
		opts.Level = "debug"
	}
	if logFile != "" {
		opts.File = logFile
	}

	l, closer, err := logging.New(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger = l
	closeLogger = closer
	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// requireConfig returns the configuration or the reason it could not be loaded
func requireConfig() (*config.Config, error) {
	if cfg == nil {
		if cfgErr != nil {
			return nil, fmt.Errorf("configuration could not be loaded from %s: %w", cfgFile, cfgErr)
		}
		return nil, fmt.Errorf("configuration not loaded; run 'vidtowav setup' first")
	}
	return cfg, nil
}
