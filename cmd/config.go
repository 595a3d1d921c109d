package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"vidtowav/domain/conversion"
	"vidtowav/infrastructure/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration entries",
	Long: `Manage accepted video extensions and conversion settings in the configuration file.

Examples:
  vidtowav config list extensions
  vidtowav config add extension .mts
  vidtowav config remove extension .flv
  vidtowav config set format mp3
  vidtowav config show`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	// Add subcommands
	configCmd.AddCommand(configAddCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configRemoveCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}

// --- ADD command ---

var configAddCmd = &cobra.Command{
	Use:   "add extension <ext>",
	Short: "Add an accepted video extension",
	Long: `Add a video extension to the list scanned by convert, scan and watch.

Examples:
  vidtowav config add extension .mts
  vidtowav config add extension MXF`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		return RunConfigAddWithDependencies(cfg, cfgFile, args[0], args[1], DefaultOutput)
	},
}

// RunConfigAddWithDependencies runs the add command with injected dependencies
func RunConfigAddWithDependencies(cfg *config.Config, configPath, entityType, value string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)

	switch entityType {
	case "extension", "ext":
		if err := mgr.AddExtension(value); err != nil {
			return err
		}
		fmt.Fprintf(out, "Added extension %s\n", conversion.NormalizeExtension(value))
	default:
		return fmt.Errorf("unknown entity type %q. Use extension", entityType)
	}

	return nil
}

// --- LIST command ---

var configListCmd = &cobra.Command{
	Use:   "list extensions",
	Short: "List accepted video extensions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		return RunConfigListWithDependencies(cfg, cfgFile, args[0], DefaultOutput)
	},
}

// RunConfigListWithDependencies runs the list command with injected dependencies
func RunConfigListWithDependencies(cfg *config.Config, configPath, entityType string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)

	switch entityType {
	case "extensions", "exts":
		exts := mgr.ListExtensions()
		if len(exts) == 0 {
			fmt.Fprintln(out, "No extensions configured.")
			return nil
		}
		for _, e := range exts {
			fmt.Fprintln(out, e)
		}
	default:
		return fmt.Errorf("unknown entity type %q. Use extensions", entityType)
	}

	return nil
}

// --- REMOVE command ---

var configRemoveCmd = &cobra.Command{
	Use:   "remove extension <ext>",
	Short: "Remove an accepted video extension",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		return RunConfigRemoveWithDependencies(cfg, cfgFile, args[0], args[1], DefaultOutput)
	},
}

// RunConfigRemoveWithDependencies runs the remove command with injected dependencies
func RunConfigRemoveWithDependencies(cfg *config.Config, configPath, entityType, value string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)

	switch entityType {
	case "extension", "ext":
		if err := mgr.RemoveExtension(value); err != nil {
			if errors.Is(err, config.ErrExtensionNotFound) {
				return fmt.Errorf("%w\n\nTo see configured extensions, run:\n  vidtowav config list extensions", err)
			}
			return err
		}
		fmt.Fprintf(out, "Removed extension %s\n", conversion.NormalizeExtension(value))
	default:
		return fmt.Errorf("unknown entity type %q. Use extension", entityType)
	}

	return nil
}

// --- RESET command ---

var configResetCmd = &cobra.Command{
	Use:   "reset extensions",
	Short: "Restore the default extension list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		if args[0] != "extensions" {
			return fmt.Errorf("unknown entity type %q. Use extensions", args[0])
		}
		if err := config.NewConfigManager(cfg, cfgFile).ResetExtensions(); err != nil {
			return err
		}
		fmt.Fprintln(DefaultOutput, "Extensions reset to defaults.")
		return nil
	},
}

// --- SET command ---

var configSetCmd = &cobra.Command{
	Use:   "set <input|output|format|quality|recursive|overwrite> <value>",
	Short: "Change a conversion setting",
	Long: `Change a conversion setting and save it.

Examples:
  vidtowav config set input "/path/to/videos"
  vidtowav config set output ""
  vidtowav config set format opus
  vidtowav config set quality 1
  vidtowav config set recursive false`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		return RunConfigSetWithDependencies(cfg, cfgFile, args[0], args[1], DefaultOutput)
	},
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(cfg *config.Config, configPath, key, value string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)

	var err error
	switch key {
	case "input":
		err = mgr.SetInputDirectory(value)
	case "output":
		err = mgr.SetOutputDirectory(value)
	case "format":
		err = mgr.SetFormat(value)
		if err != nil {
			err = explain(err)
		}
	case "quality":
		level, convErr := strconv.Atoi(value)
		if convErr != nil {
			return fmt.Errorf("%w: %q", config.ErrInvalidQuality, value)
		}
		err = mgr.SetQuality(level)
	case "recursive", "overwrite":
		on, convErr := strconv.ParseBool(value)
		if convErr != nil {
			return fmt.Errorf("%s expects true or false, got %q", key, value)
		}
		if key == "recursive" {
			err = mgr.SetRecursive(on)
		} else {
			err = mgr.SetOverwrite(on)
		}
	default:
		return fmt.Errorf("unknown setting %q. Use input, output, format, quality, recursive, or overwrite", key)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Set %s to %q\n", key, value)
	return nil
}

// --- SHOW command ---

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		return RunConfigShowWithDependencies(cfg, DefaultOutput)
	},
}

// RunConfigShowWithDependencies prints a settings table followed by the raw YAML
func RunConfigShowWithDependencies(cfg *config.Config, out OutputWriter) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	output := cfg.Paths.OutputDirectory
	if output == "" {
		output = "(beside each video)"
	}
	fmt.Fprintln(w, "SETTING\tVALUE")
	fmt.Fprintf(w, "input\t%s\n", cfg.Paths.InputDirectory)
	fmt.Fprintf(w, "output\t%s\n", output)
	fmt.Fprintf(w, "format\t%s\n", cfg.Conversion.Format)
	fmt.Fprintf(w, "quality\t%d\n", cfg.QualityLevel())
	fmt.Fprintf(w, "recursive\t%t\n", cfg.Conversion.Recursive)
	fmt.Fprintf(w, "overwrite\t%t\n", cfg.Conversion.Overwrite)
	fmt.Fprintf(w, "extensions\t%d configured\n", len(cfg.Conversion.Extensions))
	if err := w.Flush(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	fmt.Fprintln(out)
	_, err = out.Write(data)
	return err
}
