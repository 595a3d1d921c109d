package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"vidtowav/domain/conversion"
	"vidtowav/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
	MultiSelect(message string, options []string, defaults []string) ([]string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	if defaultValue != "" {
		prompt.Default = defaultValue
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) MultiSelect(message string, options []string, defaults []string) ([]string, error) {
	var result []string
	prompt := &survey.MultiSelect{
		Message:  message,
		Options:  options,
		Default:  defaults,
		PageSize: 20,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through choosing the input and output folders,
the output format and quality, and how existing files are handled.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile, DefaultOutput)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to vidtowav setup!")
	fmt.Fprintln(out)

	cfg := config.Default()

	if err := promptPaths(prompter, cfg); err != nil {
		return err
	}

	if err := promptConversion(prompter, cfg); err != nil {
		return err
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

func promptPaths(prompter Prompter, cfg *config.Config) error {
	input, err := prompter.Input("Which folder contains your videos?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if input == "" {
		return fmt.Errorf("input directory is required")
	}
	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", input, config.ErrNotADirectory)
	}
	cfg.Paths.InputDirectory = input

	output, err := prompter.Input("Where should audio files go? (leave empty to write beside each video)", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Paths.OutputDirectory = output

	return nil
}

func promptConversion(prompter Prompter, cfg *config.Config) error {
	formats := conversion.Formats()
	options := make([]string, 0, len(formats))
	byOption := make(map[string]conversion.FormatSpec, len(formats))
	defaultOption := ""
	for _, f := range formats {
		opt := fmt.Sprintf("%s - %s", f.ID, f.Name)
		options = append(options, opt)
		byOption[opt] = f
		if f.ID == conversion.DefaultFormat {
			defaultOption = opt
		}
	}

	chosen, err := prompter.Select("Output format?", options, defaultOption)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	spec, ok := byOption[chosen]
	if !ok {
		return fmt.Errorf("%w: %q", conversion.ErrUnknownFormat, chosen)
	}
	cfg.Conversion.Format = string(spec.ID)

	if !spec.FixedProfile {
		quality, err := prompter.Input("Quality level, 0 (best) to 4 (smallest)?", strconv.Itoa(conversion.DefaultQuality))
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		level, err := strconv.Atoi(strings.TrimSpace(quality))
		if err != nil || level < conversion.MinQuality || level > conversion.MaxQuality {
			return config.ErrInvalidQuality
		}
		cfg.Conversion.Quality = &level
	}

	recursive, err := prompter.Confirm("Include subfolders?", true)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Conversion.Recursive = recursive

	overwrite, err := prompter.Confirm("Replace audio files that already exist?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Conversion.Overwrite = overwrite

	return nil
}
