//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vidtowav/cmd"
	"vidtowav/infrastructure/config"

	"github.com/cucumber/godog"
)

type setupContext struct {
	configPath      string
	originalContent string
}

var SharedSetupContext = &setupContext{}

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	inputResponses   []string
	confirmResponses []bool
	selectResponses  []string
	inputIndex       int
	confirmIndex     int
	selectIndex      int
}

func NewMockPrompter(inputs []string, confirms []bool, selects []string) *MockPrompter {
	return &MockPrompter{
		inputResponses:   inputs,
		confirmResponses: confirms,
		selectResponses:  selects,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		if defaultValue != "" {
			return defaultValue, nil
		}
		return "", fmt.Errorf("no more input responses available for message: %s", message)
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	return response, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

// Select picks the first option starting with the next scripted response
func (m *MockPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	if m.selectIndex >= len(m.selectResponses) {
		return defaultValue, nil
	}
	want := m.selectResponses[m.selectIndex]
	m.selectIndex++
	for _, opt := range options {
		if strings.HasPrefix(opt, want+" ") {
			return opt, nil
		}
	}
	return "", fmt.Errorf("no option matching %q for message: %s", want, message)
}

func (m *MockPrompter) MultiSelect(message string, options []string, defaults []string) ([]string, error) {
	return defaults, nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedSetupContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		testCtx.configPath = filepath.Join(result.tempDir, "setup", "config.yaml")
		testCtx.originalContent = ""
		return c, nil
	})

	ctx.Step(`^a config file already exists for setup$`, testCtx.aConfigFileAlreadyExistsForSetup)
	ctx.Step(`^I run the setup command with inputs:$`, testCtx.iRunTheSetupCommandWithInputs)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)"$`, testCtx.iRunTheSetupCommandWithConfirmation)
	ctx.Step(`^a setup config file should exist$`, testCtx.aSetupConfigFileShouldExist)
	ctx.Step(`^the setup config should have input_directory set to the video folder$`, testCtx.theSetupConfigShouldHaveInputDirectory)
	ctx.Step(`^the setup config should have format "([^"]*)"$`, testCtx.theSetupConfigShouldHaveFormat)
	ctx.Step(`^the setup config should have quality (\d+)$`, testCtx.theSetupConfigShouldHaveQuality)
	ctx.Step(`^the setup config should not be recursive$`, testCtx.theSetupConfigShouldNotBeRecursive)
	ctx.Step(`^the existing config should be unchanged$`, testCtx.theExistingConfigShouldBeUnchanged)
}

func (s *setupContext) aConfigFileAlreadyExistsForSetup() error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}

	content := `paths:
  input_directory: "/original/videos"
conversion:
  format: mp3
  quality: 1
`
	s.originalContent = content
	return os.WriteFile(s.configPath, []byte(content), 0644)
}

// iRunTheSetupCommandWithInputs reads a table of prompt/value rows. Rows whose
// prompt is "format" feed Select, yes/no rows feed Confirm, the rest feed Input.
// The value "<videos>" stands for an existing folder.
func (s *setupContext) iRunTheSetupCommandWithInputs(table *godog.Table) error {
	var (
		inputs   []string
		confirms []bool
		selects  []string
	)
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		prompt := strings.ToLower(row.Cells[0].Value)
		value := row.Cells[1].Value
		if value == "<videos>" {
			value = s.videoDir()
			if err := os.MkdirAll(value, 0755); err != nil {
				return err
			}
		}

		switch {
		case prompt == "format":
			selects = append(selects, value)
		case value == "y" || value == "n":
			confirms = append(confirms, value == "y")
		default:
			inputs = append(inputs, value)
		}
	}

	result.err = cmd.RunSetupWithPrompter(NewMockPrompter(inputs, confirms, selects), s.configPath, result.output)
	return nil
}

func (s *setupContext) iRunTheSetupCommandWithConfirmation(confirmation string) error {
	confirm := strings.ToLower(confirmation) == "y"
	result.err = cmd.RunSetupWithPrompter(NewMockPrompter(nil, []bool{confirm}, nil), s.configPath, result.output)
	return nil
}

func (s *setupContext) videoDir() string {
	return filepath.Join(result.tempDir, "setup-videos")
}

func (s *setupContext) load() (*config.Config, error) {
	return config.Load(s.configPath)
}

func (s *setupContext) aSetupConfigFileShouldExist() error {
	if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist at %s", s.configPath)
	}
	return nil
}

func (s *setupContext) theSetupConfigShouldHaveInputDirectory() error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.Paths.InputDirectory != s.videoDir() {
		return fmt.Errorf("expected input_directory %q, got %q", s.videoDir(), cfg.Paths.InputDirectory)
	}
	return nil
}

func (s *setupContext) theSetupConfigShouldHaveFormat(format string) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.Conversion.Format != format {
		return fmt.Errorf("expected format %q, got %q", format, cfg.Conversion.Format)
	}
	return nil
}

func (s *setupContext) theSetupConfigShouldHaveQuality(level int) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.QualityLevel() != level {
		return fmt.Errorf("expected quality %d, got %d", level, cfg.QualityLevel())
	}
	return nil
}

func (s *setupContext) theSetupConfigShouldNotBeRecursive() error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.Conversion.Recursive {
		return fmt.Errorf("expected recursive to be false")
	}
	return nil
}

func (s *setupContext) theExistingConfigShouldBeUnchanged() error {
	content, err := os.ReadFile(s.configPath)
	if err != nil {
		return err
	}
	if string(content) != s.originalContent {
		return fmt.Errorf("config was modified:\n%s", content)
	}
	return nil
}
