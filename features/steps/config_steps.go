//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"vidtowav/cmd"
	"vidtowav/domain/conversion"
	"vidtowav/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	configPath string
	cfg        *config.Config
	loadErr    error
}

// SharedConfigContext is reset before each scenario
var SharedConfigContext = &configContext{}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedConfigContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		testCtx.configPath = filepath.Join(result.tempDir, "config", "config.yaml")
		testCtx.cfg = nil
		testCtx.loadErr = nil
		return c, nil
	})

	ctx.Step(`^a config file exists with the default settings$`, testCtx.aConfigFileExistsWithTheDefaultSettings)
	ctx.Step(`^a config file containing:$`, testCtx.aConfigFileContaining)
	ctx.Step(`^no config file exists$`, testCtx.noConfigFileExists)
	ctx.Step(`^I load the configuration$`, testCtx.iLoadTheConfiguration)
	ctx.Step(`^I run config add extension "([^"]*)"$`, testCtx.iRunConfigAddExtension)
	ctx.Step(`^I run config remove extension "([^"]*)"$`, testCtx.iRunConfigRemoveExtension)
	ctx.Step(`^I run config list extensions$`, testCtx.iRunConfigListExtensions)
	ctx.Step(`^I run config set "([^"]*)" to "([^"]*)"$`, testCtx.iRunConfigSet)
	ctx.Step(`^the config should contain extension "([^"]*)"$`, testCtx.theConfigShouldContainExtension)
	ctx.Step(`^the config should not contain extension "([^"]*)"$`, testCtx.theConfigShouldNotContainExtension)
	ctx.Step(`^the saved format should be "([^"]*)"$`, testCtx.theSavedFormatShouldBe)
	ctx.Step(`^the saved quality should be (\d+)$`, testCtx.theSavedQualityShouldBe)
	ctx.Step(`^the loaded format should be "([^"]*)"$`, testCtx.theLoadedFormatShouldBe)
	ctx.Step(`^the loaded quality should be (\d+)$`, testCtx.theLoadedQualityShouldBe)
	ctx.Step(`^the loaded extensions should be the defaults$`, testCtx.theLoadedExtensionsShouldBeTheDefaults)
}

func (c *configContext) aConfigFileExistsWithTheDefaultSettings() error {
	cfg := config.Default()
	cfg.Paths.InputDirectory = result.tempDir
	return config.Save(cfg, c.configPath)
}

func (c *configContext) aConfigFileContaining(doc *godog.DocString) error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(c.configPath, []byte(doc.Content), 0644)
}

func (c *configContext) noConfigFileExists() error {
	_ = os.Remove(c.configPath)
	return nil
}

func (c *configContext) iLoadTheConfiguration() error {
	c.cfg, c.loadErr = config.LoadOrDefault(c.configPath)
	result.err = c.loadErr
	return nil
}

func (c *configContext) load() (*config.Config, error) {
	return config.Load(c.configPath)
}

func (c *configContext) iRunConfigAddExtension(ext string) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	result.output.Reset()
	result.err = cmd.RunConfigAddWithDependencies(cfg, c.configPath, "extension", ext, result.output)
	return nil
}

func (c *configContext) iRunConfigRemoveExtension(ext string) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	result.output.Reset()
	result.err = cmd.RunConfigRemoveWithDependencies(cfg, c.configPath, "extension", ext, result.output)
	return nil
}

func (c *configContext) iRunConfigListExtensions() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	result.output.Reset()
	result.err = cmd.RunConfigListWithDependencies(cfg, c.configPath, "extensions", result.output)
	return nil
}

func (c *configContext) iRunConfigSet(key, value string) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	result.output.Reset()
	result.err = cmd.RunConfigSetWithDependencies(cfg, c.configPath, key, value, result.output)
	return nil
}

func (c *configContext) hasExtension(ext string) (bool, error) {
	cfg, err := c.load()
	if err != nil {
		return false, err
	}
	return conversion.NewExtensionSet(cfg.Conversion.Extensions...).Has(ext), nil
}

func (c *configContext) theConfigShouldContainExtension(ext string) error {
	ok, err := c.hasExtension(ext)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("expected extension %s in saved config", ext)
	}
	return nil
}

func (c *configContext) theConfigShouldNotContainExtension(ext string) error {
	ok, err := c.hasExtension(ext)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("expected extension %s to be removed from saved config", ext)
	}
	return nil
}

func (c *configContext) theSavedFormatShouldBe(format string) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	if cfg.Conversion.Format != format {
		return fmt.Errorf("expected format %q, got %q", format, cfg.Conversion.Format)
	}
	return nil
}

func (c *configContext) theSavedQualityShouldBe(level int) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	if cfg.QualityLevel() != level {
		return fmt.Errorf("expected quality %d, got %d", level, cfg.QualityLevel())
	}
	return nil
}

func (c *configContext) theLoadedFormatShouldBe(format string) error {
	if c.cfg == nil {
		return fmt.Errorf("configuration was not loaded: %v", c.loadErr)
	}
	if c.cfg.Conversion.Format != format {
		return fmt.Errorf("expected format %q, got %q", format, c.cfg.Conversion.Format)
	}
	return nil
}

func (c *configContext) theLoadedQualityShouldBe(level int) error {
	if c.cfg == nil {
		return fmt.Errorf("configuration was not loaded: %v", c.loadErr)
	}
	if c.cfg.QualityLevel() != level {
		return fmt.Errorf("expected quality %d, got %d", level, c.cfg.QualityLevel())
	}
	return nil
}

func (c *configContext) theLoadedExtensionsShouldBeTheDefaults() error {
	if c.cfg == nil {
		return fmt.Errorf("configuration was not loaded: %v", c.loadErr)
	}
	if len(c.cfg.Conversion.Extensions) != len(conversion.DefaultExtensions) {
		return fmt.Errorf("expected %d default extensions, got %d",
			len(conversion.DefaultExtensions), len(c.cfg.Conversion.Extensions))
	}
	return nil
}
