//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cucumber/godog"
)

// commandResult is shared by every step file: the last command's output and error
type commandResult struct {
	tempDir string
	output  *bytes.Buffer
	err     error
}

var result = &commandResult{}

func InitializeCommonScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "vidtowav-feature-*")
		if err != nil {
			return c, err
		}
		result.tempDir = tempDir
		result.output = &bytes.Buffer{}
		result.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if result.tempDir != "" {
			os.RemoveAll(result.tempDir)
		}
		result.tempDir = ""
		return c, nil
	})

	ctx.Step(`^the command should succeed$`, theCommandShouldSucceed)
	ctx.Step(`^the command should fail with "([^"]*)"$`, theCommandShouldFailWith)
	ctx.Step(`^the output should contain "([^"]*)"$`, theOutputShouldContain)
	ctx.Step(`^the output should not contain "([^"]*)"$`, theOutputShouldNotContain)
}

func theCommandShouldSucceed() error {
	if result.err != nil {
		return fmt.Errorf("expected success, got error: %v\noutput:\n%s", result.err, result.output.String())
	}
	return nil
}

func theCommandShouldFailWith(expected string) error {
	if result.err == nil {
		return fmt.Errorf("expected error containing %q, but command succeeded", expected)
	}
	if !strings.Contains(result.err.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got %q", expected, result.err.Error())
	}
	return nil
}

func theOutputShouldContain(expected string) error {
	if !strings.Contains(result.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", expected, result.output.String())
	}
	return nil
}

func theOutputShouldNotContain(unexpected string) error {
	if strings.Contains(result.output.String(), unexpected) {
		return fmt.Errorf("expected output not to contain %q, got:\n%s", unexpected, result.output.String())
	}
	return nil
}
