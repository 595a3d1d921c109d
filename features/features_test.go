//go:build integration

package features

import (
	"os"
	"testing"

	"vidtowav/features/steps"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
)

// TestFeatures runs every scenario under features/. Set VIDTOWAV_TAGS to a
// godog tag expression (for example "~@slow") to narrow the run.
func TestFeatures(t *testing.T) {
	format := "pretty"
	if testing.Verbose() {
		format = "pretty,junit:godog-report.xml"
	}

	suite := godog.TestSuite{
		Name:                "vidtowav",
		ScenarioInitializer: initializeScenarios,
		Options: &godog.Options{
			Format:   format,
			Output:   colors.Colored(os.Stdout),
			Paths:    []string{"./"},
			Tags:     os.Getenv("VIDTOWAV_TAGS"),
			Strict:   true,
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func initializeScenarios(ctx *godog.ScenarioContext) {
	// Common hooks create the scenario temp dir the others build on
	steps.InitializeCommonScenario(ctx)
	steps.InitializeConversionScenario(ctx)
	steps.InitializeConfigScenario(ctx)
	steps.InitializeSetupScenario(ctx)
	steps.InitializePublishScenario(ctx)
}
