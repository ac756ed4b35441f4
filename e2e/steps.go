package e2e

import (
	"github.com/cucumber/godog"

	"handover/e2e/steps/handoverflow"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	handoverflow.RegisterSteps(ctx, tc)
}
