package e2e

import (
	"github.com/cucumber/godog"

	"accountd/e2e/steps/common"
	"accountd/e2e/steps/lifecycle"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	lifecycle.RegisterSteps(ctx, tc)
}
