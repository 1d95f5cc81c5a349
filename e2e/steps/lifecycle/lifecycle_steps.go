package lifecycle

import (
	"context"
	"fmt"
	"regexp"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	ResponseField(path string) (any, error)
	Remember(alias, id string)
	Recall(alias string) (string, error)
}

var smallName = regexp.MustCompile(`^[a-zA-Z]{3}$`)

// RegisterSteps registers account lifecycle step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &lifecycleSteps{tc: tc}

	ctx.Step(`^I register an account named "([^"]*)" as "([^"]*)"$`, steps.register)
	ctx.Step(`^I verify "([^"]*)" with address "([^"]*)"$`, steps.verifyWithAddress)
	ctx.Step(`^I verify "([^"]*)" without an address$`, steps.verifyWithoutAddress)
	ctx.Step(`^I delete "([^"]*)"$`, steps.delete)
	ctx.Step(`^I fetch "([^"]*)"$`, steps.fetch)
	ctx.Step(`^I import the document:$`, steps.importDocument)
	ctx.Step(`^I request (\d+) sample accounts with small names$`, steps.sampleSmall)
	ctx.Step(`^every sampled name should be three letters$`, steps.sampledNamesAreSmall)
}

type lifecycleSteps struct {
	tc TestContext
}

func (s *lifecycleSteps) register(_ context.Context, name, alias string) error {
	if err := s.tc.POST("/accounts", map[string]any{"name": name}); err != nil {
		return err
	}
	id, err := s.tc.ResponseField("id")
	if err != nil {
		return err
	}
	s.tc.Remember(alias, fmt.Sprint(id))
	return nil
}

func (s *lifecycleSteps) verifyWithAddress(_ context.Context, alias, address string) error {
	return s.post(alias, "verify", map[string]any{"address": address})
}

func (s *lifecycleSteps) verifyWithoutAddress(_ context.Context, alias string) error {
	return s.post(alias, "verify", map[string]any{"address": nil})
}

func (s *lifecycleSteps) delete(_ context.Context, alias string) error {
	return s.post(alias, "delete", nil)
}

func (s *lifecycleSteps) fetch(_ context.Context, alias string) error {
	id, err := s.tc.Recall(alias)
	if err != nil {
		return err
	}
	return s.tc.GET("/accounts/" + id)
}

func (s *lifecycleSteps) importDocument(_ context.Context, doc *godog.DocString) error {
	return s.tc.POST("/accounts/import", doc.Content)
}

func (s *lifecycleSteps) sampleSmall(_ context.Context, n int) error {
	return s.tc.GET(fmt.Sprintf("/accounts/sample?n=%d&small_names=true", n))
}

func (s *lifecycleSteps) sampledNamesAreSmall(context.Context) error {
	v, err := s.tc.ResponseField("accounts")
	if err != nil {
		return err
	}
	accounts, ok := v.([]any)
	if !ok {
		return fmt.Errorf("accounts is not a list")
	}
	for _, a := range accounts {
		obj, _ := a.(map[string]any)
		name, _ := obj["name"].(string)
		if !smallName.MatchString(name) {
			return fmt.Errorf("name %q is not three letters", name)
		}
	}
	return nil
}

func (s *lifecycleSteps) post(alias, action string, body any) error {
	id, err := s.tc.Recall(alias)
	if err != nil {
		return err
	}
	return s.tc.POST("/accounts/"+id+"/"+action, body)
}
