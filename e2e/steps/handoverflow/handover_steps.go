package handoverflow

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	StatusCode() int
	Header(name string) string
	HasSessionCookie() bool
	SaveHandoverLink() error
	HandoverPath() (string, error)
}

// RegisterSteps registers handover flow step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &handoverSteps{tc: tc}

	ctx.Step(`^I create a handover link for subject "([^"]*)" as principal "([^"]*)"$`, steps.createHandoverLink)
	ctx.Step(`^I save the handover link$`, steps.saveHandoverLink)
	ctx.Step(`^I redeem the saved handover link$`, steps.redeemHandoverLink)
	ctx.Step(`^I redeem the saved handover link with client "([^"]*)"$`, steps.redeemWithClient)
	ctx.Step(`^I redeem the handover code "([^"]*)"$`, steps.redeemLiteralCode)

	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response should set a session cookie$`, steps.responseShouldSetSessionCookie)
	ctx.Step(`^the response should redirect to "([^"]*)"$`, steps.responseShouldRedirectTo)
}

type handoverSteps struct {
	tc TestContext
}

func (s *handoverSteps) createHandoverLink(ctx context.Context, subject, principal string) error {
	body := map[string]interface{}{
		"subjectReference": subject,
		"principal": map[string]interface{}{
			"identifier": principal,
			"accessMode": "READ_WRITE",
		},
	}
	return s.tc.POST("/handover", body)
}

func (s *handoverSteps) saveHandoverLink(ctx context.Context) error {
	return s.tc.SaveHandoverLink()
}

func (s *handoverSteps) redeemHandoverLink(ctx context.Context) error {
	path, err := s.tc.HandoverPath()
	if err != nil {
		return err
	}
	return s.tc.GET(path, nil)
}

func (s *handoverSteps) redeemWithClient(ctx context.Context, clientID string) error {
	path, err := s.tc.HandoverPath()
	if err != nil {
		return err
	}
	return s.tc.GET(path+"?clientId="+clientID, nil)
}

func (s *handoverSteps) redeemLiteralCode(ctx context.Context, code string) error {
	return s.tc.GET("/handover/"+code, nil)
}

func (s *handoverSteps) responseStatusShouldBe(ctx context.Context, expected int) error {
	if s.tc.StatusCode() != expected {
		return fmt.Errorf("expected status %d, got %d", expected, s.tc.StatusCode())
	}
	return nil
}

func (s *handoverSteps) responseShouldSetSessionCookie(ctx context.Context) error {
	if !s.tc.HasSessionCookie() {
		return fmt.Errorf("no session cookie set on response")
	}
	return nil
}

func (s *handoverSteps) responseShouldRedirectTo(ctx context.Context, location string) error {
	if got := s.tc.Header("Location"); got != location {
		return fmt.Errorf("expected redirect to %q, got %q", location, got)
	}
	return nil
}
