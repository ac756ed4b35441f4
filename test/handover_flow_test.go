package test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	clientmodels "handover/internal/client/models"
	"handover/internal/client/resolver"
	clientstore "handover/internal/client/store"
	"handover/internal/handover/handler"
	"handover/internal/handover/metrics"
	"handover/internal/handover/models"
	"handover/internal/handover/service"
	"handover/internal/handover/store/code"
	"handover/internal/jwttoken"
	platformmetrics "handover/internal/platform/metrics"
	"handover/internal/session"
	"handover/pkg/platform/audit/publisher"
	auditmem "handover/pkg/platform/audit/store/memory"
	"handover/pkg/testutil"
)

// Metrics register globally, so they are shared across the whole binary.
var (
	handoverMetrics = metrics.New()
	httpMetrics     = platformmetrics.New()
)

func newRouter(t *testing.T) (chi.Router, *jwttoken.Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	directory := clientstore.NewInMemoryDirectory()
	client, err := clientmodels.NewRegisteredClient(
		"consumer-web", "Consumer Web", "", []string{"https://app.example.com/handback"}, time.Now())
	if err != nil {
		t.Fatalf("register client: %v", err)
	}
	directory.Register(client)

	auditor := publisher.NewPublisher(auditmem.NewInMemoryStore())
	svc := service.New(code.NewInMemory(), service.Config{
		BaseURL: "http://handover.local",
		TTL:     5 * time.Minute,
	}, logger, handoverMetrics, auditor)

	jwtService := jwttoken.NewService("flow-test-key", "handover")
	sessions := session.NewWriter("flow-test-key", "handover", "handover-session", 30*time.Minute, true)

	h := handler.New(
		svc,
		resolver.New(directory),
		sessions,
		jwttoken.CredentialsValidator{Service: jwtService},
		logger,
		httpMetrics,
		auditor,
		"consumer-web",
	)
	router := chi.NewRouter()
	h.Register(router)
	return router, jwtService
}

func TestHandoverRoundTrip(t *testing.T) {
	router, jwtService := newRouter(t)
	token, err := jwtService.GenerateClientToken("creating-service", time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	testutil.Given(t, "a freshly created handover link", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/handover", models.HandoverRequest{
			SubjectReference: "case-123",
			Principal: models.Principal{
				Identifier: "practitioner-7",
				AccessMode: models.AccessModeReadWrite,
			},
		})
		req.Header.Set("Authorization", "Bearer "+token)
		rec := testutil.DoRequest(router, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("create failed with status %d: %s", rec.Code, rec.Body.String())
		}

		var created map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("decode create response: %v", err)
		}
		link, err := url.Parse(created["url"])
		if err != nil {
			t.Fatalf("parse handover link: %v", err)
		}

		testutil.When(t, "the browser follows the link", func(t *testing.T) {
			redeem := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, link.Path, nil))

			testutil.Then(t, "it lands on the client origin with a session", func(t *testing.T) {
				if redeem.Code != http.StatusFound {
					t.Fatalf("expected 302, got %d: %s", redeem.Code, redeem.Body.String())
				}
				if loc := redeem.Header().Get("Location"); loc != "https://app.example.com" {
					t.Fatalf("expected redirect to https://app.example.com, got %q", loc)
				}
				if len(redeem.Result().Cookies()) == 0 {
					t.Fatal("expected a session cookie to be set")
				}
			})
		})

		testutil.When(t, "the link is followed a second time", func(t *testing.T) {
			replay := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, link.Path, nil))

			testutil.Then(t, "it is rejected like an unknown code", func(t *testing.T) {
				if replay.Code != http.StatusNotFound {
					t.Fatalf("expected 404 on replay, got %d", replay.Code)
				}
			})
		})
	})
}

func TestHandoverCreateRequiresClientCredentials(t *testing.T) {
	router, _ := newRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/handover", models.HandoverRequest{
		SubjectReference: "case-123",
		Principal:        models.Principal{Identifier: "practitioner-7"},
	})
	rec := testutil.DoRequest(router, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a bearer token, got %d", rec.Code)
	}
}
