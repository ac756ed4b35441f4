package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mssola/useragent"

	"handover/internal/handover/models"
	platformmetrics "handover/internal/platform/metrics"
	"handover/internal/platform/middleware"
	dErrors "handover/pkg/domain-errors"
	"handover/pkg/platform/audit"
	"handover/pkg/platform/audit/publisher"
)

// Service defines the handover operations the transport layer needs.
type Service interface {
	CreateHandover(ctx context.Context, req *models.HandoverRequest) (*models.CreateHandoverLinkResponse, error)
	ConsumeAndExchangeHandover(ctx context.Context, code string) (*models.AuthenticationResult, error)
}

// RedirectResolver resolves a client ID to the origin its handover
// redirects land on.
type RedirectResolver interface {
	ResolveRedirectOrigin(ctx context.Context, clientID string) (string, error)
}

// SessionWriter persists an authentication result on the browser response.
type SessionWriter interface {
	Establish(w http.ResponseWriter, result *models.AuthenticationResult) error
}

// Handler handles the handover endpoints.
type Handler struct {
	logger          *slog.Logger
	service         Service
	resolver        RedirectResolver
	sessions        SessionWriter
	validator       middleware.TokenValidator
	httpMetrics     *platformmetrics.Metrics
	auditor         *publisher.Publisher
	defaultClientID string
}

// New creates a new handover Handler.
func New(
	service Service,
	resolver RedirectResolver,
	sessions SessionWriter,
	validator middleware.TokenValidator,
	logger *slog.Logger,
	httpMetrics *platformmetrics.Metrics,
	auditor *publisher.Publisher,
	defaultClientID string,
) *Handler {
	return &Handler{
		logger:          logger,
		service:         service,
		resolver:        resolver,
		sessions:        sessions,
		validator:       validator,
		httpMetrics:     httpMetrics,
		auditor:         auditor,
		defaultClientID: defaultClientID,
	}
}

// Register registers the handover routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	handoverRouter := chi.NewRouter()
	handoverRouter.Use(middleware.Recovery(h.logger))
	handoverRouter.Use(middleware.RequestID)
	handoverRouter.Use(middleware.Logger(h.logger, h.httpMetrics))
	handoverRouter.Use(middleware.Timeout(30 * time.Second))

	handoverRouter.Group(func(gr chi.Router) {
		gr.Use(middleware.RequireClientCredentials(h.validator, h.logger))
		gr.Post("/handover", h.handleCreateHandover)
	})
	handoverRouter.Get("/handover/{handoverCode}", h.handleRedeemHandover)

	r.Mount("/", handoverRouter)
}

// handleCreateHandover mints a new single use handover link for the
// authenticated client.
func (h *Handler) handleCreateHandover(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.HandoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid handover request body",
			"request_id", requestID,
			"error", err.Error(),
		)
		middleware.WriteError(w, h.logger, requestID, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.service.CreateHandover(ctx, &req)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeValidation) {
			h.logger.WarnContext(ctx, "invalid handover request",
				"request_id", requestID,
				"error", err.Error(),
			)
			middleware.WriteError(w, h.logger, requestID, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create handover link",
			"request_id", requestID,
			"error", err.Error(),
		)
		middleware.WriteError(w, h.logger, requestID, dErrors.New(dErrors.CodeInternal, "failed to create handover link"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.ErrorContext(ctx, "failed to write handover link response",
			"request_id", requestID,
			"error", err.Error(),
		)
	}
}

// handleRedeemHandover claims the code, establishes the session and sends
// the browser to the client's registered origin. The session is written
// before the redirect is resolved so a bad client registration does not cost
// the user the already claimed handover.
func (h *Handler) handleRedeemHandover(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	code := chi.URLParam(r, "handoverCode")
	if !validCodeFormat(code) {
		middleware.WriteError(w, h.logger, requestID, dErrors.New(dErrors.CodeBadRequest, "malformed handover code"))
		return
	}

	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		clientID = h.defaultClientID
	}

	result, err := h.service.ConsumeAndExchangeHandover(ctx, code)
	if err != nil {
		middleware.WriteError(w, h.logger, requestID, err)
		return
	}

	if err := h.sessions.Establish(w, result); err != nil {
		h.logger.ErrorContext(ctx, "failed to establish session",
			"request_id", requestID,
			"error", err.Error(),
		)
		middleware.WriteError(w, h.logger, requestID, dErrors.New(dErrors.CodeInternal, "failed to establish session"))
		return
	}

	origin, err := h.resolver.ResolveRedirectOrigin(ctx, clientID)
	if err != nil {
		ua := useragent.New(r.UserAgent())
		browser, _ := ua.Browser()
		_ = h.auditor.Emit(ctx, audit.Event{
			Subject:   result.SubjectReference,
			Action:    string(audit.EventUnknownClient),
			ClientID:  clientID,
			Principal: result.Principal.Identifier,
			RequestID: requestID,
			Device:    browser + " on " + ua.OS(),
		})
		h.logger.WarnContext(ctx, "redirect origin resolution failed",
			"request_id", requestID,
			"client_id", clientID,
			"error", err.Error(),
		)
		middleware.WriteError(w, h.logger, requestID, err)
		return
	}

	http.Redirect(w, r, origin, http.StatusFound)
}

// validCodeFormat bounds the code to the URL safe alphabet codegen emits so
// junk never reaches the store.
func validCodeFormat(code string) bool {
	if len(code) < 16 || len(code) > 128 {
		return false
	}
	for _, c := range code {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
