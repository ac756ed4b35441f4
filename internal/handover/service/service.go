// Package service orchestrates the handover lifecycle: link creation and the
// one-time exchange of a code for an authentication result.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"handover/internal/handover/codegen"
	"handover/internal/handover/metrics"
	"handover/internal/handover/models"
	"handover/internal/handover/store"
	dErrors "handover/pkg/domain-errors"
	audit "handover/pkg/platform/audit"
	"handover/pkg/platform/audit/publisher"
	"handover/pkg/platform/sentinel"
	pstrings "handover/pkg/platform/strings"
)

// putAttempts bounds regeneration when the store reports a code collision.
// Collisions are effectively impossible with 256-bit codes; the retry exists
// so a defensive ErrConflict never surfaces to the caller.
const putAttempts = 3

// Config carries the service's fixed settings.
type Config struct {
	// BaseURL is the externally reachable prefix for handover links,
	// e.g. "https://handover.example.org".
	BaseURL string
	// TTL is the claim window for new codes.
	TTL time.Duration
}

// Service implements handover creation and redemption on top of a Store.
type Service struct {
	store   store.Store
	config  Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor *publisher.Publisher
	clock   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects a time source for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// New constructs a handover Service.
func New(st store.Store, config Config, logger *slog.Logger, m *metrics.Metrics, auditor *publisher.Publisher, opts ...Option) *Service {
	s := &Service{
		store:   st,
		config:  config,
		logger:  logger,
		metrics: m,
		auditor: auditor,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateHandover validates the request, mints a code, persists the record and
// returns the link to hand to the receiving browser.
func (s *Service) CreateHandover(ctx context.Context, req *models.HandoverRequest) (*models.CreateHandoverLinkResponse, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "handover request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	accessMode := req.Principal.AccessMode
	if accessMode == "" {
		accessMode = models.AccessModeReadOnly
	}

	now := s.clock()
	record := &models.HandoverRecord{
		Payload: models.AuthenticationPayload{
			SubjectReference: req.SubjectReference,
			Principal: models.Principal{
				Identifier:  req.Principal.Identifier,
				DisplayName: req.Principal.DisplayName,
				AccessMode:  accessMode,
			},
			Authorities: pstrings.DedupeAndTrim(req.Authorities),
			Attributes:  req.Attributes,
		},
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.TTL),
	}

	if err := s.putWithRegeneration(ctx, record); err != nil {
		return nil, err
	}

	s.metrics.IncrementCreated(string(accessMode))
	_ = s.auditor.Emit(ctx, audit.Event{
		Subject:   req.SubjectReference,
		Action:    string(audit.EventHandoverCreated),
		Principal: req.Principal.Identifier,
	})
	s.logger.InfoContext(ctx, "handover link created",
		"subject", req.SubjectReference,
		"expires_at", record.ExpiresAt,
	)

	return &models.CreateHandoverLinkResponse{
		URL: fmt.Sprintf("%s/handover/%s", s.config.BaseURL, record.Code),
	}, nil
}

// putWithRegeneration mints a fresh code for each insert attempt so a
// duplicate never overwrites an existing record.
func (s *Service) putWithRegeneration(ctx context.Context, record *models.HandoverRecord) error {
	for attempt := 0; attempt < putAttempts; attempt++ {
		code, err := codegen.Generate()
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate handover code")
		}
		record.Code = code

		err = s.store.Put(ctx, record)
		if err == nil {
			return nil
		}
		if errors.Is(err, sentinel.ErrConflict) {
			s.logger.WarnContext(ctx, "handover code collision, regenerating", "attempt", attempt+1)
			continue
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store handover record")
	}
	return dErrors.New(dErrors.CodeInternal, "exhausted handover code regeneration attempts")
}

// ConsumeAndExchangeHandover atomically claims the code and converts the
// bound payload into an authentication result. All three claim failures
// (unknown, expired, already used) surface as CodeNotFound so callers cannot
// probe the state of codes they do not hold; the distinction is kept in logs,
// metrics and audit only.
func (s *Service) ConsumeAndExchangeHandover(ctx context.Context, code string) (*models.AuthenticationResult, error) {
	now := s.clock()
	start := time.Now()

	record, err := s.store.Claim(ctx, code, now)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		reason := claimFailureReason(err)
		s.metrics.ObserveClaim(reason, elapsed)
		if reason == "error" {
			s.logger.ErrorContext(ctx, "handover claim failed", "error", err)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "handover store unavailable")
		}

		s.logger.WarnContext(ctx, "handover claim denied", "reason", reason)
		_ = s.auditor.Emit(ctx, audit.Event{
			Action: string(audit.EventHandoverClaimDenied),
			Reason: reason,
		})
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "handover link is not usable")
	}

	s.metrics.ObserveClaim("success", elapsed)
	_ = s.auditor.Emit(ctx, audit.Event{
		Subject:   record.Payload.SubjectReference,
		Action:    string(audit.EventHandoverClaimed),
		Principal: record.Payload.Principal.Identifier,
	})
	s.logger.InfoContext(ctx, "handover claimed",
		"subject", record.Payload.SubjectReference,
	)

	return &models.AuthenticationResult{
		SubjectReference: record.Payload.SubjectReference,
		Principal:        record.Payload.Principal,
		Authorities:      record.Payload.Authorities,
		Attributes:       record.Payload.Attributes,
		IssuedAt:         now,
	}, nil
}

func claimFailureReason(err error) string {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return "not_found"
	case errors.Is(err, sentinel.ErrExpired):
		return "expired"
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return "already_used"
	default:
		return "error"
	}
}
