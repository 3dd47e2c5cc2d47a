package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/contactdesk/contactdesk/internal/gemini"
	"github.com/contactdesk/contactdesk/internal/metrics"
	"github.com/contactdesk/contactdesk/internal/validation"
)

// Improver rewrites a message through a language model.
type Improver interface {
	Configured() bool
	Improve(ctx context.Context, message string) (*gemini.Improvement, error)
}

// ImproveService orchestrates AI rewrites and usage accounting.
type ImproveService struct {
	improver Improver
	usage    *UsageService
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewImproveService creates a new ImproveService.
func NewImproveService(improver Improver, usage *UsageService, logger *slog.Logger, recorder metrics.Recorder) *ImproveService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ImproveService{
		improver: improver,
		usage:    usage,
		logger:   loggerOrDefault(logger),
		metrics:  recorder,
	}
}

// Available reports whether the provider credential is configured.
func (s *ImproveService) Available() bool {
	return s.improver != nil && s.improver.Configured()
}

// Improve rewrites the message and bumps the caller's usage counter.
// The provider call ignores client cancellation and is bounded only by the
// adapter timeout. Counter failures are logged and never returned.
func (s *ImproveService) Improve(ctx context.Context, req *validation.ImproveRequestData) (*gemini.Improvement, error) {
	if !s.Available() {
		s.metrics.IncImproveRequest(metrics.OutcomeNotConfigured)
		return nil, gemini.ErrNotConfigured
	}

	detached := context.WithoutCancel(ctx)

	start := time.Now()
	out, err := s.improver.Improve(detached, req.Message)
	s.metrics.ObserveImproveDuration(time.Since(start))
	if err != nil {
		s.metrics.IncImproveRequest(outcomeOf(err))
		return nil, err
	}

	s.metrics.IncImproveRequest(metrics.OutcomeSuccess)
	if out.TokensUsed != nil {
		s.metrics.ObserveImproveTokens(*out.TokensUsed)
	}

	if _, err := s.usage.Increment(detached, req.UserName); err != nil {
		s.logger.Warn("usage_increment_failed",
			slog.String("user_name", req.UserName),
			slog.String("error", err.Error()),
		)
	}

	return out, nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, gemini.ErrNotConfigured):
		return metrics.OutcomeNotConfigured
	case errors.Is(err, gemini.ErrTimeout):
		return metrics.OutcomeTimeout
	case errors.Is(err, gemini.ErrRateLimited):
		return metrics.OutcomeRateLimited
	case errors.Is(err, gemini.ErrUnauthorized):
		return metrics.OutcomeUnauthorized
	default:
		return metrics.OutcomeError
	}
}
