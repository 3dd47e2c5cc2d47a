package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/contactdesk/contactdesk/internal/metrics"
	"github.com/contactdesk/contactdesk/internal/repository"
)

// UsageStore reads and updates the per-user AI usage counter.
type UsageStore interface {
	GetUsageCount(ctx context.Context, name string) (int, error)
	IncrementUsageCount(ctx context.Context, name string) (int, error)
}

// UsageService manages AI usage counters.
type UsageService struct {
	store   UsageStore
	metrics metrics.Recorder
}

// NewUsageService creates a new UsageService.
func NewUsageService(store UsageStore, recorder metrics.Recorder) *UsageService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UsageService{store: store, metrics: recorder}
}

// Get returns the usage counter of a user.
func (s *UsageService) Get(ctx context.Context, name string) (int, error) {
	count, err := s.store.GetUsageCount(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("get usage count: %w", err)
	}
	return count, nil
}

// Increment adds one to the usage counter and returns the new value.
// Users are never created here.
func (s *UsageService) Increment(ctx context.Context, name string) (int, error) {
	count, err := s.store.IncrementUsageCount(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncUsageIncrement(metrics.StatusNotFound)
			return 0, ErrUserNotFound
		}
		s.metrics.IncUsageIncrement(metrics.StatusError)
		return 0, fmt.Errorf("increment usage count: %w", err)
	}
	s.metrics.IncUsageIncrement(metrics.StatusSuccess)
	return count, nil
}
