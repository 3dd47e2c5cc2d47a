package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/contactdesk/contactdesk/internal/metrics"
	"github.com/contactdesk/contactdesk/internal/model"
	"github.com/contactdesk/contactdesk/internal/validation"
)

// SubmissionStore persists users and submissions.
type SubmissionStore interface {
	EnsureUser(ctx context.Context, user *model.User) (bool, error)
	CreateSubmission(ctx context.Context, sub *model.Submission) error
	ListSubmissionsByUser(ctx context.Context, userName string) ([]*model.Submission, error)
}

// SubmissionService handles contact form submissions.
type SubmissionService struct {
	store   SubmissionStore
	logger  *slog.Logger
	metrics metrics.Recorder
	now     func() time.Time
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(store SubmissionStore, logger *slog.Logger, recorder metrics.Recorder) *SubmissionService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &SubmissionService{
		store:   store,
		logger:  loggerOrDefault(logger),
		metrics: recorder,
		now:     time.Now,
	}
}

// Submit stores a validated contact form, creating its user on first use,
// and returns the new submission id. The two writes are not transactional.
func (s *SubmissionService) Submit(ctx context.Context, form *validation.ContactForm) (string, error) {
	now := s.now().UTC()

	created, err := s.store.EnsureUser(ctx, &model.User{
		ID:        generateULID(),
		Name:      form.Name,
		CreatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("ensure user: %w", err)
	}
	if created {
		s.metrics.IncUserCreated()
	}

	// v7 ids sort by creation time, which settles ties on created_at when listing.
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate submission id: %w", err)
	}

	sub := &model.Submission{
		ID:        id.String(),
		UserName:  form.Name,
		Email:     form.Email,
		Subject:   form.Subject,
		Message:   form.Message,
		CreatedAt: now,
	}
	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		return "", fmt.Errorf("create submission: %w", err)
	}

	s.metrics.IncSubmissionCreated()
	s.logger.Info("submission_created",
		slog.String("submission_id", sub.ID),
		slog.String("subject", sub.Subject.String()),
		slog.Bool("new_user", created),
	)

	return sub.ID, nil
}

// List returns the submissions of a user, newest first. An unknown name
// yields an empty slice.
func (s *SubmissionService) List(ctx context.Context, userName string) ([]*model.Submission, error) {
	subs, err := s.store.ListSubmissionsByUser(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if subs == nil {
		subs = []*model.Submission{}
	}
	return subs, nil
}
