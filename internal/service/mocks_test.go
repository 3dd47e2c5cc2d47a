package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/contactdesk/contactdesk/internal/gemini"
	"github.com/contactdesk/contactdesk/internal/model"
)

type mockSubmissionStore struct {
	mock.Mock
}

func (m *mockSubmissionStore) EnsureUser(ctx context.Context, user *model.User) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}

func (m *mockSubmissionStore) CreateSubmission(ctx context.Context, sub *model.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *mockSubmissionStore) ListSubmissionsByUser(ctx context.Context, userName string) ([]*model.Submission, error) {
	args := m.Called(ctx, userName)
	if subs := args.Get(0); subs != nil {
		return subs.([]*model.Submission), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUsageStore struct {
	mock.Mock
}

func (m *mockUsageStore) GetUsageCount(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}

func (m *mockUsageStore) IncrementUsageCount(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}

type mockImprover struct {
	mock.Mock
}

func (m *mockImprover) Configured() bool {
	return m.Called().Bool(0)
}

func (m *mockImprover) Improve(ctx context.Context, message string) (*gemini.Improvement, error) {
	args := m.Called(ctx, message)
	if out := args.Get(0); out != nil {
		return out.(*gemini.Improvement), args.Error(1)
	}
	return nil, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
