package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/contactdesk/contactdesk/internal/gemini"
	"github.com/contactdesk/contactdesk/internal/handler/dto"
	"github.com/contactdesk/contactdesk/internal/metrics"
	"github.com/contactdesk/contactdesk/internal/model"
	"github.com/contactdesk/contactdesk/internal/validation"
)

// stubSubmissions is an in-memory SubmissionService.
type stubSubmissions struct {
	submitErr error
	listErr   error
	forms     []*validation.ContactForm
	subs      map[string][]*model.Submission
}

func (s *stubSubmissions) Submit(ctx context.Context, form *validation.ContactForm) (string, error) {
	if s.submitErr != nil {
		return "", s.submitErr
	}
	s.forms = append(s.forms, form)
	return "3f1c2f43-4b0e-4a53-9a3c-6d0f5b8f7d11", nil
}

func (s *stubSubmissions) List(ctx context.Context, userName string) ([]*model.Submission, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if subs, ok := s.subs[userName]; ok {
		return subs, nil
	}
	return []*model.Submission{}, nil
}

// stubImprover is a configurable ImproveService.
type stubImprover struct {
	available bool
	out       *gemini.Improvement
	err       error
	calls     int
}

func (s *stubImprover) Available() bool {
	return s.available
}

func (s *stubImprover) Improve(ctx context.Context, req *validation.ImproveRequestData) (*gemini.Improvement, error) {
	s.calls++
	return s.out, s.err
}

// stubUsage is a configurable UsageReader.
type stubUsage struct {
	count int
	err   error
}

func (s *stubUsage) Get(ctx context.Context, name string) (int, error) {
	return s.count, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(subs *stubSubmissions, improver *stubImprover, usage *stubUsage) http.Handler {
	return NewRouter(RouterConfig{
		Logger:      testLogger(),
		Recorder:    metrics.NewNoop(),
		MaxBodySize: 64 << 10,
		DB:          &mockHealthChecker{},
		Submissions: subs,
		Improver:    improver,
		Usage:       usage,
	})
}

// doRequest runs a request through h and decodes the envelope.
func doRequest(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, dto.Envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env dto.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return rec, env
}

// dataAs re-decodes the envelope data into dst.
func dataAs(t *testing.T, env dto.Envelope, dst any) {
	t.Helper()
	raw, err := json.Marshal(env.Data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
}
