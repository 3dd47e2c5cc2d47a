package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/contactdesk/contactdesk/internal/gemini"
	"github.com/contactdesk/contactdesk/internal/handler/dto"
	"github.com/contactdesk/contactdesk/internal/service"
)

const improveBody = `{"message":"помогите пожалуйста","userName":"Ann"}`

func TestAIHandler_Improve(t *testing.T) {
	tokens := 42
	improver := &stubImprover{available: true, out: &gemini.Improvement{Text: "Здравствуйте! Помогите, пожалуйста.", TokensUsed: &tokens}}
	router := newTestRouter(&stubSubmissions{}, improver, &stubUsage{})

	rec, env := doRequest(t, router, http.MethodPost, "/api/ai/improve", improveBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var data dto.ImproveResponse
	dataAs(t, env, &data)
	if data.ImprovedMessage != "Здравствуйте! Помогите, пожалуйста." {
		t.Errorf("unexpected improved message: %q", data.ImprovedMessage)
	}
	if data.TokensUsed == nil || *data.TokensUsed != 42 {
		t.Errorf("expected tokensUsed 42, got %v", data.TokensUsed)
	}
}

func TestAIHandler_ImproveOmitsMissingTokens(t *testing.T) {
	improver := &stubImprover{available: true, out: &gemini.Improvement{Text: "ok"}}
	router := newTestRouter(&stubSubmissions{}, improver, &stubUsage{})

	rec, _ := doRequest(t, router, http.MethodPost, "/api/ai/improve", improveBody)
	if strings.Contains(rec.Body.String(), "tokensUsed") {
		t.Errorf("expected tokensUsed to be omitted, got %s", rec.Body.String())
	}
}

func TestAIHandler_ImproveNotConfiguredChecksBeforeBody(t *testing.T) {
	improver := &stubImprover{available: false}
	router := newTestRouter(&stubSubmissions{}, improver, &stubUsage{})

	oversized := `{"message":"` + strings.Repeat("a", 70<<10) + `","userName":"Ann"}`
	for _, body := range []string{improveBody, `{not json`, `{}`, oversized} {
		rec, env := doRequest(t, router, http.MethodPost, "/api/ai/improve", body)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("body of %d bytes: expected status 500, got %d", len(body), rec.Code)
		}
		if env.Error != msgAIUnavailable {
			t.Errorf("body of %d bytes: expected %q, got %q", len(body), msgAIUnavailable, env.Error)
		}
	}
	if improver.calls != 0 {
		t.Errorf("expected provider not to be called, got %d calls", improver.calls)
	}
}

func TestAIHandler_ImproveBodyTooLargeWhenConfigured(t *testing.T) {
	improver := &stubImprover{available: true}
	router := newTestRouter(&stubSubmissions{}, improver, &stubUsage{})

	body := `{"message":"` + strings.Repeat("a", 70<<10) + `","userName":"Ann"}`
	rec, env := doRequest(t, router, http.MethodPost, "/api/ai/improve", body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413, got %d", rec.Code)
	}
	if env.Error != "Слишком большой запрос" {
		t.Errorf("unexpected error %q", env.Error)
	}
	if improver.calls != 0 {
		t.Errorf("expected provider not to be called, got %d calls", improver.calls)
	}
}

func TestAIHandler_ImproveValidation(t *testing.T) {
	improver := &stubImprover{available: true}
	router := newTestRouter(&stubSubmissions{}, improver, &stubUsage{})

	rec, env := doRequest(t, router, http.MethodPost, "/api/ai/improve", `{"message":"","userName":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	want := "Некорректные данные: Сообщение не может быть пустым, Имя пользователя обязательно"
	if env.Error != want {
		t.Errorf("expected %q, got %q", want, env.Error)
	}

	rec, env = doRequest(t, router, http.MethodPost, "/api/ai/improve", `[`)
	if rec.Code != http.StatusBadRequest || env.Error != msgInvalidJSON {
		t.Errorf("malformed body: got %d %+v", rec.Code, env)
	}

	if improver.calls != 0 {
		t.Errorf("expected provider not to be called, got %d calls", improver.calls)
	}
}

func TestAIHandler_ImproveProviderErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantError string
	}{
		{"timeout", fmt.Errorf("%w: %w", gemini.ErrTimeout, context.DeadlineExceeded), http.StatusGatewayTimeout, msgImproveTimeout},
		{"rate limited", fmt.Errorf("%w: %w", gemini.ErrRateLimited, &gemini.APIError{StatusCode: 429, Status: "RESOURCE_EXHAUSTED"}), http.StatusTooManyRequests, msgImproveRateLimit},
		{"unauthorized", fmt.Errorf("%w: API key not valid", gemini.ErrUnauthorized), http.StatusInternalServerError, msgAIUnavailable},
		{"not configured", gemini.ErrNotConfigured, http.StatusInternalServerError, msgAIUnavailable},
		{"generic", fmt.Errorf("%w: boom", gemini.ErrProvider), http.StatusInternalServerError, msgImproveFailed},
		{"unclassified", errors.New("unexpected"), http.StatusInternalServerError, msgImproveFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			improver := &stubImprover{available: true, err: tt.err}
			router := newTestRouter(&stubSubmissions{}, improver, &stubUsage{})

			rec, env := doRequest(t, router, http.MethodPost, "/api/ai/improve", improveBody)
			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if env.Success || env.Error != tt.wantError {
				t.Errorf("expected error %q, got %+v", tt.wantError, env)
			}
		})
	}
}

func TestAIHandler_Usage(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		usage     *stubUsage
		wantCode  int
		wantCount int
		wantError string
	}{
		{"found", "/api/ai/usage?name=Ann", &stubUsage{count: 7}, http.StatusOK, 7, ""},
		{"zero", "/api/ai/usage?name=Ann", &stubUsage{count: 0}, http.StatusOK, 0, ""},
		{"unknown user", "/api/ai/usage?name=ghost", &stubUsage{err: service.ErrUserNotFound}, http.StatusNotFound, 0, msgUserNotFound},
		{"missing name", "/api/ai/usage", &stubUsage{}, http.StatusBadRequest, 0, "Некорректные данные: Имя пользователя обязательно"},
		{"store failure", "/api/ai/usage?name=Ann", &stubUsage{err: errors.New("db down")}, http.StatusInternalServerError, 0, msgUsageFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubSubmissions{}, &stubImprover{}, tt.usage)

			rec, env := doRequest(t, router, http.MethodGet, tt.target, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantError != "" {
				if env.Error != tt.wantError {
					t.Errorf("expected error %q, got %q", tt.wantError, env.Error)
				}
				return
			}

			var data dto.UsageResponse
			dataAs(t, env, &data)
			if data.Count != tt.wantCount {
				t.Errorf("expected count %d, got %d", tt.wantCount, data.Count)
			}
			if !strings.Contains(rec.Body.String(), `"count":`) {
				t.Errorf("expected count field present, got %s", rec.Body.String())
			}
		})
	}
}
