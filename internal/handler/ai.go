package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/contactdesk/contactdesk/internal/gemini"
	"github.com/contactdesk/contactdesk/internal/handler/dto"
	"github.com/contactdesk/contactdesk/internal/middleware"
	"github.com/contactdesk/contactdesk/internal/service"
	"github.com/contactdesk/contactdesk/internal/validation"
)

// ImproveService rewrites messages through the AI provider.
type ImproveService interface {
	Available() bool
	Improve(ctx context.Context, req *validation.ImproveRequestData) (*gemini.Improvement, error)
}

// UsageReader reads per-user AI usage counters.
type UsageReader interface {
	Get(ctx context.Context, name string) (int, error)
}

// AIHandler handles the AI rewrite and usage endpoints.
type AIHandler struct {
	improver ImproveService
	usage    UsageReader
	logger   *slog.Logger
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(improver ImproveService, usage UsageReader, logger *slog.Logger) *AIHandler {
	return &AIHandler{improver: improver, usage: usage, logger: logger}
}

// RequireAvailable rejects requests with 500 while the provider credential
// is missing. It is mounted ahead of the body limit so neither the size nor
// the shape of the body changes the answer.
func (h *AIHandler) RequireAvailable(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.improver.Available() {
			h.logger.Error("improve_unavailable",
				slog.String("request_id", middleware.GetRequestID(r.Context())),
				slog.String("reason", "GEMINI_API_KEY is not configured"),
			)
			writeError(w, http.StatusInternalServerError, msgAIUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Improve handles POST /api/ai/improve.
func (h *AIHandler) Improve(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req dto.ImproveRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	data, err := validation.ParseImproveRequest(validation.ImproveInput{
		Message:  req.Message,
		UserName: req.UserName,
	})
	if err != nil {
		writeValidationError(w, err)
		return
	}

	out, err := h.improver.Improve(r.Context(), data)
	if err != nil {
		h.handleImproveError(w, requestID, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.ImproveResponse{
		ImprovedMessage: out.Text,
		TokensUsed:      out.TokensUsed,
	})
}

// Usage handles GET /api/ai/usage?name=.
func (h *AIHandler) Usage(w http.ResponseWriter, r *http.Request) {
	name, err := validation.NameQuery(r.URL.Query().Get("name"))
	if err != nil {
		writeValidationError(w, err)
		return
	}

	count, err := h.usage.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		h.logger.Error("get_usage_failed",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, msgUsageFailed)
		return
	}

	writeSuccess(w, http.StatusOK, dto.UsageResponse{Count: count})
}

// handleImproveError maps provider failures to HTTP responses.
func (h *AIHandler) handleImproveError(w http.ResponseWriter, requestID string, err error) {
	attrs := []any{
		slog.String("request_id", requestID),
		slog.String("error", err.Error()),
	}
	var apiErr *gemini.APIError
	if errors.As(err, &apiErr) {
		attrs = append(attrs,
			slog.Int("provider_status_code", apiErr.StatusCode),
			slog.String("provider_status", apiErr.Status),
		)
	}

	switch {
	case errors.Is(err, gemini.ErrNotConfigured):
		h.logger.Error("improve_unavailable", attrs...)
		writeError(w, http.StatusInternalServerError, msgAIUnavailable)
	case errors.Is(err, gemini.ErrTimeout):
		h.logger.Warn("improve_timeout", attrs...)
		writeError(w, http.StatusGatewayTimeout, msgImproveTimeout)
	case errors.Is(err, gemini.ErrRateLimited):
		h.logger.Warn("improve_rate_limited", attrs...)
		writeError(w, http.StatusTooManyRequests, msgImproveRateLimit)
	case errors.Is(err, gemini.ErrUnauthorized):
		h.logger.Error("invalid provider credentials", attrs...)
		writeError(w, http.StatusInternalServerError, msgAIUnavailable)
	default:
		h.logger.Error("improve_failed", attrs...)
		writeError(w, http.StatusInternalServerError, msgImproveFailed)
	}
}
