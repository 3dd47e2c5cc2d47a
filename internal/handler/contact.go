package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/contactdesk/contactdesk/internal/handler/dto"
	"github.com/contactdesk/contactdesk/internal/middleware"
	"github.com/contactdesk/contactdesk/internal/model"
	"github.com/contactdesk/contactdesk/internal/validation"
)

// SubmissionService stores and lists contact form submissions.
type SubmissionService interface {
	Submit(ctx context.Context, form *validation.ContactForm) (string, error)
	List(ctx context.Context, userName string) ([]*model.Submission, error)
}

// ContactHandler handles contact form requests.
type ContactHandler struct {
	svc    SubmissionService
	logger *slog.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(svc SubmissionService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{svc: svc, logger: logger}
}

// Submit handles POST /api/submit.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	form, err := validation.ParseContactForm(validation.ContactFormInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		writeValidationError(w, err)
		return
	}

	id, err := h.svc.Submit(r.Context(), form)
	if err != nil {
		h.logger.Error("submission_failed",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, msgSaveFailed)
		return
	}

	writeSuccess(w, http.StatusOK, dto.SubmitResponse{ID: id})
}

// List handles GET /api/submissions?name=.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	name, err := validation.NameQuery(r.URL.Query().Get("name"))
	if err != nil {
		writeValidationError(w, err)
		return
	}

	subs, err := h.svc.List(r.Context(), name)
	if err != nil {
		h.logger.Error("list_submissions_failed",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, msgListFailed)
		return
	}

	writeSuccess(w, http.StatusOK, dto.ToSubmissionListResponse(subs))
}
