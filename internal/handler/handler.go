// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/contactdesk/contactdesk/internal/handler/dto"
	"github.com/contactdesk/contactdesk/internal/middleware"
	"github.com/contactdesk/contactdesk/internal/validation"
)

// Version is reported by the service info endpoint.
const Version = "1.0.0"

// User-facing error messages.
const (
	msgInvalidJSON      = "Некорректный формат запроса"
	msgInvalidData      = "Некорректные данные: "
	msgNotFound         = "Ресурс не найден"
	msgMethodNotAllowed = "Метод не поддерживается"
	msgAIUnavailable    = "AI сервис временно недоступен"
	msgImproveTimeout   = "Сервис временно недоступен. Попробуйте позже."
	msgImproveRateLimit = "Превышен лимит запросов. Попробуйте позже."
	msgImproveFailed    = "Не удалось улучшить сообщение. Попробуйте позже."
	msgUserNotFound     = "Пользователь не найден"
	msgSaveFailed       = "Ошибка при сохранении отправки"
	msgListFailed       = "Ошибка при получении отправок"
	msgUsageFailed      = "Ошибка при получении данных"
)

// Handler serves the generic endpoints.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello reports service name and version.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, dto.ServiceInfo{Name: "contactdesk", Version: Version})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, msgNotFound)
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dto.Envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.Envelope{Success: false, Error: message})
}

// decodeJSON reads a JSON body into dst. On failure it writes the error
// response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, middleware.PayloadTooLargeMessage)
		return false
	}

	if errors.Is(err, io.EOF) {
		err = errors.New("empty body")
	}
	logger.Warn("malformed_request_body",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	writeError(w, http.StatusBadRequest, msgInvalidJSON)
	return false
}

// writeValidationError maps a validation failure to a 400 response.
func writeValidationError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, msgInvalidData+verr.Error())
		return
	}
	writeError(w, http.StatusBadRequest, msgInvalidData+err.Error())
}
