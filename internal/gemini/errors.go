package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for text improvement. Returned errors wrap one of these
// together with the underlying cause.
var (
	ErrNotConfigured = errors.New("gemini api key not configured")
	ErrTimeout       = errors.New("gemini request timed out")
	ErrRateLimited   = errors.New("gemini rate limit exceeded")
	ErrUnauthorized  = errors.New("gemini rejected credentials")
	ErrProvider      = errors.New("gemini request failed")
)

// errEmptyResponse is the cause when a 2xx response carries no text.
var errEmptyResponse = errors.New("response contained no candidate text")

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status == "" && e.Message == "" {
		return fmt.Sprintf("gemini api error: http %d", e.StatusCode)
	}
	return fmt.Sprintf("gemini api error: http %d %s: %s", e.StatusCode, e.Status, e.Message)
}

// classify maps a failure to its sentinel. The first matching class wins.
func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case isRateLimited(err):
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	case isUnauthorized(err):
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	default:
		return fmt.Errorf("%w: %w", ErrProvider, err)
	}
}

func isRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED" {
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "quota")
}

func isUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized,
			apiErr.StatusCode == http.StatusForbidden,
			apiErr.Status == "UNAUTHENTICATED",
			apiErr.Status == "PERMISSION_DENIED":
			return true
		}
	}
	return strings.Contains(err.Error(), "API key")
}
