// Package service provides business logic for the application.
package service

import (
	"crypto/rand"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
)

// Service errors.
var (
	ErrUserNotFound = errors.New("user not found")
)

// generateULID returns a new lexicographically sortable identifier.
func generateULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
