// Package model defines domain entities for the application.
package model

import "time"

// User is the owner of submissions, identified by a free-text name.
// There is no authentication: the name is whatever the client sends.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	AIUsageCount int       `json:"ai_usage_count"`
	CreatedAt    time.Time `json:"created_at"`
}
