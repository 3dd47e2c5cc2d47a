// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Improve outcomes.
const (
	OutcomeSuccess       = "success"
	OutcomeNotConfigured = "not_configured"
	OutcomeTimeout       = "timeout"
	OutcomeRateLimited   = "rate_limited"
	OutcomeUnauthorized  = "unauthorized"
	OutcomeError         = "error"
)

// Usage increment statuses.
const (
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Contact form metrics
	IncSubmissionCreated()
	IncUserCreated()

	// AI improve metrics
	IncImproveRequest(outcome string)
	ObserveImproveDuration(duration time.Duration)
	ObserveImproveTokens(tokens int)
	IncUsageIncrement(status string)

	// Transport metrics
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
