package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSubmissionCreated is a no-op.
func (n *NoopRecorder) IncSubmissionCreated() {}

// IncUserCreated is a no-op.
func (n *NoopRecorder) IncUserCreated() {}

// IncImproveRequest is a no-op.
func (n *NoopRecorder) IncImproveRequest(outcome string) {}

// ObserveImproveDuration is a no-op.
func (n *NoopRecorder) ObserveImproveDuration(duration time.Duration) {}

// ObserveImproveTokens is a no-op.
func (n *NoopRecorder) ObserveImproveTokens(tokens int) {}

// IncUsageIncrement is a no-op.
func (n *NoopRecorder) IncUsageIncrement(status string) {}

// ObserveHTTPRequest is a no-op.
func (n *NoopRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {}
