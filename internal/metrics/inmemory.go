package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	SubmissionsCreated     uint64
	UsersCreated           uint64
	ImproveRequests        map[string]uint64
	ImproveDurationCount   uint64
	ImproveDurationTotalNs int64
	ImproveTokensTotal     uint64
	UsageIncrements        map[string]uint64
	HTTPRequests           uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	submissionsCreated     uint64
	usersCreated           uint64
	improveDurationCount   uint64
	improveDurationTotalNs int64
	improveTokensTotal     uint64
	httpRequests           uint64

	mu              sync.Mutex
	improveRequests map[string]uint64
	usageIncrements map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		improveRequests: make(map[string]uint64),
		usageIncrements: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	improve := make(map[string]uint64, len(m.improveRequests))
	for k, v := range m.improveRequests {
		improve[k] = v
	}
	usage := make(map[string]uint64, len(m.usageIncrements))
	for k, v := range m.usageIncrements {
		usage[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		SubmissionsCreated:     atomic.LoadUint64(&m.submissionsCreated),
		UsersCreated:           atomic.LoadUint64(&m.usersCreated),
		ImproveRequests:        improve,
		ImproveDurationCount:   atomic.LoadUint64(&m.improveDurationCount),
		ImproveDurationTotalNs: atomic.LoadInt64(&m.improveDurationTotalNs),
		ImproveTokensTotal:     atomic.LoadUint64(&m.improveTokensTotal),
		UsageIncrements:        usage,
		HTTPRequests:           atomic.LoadUint64(&m.httpRequests),
	}
}

// IncSubmissionCreated increments the submission counter.
func (m *InMemoryRecorder) IncSubmissionCreated() {
	atomic.AddUint64(&m.submissionsCreated, 1)
}

// IncUserCreated increments the user counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncImproveRequest counts an improve call by outcome.
func (m *InMemoryRecorder) IncImproveRequest(outcome string) {
	m.mu.Lock()
	m.improveRequests[outcome]++
	m.mu.Unlock()
}

// ObserveImproveDuration records provider call duration.
func (m *InMemoryRecorder) ObserveImproveDuration(duration time.Duration) {
	atomic.AddUint64(&m.improveDurationCount, 1)
	atomic.AddInt64(&m.improveDurationTotalNs, duration.Nanoseconds())
}

// ObserveImproveTokens adds reported token usage.
func (m *InMemoryRecorder) ObserveImproveTokens(tokens int) {
	if tokens > 0 {
		atomic.AddUint64(&m.improveTokensTotal, uint64(tokens))
	}
}

// IncUsageIncrement counts a usage counter update by status.
func (m *InMemoryRecorder) IncUsageIncrement(status string) {
	m.mu.Lock()
	m.usageIncrements[status]++
	m.mu.Unlock()
}

// ObserveHTTPRequest counts a served request.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	atomic.AddUint64(&m.httpRequests, 1)
}
