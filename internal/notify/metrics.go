package notify

import (
	"sync"
	"time"
)

// Metrics counts notification outcomes for the ops stats endpoint.
type Metrics struct {
	mu        sync.Mutex
	sent      uint64
	failed    uint64
	lastRunAt time.Time
	lastDue   int
}

// NewMetrics creates zeroed metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordRun notes one scheduler tick and how many users were due.
func (m *Metrics) RecordRun(due int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastRunAt = time.Now()
	m.lastDue = due
}

// RecordSent counts one delivered notification.
func (m *Metrics) RecordSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
}

// RecordFailure counts one failed notification.
func (m *Metrics) RecordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed++
}

// Snapshot is a point-in-time copy, shaped for the stats endpoint.
type Snapshot struct {
	Sent      uint64     `json:"sent"`
	Failed    uint64     `json:"failed"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	LastDue   int        `json:"last_due"`
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{Sent: m.sent, Failed: m.failed, LastDue: m.lastDue}
	if !m.lastRunAt.IsZero() {
		at := m.lastRunAt
		snap.LastRunAt = &at
	}
	return snap
}
