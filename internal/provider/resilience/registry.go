package resilience

import (
	"sort"
	"sync"
	"time"
)

// Status is a point-in-time view of one registered client, shaped for the
// ops stats endpoint.
type Status struct {
	Name                string     `json:"name"`
	State               string     `json:"state"`
	Requests            uint32     `json:"requests"`
	TotalFailures       uint32     `json:"total_failures"`
	ConsecutiveFailures uint32     `json:"consecutive_failures"`
	LastSuccessAt       *time.Time `json:"last_success_at,omitempty"`
	LastFailureAt       *time.Time `json:"last_failure_at,omitempty"`
	LastError           string     `json:"last_error,omitempty"`
}

// Healthy reports whether the client's breaker is closed.
func (s *Status) Healthy() bool {
	return s.State == "closed"
}

// Registry tracks resilient clients so their breaker states can be reported.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*trackedClient
}

type trackedClient struct {
	client        *Client
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*trackedClient)}
}

// Register adds a client under the given name, replacing any previous entry.
func (r *Registry) Register(name string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = &trackedClient{client: client}
}

// RecordSuccess notes a successful call for the named client.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.clients[name]; ok {
		now := time.Now()
		t.lastSuccessAt = &now
	}
}

// RecordFailure notes a failed call for the named client.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.clients[name]; ok {
		now := time.Now()
		t.lastFailureAt = &now
		if err != nil {
			t.lastError = err.Error()
		}
	}
}

// Status returns the named client's status, or nil if unknown.
func (r *Registry) Status(name string) *Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.clients[name]
	if !ok {
		return nil
	}
	return t.status(name)
}

// Statuses returns all client statuses sorted by name.
func (r *Registry) Statuses() []*Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make([]*Status, 0, len(r.clients))
	for name, t := range r.clients {
		statuses = append(statuses, t.status(name))
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}

func (t *trackedClient) status(name string) *Status {
	counts := t.client.BreakerCounts()
	return &Status{
		Name:                name,
		State:               t.client.BreakerState().String(),
		Requests:            counts.Requests,
		TotalFailures:       counts.TotalFailures,
		ConsecutiveFailures: counts.ConsecutiveFailures,
		LastSuccessAt:       t.lastSuccessAt,
		LastFailureAt:       t.lastFailureAt,
		LastError:           t.lastError,
	}
}
