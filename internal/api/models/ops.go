package models

import (
	"github.com/pohodnyk/pohodnyk/internal/notify"
	"github.com/pohodnyk/pohodnyk/internal/provider/resilience"
)

// Health represents the health status of the service.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Stats is the ops stats payload: provider breaker states plus
// notification counters.
type Stats struct {
	Time          Timestamp            `json:"time"`
	Providers     []*resilience.Status `json:"providers"`
	Notifications notify.Snapshot      `json:"notifications"`
}
