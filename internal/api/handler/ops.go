// Package handler provides HTTP handlers for the pohodnyk API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/pohodnyk/pohodnyk/internal/api/models"
	"github.com/pohodnyk/pohodnyk/internal/api/response"
	"github.com/pohodnyk/pohodnyk/internal/notify"
	"github.com/pohodnyk/pohodnyk/internal/provider/resilience"
)

// Pinger checks a dependency's reachability, typically the database pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	pinger    Pinger
	registry  *resilience.Registry
	notifier  *notify.Metrics
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, pinger Pinger, registry *resilience.Registry, notifier *notify.Metrics) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		pinger:    pinger,
		registry:  registry,
		notifier:  notifier,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check against the
// database.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.pinger.Ping(ctx); err != nil {
			response.ServiceUnavailable(w, r, "database is not reachable")
			return
		}
	}

	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// Stats handles GET /v1/ops/stats - circuit breaker states and
// notification counters.
func (h *OpsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := models.Stats{
		Time: models.Timestamp(time.Now()),
	}
	if h.registry != nil {
		stats.Providers = h.registry.Statuses()
	}
	if h.notifier != nil {
		stats.Notifications = h.notifier.Snapshot()
	}
	response.JSON(w, r, http.StatusOK, stats)
}
