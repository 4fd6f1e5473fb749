package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// sqlPinger adapts database/sql's PingContext to Pinger.
type sqlPinger struct {
	ping func(ctx context.Context) error
}

func (p sqlPinger) Ping(ctx context.Context) error { return p.ping(ctx) }

// NewSQLPinger wraps a PingContext-style function as a Pinger.
func NewSQLPinger(ping func(ctx context.Context) error) Pinger {
	return sqlPinger{ping: ping}
}

// HealthResponse is the health endpoint's body.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthChecker reports liveness of the service and its dependencies.
type HealthChecker struct {
	deps map[string]Pinger
}

// NewHealthChecker creates a health checker over named dependencies.
func NewHealthChecker(deps map[string]Pinger) *HealthChecker {
	return &HealthChecker{deps: deps}
}

// HealthCheck reports overall status; any unreachable dependency makes the
// service unhealthy with a 503.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    map[string]string{},
	}

	status := http.StatusOK
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			response.Checks[name] = "unhealthy"
			response.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		} else {
			response.Checks[name] = "healthy"
		}
	}

	respondJSON(w, status, response)
}
