package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/soulart2024-ship-it/Tem/internal/platform/httpx"
)

// ReadinessCheck reports whether a downstream dependency is reachable.
type ReadinessCheck func(ctx context.Context) error

// HealthHandlers serves the liveness and readiness probes.
type HealthHandlers struct {
	clock     func() time.Time
	startedAt time.Time
	checks    map[string]ReadinessCheck
}

// HealthOption customises the health handlers.
type HealthOption func(*HealthHandlers)

// WithHealthClock overrides the time source, used by tests.
func WithHealthClock(clock func() time.Time) HealthOption {
	return func(h *HealthHandlers) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// WithReadinessCheck registers a named dependency probe for /readyz.
func WithReadinessCheck(name string, check ReadinessCheck) HealthOption {
	return func(h *HealthHandlers) {
		if name != "" && check != nil {
			h.checks[name] = check
		}
	}
}

// NewHealthHandlers constructs the probe handlers.
func NewHealthHandlers(opts ...HealthOption) *HealthHandlers {
	h := &HealthHandlers{
		clock:  time.Now,
		checks: make(map[string]ReadinessCheck),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.startedAt = h.clock()
	return h
}

// Healthz reports process liveness.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	now := h.clock()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    now.Sub(h.startedAt).String(),
		"timestamp": now.UTC().Format(time.RFC3339),
	})
}

// Readyz runs every registered dependency probe and reports the worst result.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	payload := map[string]any{
		"status": "ok",
		"checks": results,
	}
	if status != http.StatusOK {
		payload["status"] = "unavailable"
	}
	httpx.WriteJSON(w, status, payload)
}
