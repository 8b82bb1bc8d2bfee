package handlers

import (
	"context"
	"net/http"
	"time"
)

// Health reports the status of every dependency
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if h.dal != nil {
		if _, err := h.dal.GetCatalog(); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks["database"] = map[string]any{"status": "unhealthy", "error": err.Error()}
		} else {
			checks["database"] = map[string]any{"status": "healthy"}
		}
	} else {
		checks["database"] = map[string]any{"status": "not_configured"}
	}

	if h.production {
		if h.recorder != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			_, err := h.recorder.PickCounts(ctx, 0)
			cancel()
			if err != nil {
				status = "degraded"
				httpStatus = http.StatusServiceUnavailable
				checks["clickhouse"] = map[string]any{"status": "unhealthy", "error": err.Error()}
			} else {
				checks["clickhouse"] = map[string]any{"status": "healthy"}
			}
		} else {
			checks["clickhouse"] = map[string]any{"status": "not_configured"}
		}

		if h.pubsub != nil {
			checks["nats"] = map[string]any{"status": "healthy", "subscribers": h.pubsub.SubscriberCount()}
		}
	}

	checks["sessions"] = map[string]any{"live": h.sessions.Len()}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}

// Liveness handles Kubernetes liveness probes. Dependencies are not checked.
func (h *Handlers) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

// Readiness handles Kubernetes readiness probes. The catalog store must answer.
func (h *Handlers) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.dal != nil {
		if _, err := h.dal.GetCatalog(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":    "not_ready",
				"reason":    "database_unavailable",
				"timestamp": time.Now().Unix(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}
