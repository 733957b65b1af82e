package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// Pinger is a backing service that can report its reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and the state of optional dependencies
type HealthHandler struct {
	hospitalID string
	deps       map[string]Pinger
	streams    *SSEHandler
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(hospitalID string, streams *SSEHandler) *HealthHandler {
	return &HealthHandler{hospitalID: hospitalID, deps: make(map[string]Pinger), streams: streams}
}

// Register adds a named dependency to the health report
func (h *HealthHandler) Register(name string, p Pinger) {
	h.deps[name] = p
}

// Health handles GET /health. Dependency failures degrade the report but
// never fail liveness, since every backing service is optional.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "ok"
	deps := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.deps[name].Ping(ctx); err != nil {
			deps[name] = err.Error()
			status = "degraded"
			continue
		}
		deps[name] = "ok"
	}

	body := map[string]interface{}{
		"status":       status,
		"hospitalId":   h.hospitalID,
		"dependencies": deps,
	}
	if h.streams != nil {
		body["streamClients"] = h.streams.GetClientCount()
	}
	respondWithJSON(w, http.StatusOK, body)
}
