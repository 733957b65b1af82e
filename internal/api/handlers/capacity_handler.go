package handlers

import (
	"net/http"

	"github.com/zatekoja/hospitalops/internal/application/services"
)

// CapacityHandler serves the inter-hospital capacity endpoints
type CapacityHandler struct {
	capacity *services.CapacityService
	archiver *services.SnapshotArchiver
}

// NewCapacityHandler creates a new capacity handler; archiver may be nil
func NewCapacityHandler(capacity *services.CapacityService, archiver *services.SnapshotArchiver) *CapacityHandler {
	return &CapacityHandler{capacity: capacity, archiver: archiver}
}

// GetCapacity handles GET /api/capacity
func (h *CapacityHandler) GetCapacity(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.capacity.Snapshot(r.Context(), r.URL.Query().Get("hospitalId"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, snapshot)
}

// CityWide handles GET /api/capacity/citywide
func (h *CapacityHandler) CityWide(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.capacity.CityWide(r.Context()))
}

// History handles GET /api/capacity/history
func (h *CapacityHandler) History(w http.ResponseWriter, r *http.Request) {
	if h.archiver == nil {
		respondWithError(w, http.StatusNotFound, "capacity history is not enabled")
		return
	}
	limit, ok := queryInt(r, "limit", 0)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}

	snapshots, err := h.archiver.History(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}
