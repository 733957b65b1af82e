package handlers

import (
	"net/http"

	"github.com/zatekoja/hospitalops/internal/application/services"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
)

// QueueHandler handles OPD queue requests
type QueueHandler struct {
	queue *services.QueueService
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(queue *services.QueueService) *QueueHandler {
	return &QueueHandler{queue: queue}
}

// ListQueue handles GET /api/queue
func (h *QueueHandler) ListQueue(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	entries, err := h.queue.List(query.Get("department"), entities.PatientStatus(query.Get("status")))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"queue": entries,
		"count": len(entries),
	})
}

// CheckIn handles POST /api/queue
func (h *QueueHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req entities.NewPatient
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.queue.CheckIn(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, entry)
}

type updateStatusRequest struct {
	Status entities.PatientStatus `json:"status"`
}

// UpdateStatus handles PATCH /api/queue/{id}/status
func (h *QueueHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, applied, err := h.queue.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !applied {
		respondNotApplied(w)
		return
	}
	respondApplied(w, "patient", entry)
}

// RemovePatient handles DELETE /api/queue/{id}
func (h *QueueHandler) RemovePatient(w http.ResponseWriter, r *http.Request) {
	entry, applied := h.queue.Remove(r.Context(), r.PathValue("id"))
	if !applied {
		respondNotApplied(w)
		return
	}
	respondApplied(w, "patient", entry)
}

// WaitTimes handles GET /api/queue/wait-times
func (h *QueueHandler) WaitTimes(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"departments": h.queue.WaitTimes(),
	})
}
