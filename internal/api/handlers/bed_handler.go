package handlers

import (
	"net/http"

	"github.com/zatekoja/hospitalops/internal/application/services"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
)

// BedHandler handles bed requests
type BedHandler struct {
	admissions *services.AdmissionService
}

// NewBedHandler creates a new bed handler
func NewBedHandler(admissions *services.AdmissionService) *BedHandler {
	return &BedHandler{admissions: admissions}
}

// ListBeds handles GET /api/beds
func (h *BedHandler) ListBeds(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	beds, err := h.admissions.ListBeds(query.Get("department"), entities.BedStatus(query.Get("status")))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"beds":  beds,
		"count": len(beds),
	})
}

// AvailableBeds handles GET /api/beds/available
func (h *BedHandler) AvailableBeds(w http.ResponseWriter, r *http.Request) {
	beds := h.admissions.AvailableBeds(r.URL.Query().Get("department"))
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"beds":  beds,
		"count": len(beds),
	})
}

type updateBedRequest struct {
	Status    entities.BedStatus `json:"status"`
	PatientID string             `json:"patientId"`
}

// UpdateBed handles PATCH /api/beds/{id}
func (h *BedHandler) UpdateBed(w http.ResponseWriter, r *http.Request) {
	var req updateBedRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	bed, applied, err := h.admissions.SetBedStatus(r.Context(), r.PathValue("id"), req.Status, req.PatientID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !applied {
		respondNotApplied(w)
		return
	}
	respondApplied(w, "bed", bed)
}
