package handlers

import (
	"net/http"

	"github.com/zatekoja/hospitalops/internal/application/services"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
)

// AdmissionHandler handles admission requests
type AdmissionHandler struct {
	admissions *services.AdmissionService
}

// NewAdmissionHandler creates a new admission handler
func NewAdmissionHandler(admissions *services.AdmissionService) *AdmissionHandler {
	return &AdmissionHandler{admissions: admissions}
}

// ListAdmissions handles GET /api/admissions
func (h *AdmissionHandler) ListAdmissions(w http.ResponseWriter, r *http.Request) {
	admissions, err := h.admissions.List(entities.AdmissionStatus(r.URL.Query().Get("status")))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"admissions": admissions,
		"count":      len(admissions),
	})
}

// CreateAdmission handles POST /api/admissions
func (h *AdmissionHandler) CreateAdmission(w http.ResponseWriter, r *http.Request) {
	var req entities.NewAdmission
	if !decodeJSON(w, r, &req) {
		return
	}

	admission, err := h.admissions.Admit(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, admission)
}

// Discharge handles POST /api/admissions/{id}/discharge
func (h *AdmissionHandler) Discharge(w http.ResponseWriter, r *http.Request) {
	admission, applied := h.admissions.Discharge(r.Context(), r.PathValue("id"))
	if !applied {
		respondNotApplied(w)
		return
	}
	respondApplied(w, "admission", admission)
}

// RecentDischarges handles GET /api/admissions/discharges
func (h *AdmissionHandler) RecentDischarges(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", 0)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}

	discharges := h.admissions.RecentDischarges(limit)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"discharges": discharges,
		"count":      len(discharges),
	})
}
