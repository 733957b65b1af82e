package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/zatekoja/hospitalops/internal/application/services"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
)

// InventoryHandler handles stock requests
type InventoryHandler struct {
	inventory *services.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventory *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// ListInventory handles GET /api/inventory
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items := h.inventory.List()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// LowStock handles GET /api/inventory/low-stock
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	items := h.inventory.LowStock()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// Categories handles GET /api/inventory/categories
func (h *InventoryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.inventory.CategorySummary(),
	})
}

// Search handles GET /api/inventory/search
func (h *InventoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	items, err := h.inventory.Search(r.Context(), query.Get("q"), entities.InventoryCategory(query.Get("category")))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if items == nil {
		items = []services.ItemView{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// Export handles GET /api/inventory/export
func (h *InventoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.inventory.Export(&buf); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	contentType, ext := h.inventory.ReportContentType()
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="inventory.%s"`, ext))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

type stockRequest struct {
	Quantity    int    `json:"quantity"`
	AdmissionID string `json:"admissionId,omitempty"`
}

// Consume handles POST /api/inventory/{id}/consume
func (h *InventoryHandler) Consume(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, applied, err := h.inventory.Consume(r.Context(), r.PathValue("id"), req.Quantity, req.AdmissionID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !applied {
		respondNotApplied(w)
		return
	}
	respondApplied(w, "item", item)
}

// Restock handles POST /api/inventory/{id}/restock
func (h *InventoryHandler) Restock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, applied, err := h.inventory.Restock(r.Context(), r.PathValue("id"), req.Quantity)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !applied {
		respondNotApplied(w)
		return
	}
	respondApplied(w, "item", item)
}
