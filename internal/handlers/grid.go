package handlers

import (
	"log/slog"
	"net/http"

	"github.com/roomcraft/roomcraft/internal/layoutapi"
	"github.com/roomcraft/roomcraft/internal/models"
)

func (h *Handler) HandleUpdateGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Grid *models.Layout `json:"grid"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}
	if request.Grid == nil {
		h.writeError(w, "missing grid data", http.StatusBadRequest)
		return
	}

	layout := *request.Grid
	if err := h.grid.ValidateLayout(layout); err != nil {
		h.writeError(w, "invalid grid data: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.Replace(r.Context(), layout); err != nil {
		h.writeError(w, "Failed to store grid: "+err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Debug("Grid replaced", "entries", len(layout))
	h.writeJSON(w, map[string]bool{"success": true})
}

func (h *Handler) HandleGetGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	layout, err := h.store.Current(r.Context())
	if err != nil {
		h.writeError(w, "Failed to read grid: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if layout == nil {
		layout = models.Layout{}
	}

	h.writeJSON(w, layoutapi.GridPayload{Grid: layout})
}
