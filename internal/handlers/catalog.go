package handlers

import (
	"net/http"
	"strings"

	"github.com/roomcraft/roomcraft/internal/models"
)

func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.writeError(w, "q is required", http.StatusBadRequest)
		return
	}

	items := h.catalog.Fetch(r.Context(), query)
	if items == nil {
		items = []models.CatalogItem{}
	}
	h.writeJSON(w, items)
}
