package handlers

import (
	"log/slog"
	"net/http"
)

// Routes returns the full HTTP API
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/update-grid", h.HandleUpdateGrid)
	mux.HandleFunc("/api/get-grid", h.HandleGetGrid)
	mux.HandleFunc("/api/recommend", h.HandleRecommend)
	mux.HandleFunc("/api/design", h.HandleDesign)
	mux.HandleFunc("/api/catalog", h.HandleCatalog)
	mux.HandleFunc("/static/", h.HandleStatic)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	return WithLogging(WithCORS(mux))
}
