package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/roomcraft/roomcraft/internal/design"
	"github.com/roomcraft/roomcraft/internal/models"
	"github.com/roomcraft/roomcraft/internal/storage"
)

type Handler struct {
	store       storage.LayoutStore
	grid        models.Grid
	catalog     design.Catalog
	recommender design.Recommender
	pipeline    *design.Pipeline
	staticDir   string
}

// Config lists the components the handlers serve
type Config struct {
	Store       storage.LayoutStore
	Grid        models.Grid
	Catalog     design.Catalog
	Recommender design.Recommender
	Pipeline    *design.Pipeline
	// StaticDir optionally serves a web client under /static/
	StaticDir string
}

func New(cfg Config) *Handler {
	store := cfg.Store
	if store == nil {
		store = storage.New()
	}
	return &Handler{
		store:       store,
		grid:        cfg.Grid,
		catalog:     cfg.Catalog,
		recommender: cfg.Recommender,
		pipeline:    cfg.Pipeline,
		staticDir:   cfg.StaticDir,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Error("Unable to write JSON response", "err", err)
	}
}

// writeError sends {"error": message}
func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message, "status", code)
	} else {
		slog.Warn(message, "status", code)
	}
	h.writeJSONStatus(w, code, map[string]string{"error": message})
}

// MaxBodyBytes caps JSON request bodies
const MaxBodyBytes = 10 << 20

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
