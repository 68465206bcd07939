package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/roomcraft/roomcraft/internal/design"
	"github.com/roomcraft/roomcraft/internal/recommend"
)

// HandleDesign runs a full design cycle for a prompt
func (h *Handler) HandleDesign(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Prompt string `json:"prompt"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}
	if strings.TrimSpace(request.Prompt) == "" {
		h.writeError(w, "prompt is required", http.StatusBadRequest)
		return
	}

	result, err := h.pipeline.Run(r.Context(), request.Prompt)
	switch {
	case err == nil:
		h.writeJSON(w, result)
	case errors.Is(err, design.ErrSuperseded):
		h.writeError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, recommend.ErrMalformedRequest):
		h.writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, recommend.ErrRecommendationFailed):
		h.logFailure("Design cycle failed", err)
		h.writeError(w, recommend.ErrRecommendationFailed.Error(), http.StatusBadGateway)
	default:
		h.writeError(w, "Design cycle failed: "+err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) logFailure(message string, err error) {
	var recErr *recommend.Error
	if errors.As(err, &recErr) {
		slog.Error(message, "stage", recErr.Stage, "err", recErr.Err)
		return
	}
	slog.Error(message, "err", err)
}
