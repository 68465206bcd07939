package handlers

import (
	"errors"
	"net/http"

	"github.com/roomcraft/roomcraft/internal/models"
	"github.com/roomcraft/roomcraft/internal/recommend"
)

func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request models.RecommendationRequest
	if !h.decodeJSON(w, r, &request) {
		return
	}
	if request.Products == nil || request.Prompt == "" {
		h.writeError(w, "products and prompt are required", http.StatusBadRequest)
		return
	}

	for i := range request.Products {
		request.Products[i].ID = models.NormalizeID(request.Products[i].ID)
	}

	rec, err := h.recommender.Recommend(r.Context(), request.Products, request.Prompt)
	if err != nil {
		if errors.Is(err, recommend.ErrMalformedRequest) {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logFailure("Recommendation failed", err)
		h.writeError(w, recommend.ErrRecommendationFailed.Error(), http.StatusBadGateway)
		return
	}

	h.writeJSON(w, rec)
}
