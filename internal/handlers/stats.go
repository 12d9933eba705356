package handlers

import "net/http"

// Stats returns the catalog summary
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recipes, err := h.catalog.ListRecipes(ctx)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	videos, err := h.catalog.ListVideos(ctx)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	cooks, err := h.catalog.ListCooks(ctx)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusOK, h.analytics.Summarize(recipes, videos, cooks))
}
