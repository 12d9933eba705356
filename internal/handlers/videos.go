package handlers

import (
	"net/http"

	"github.com/findosh/myrecipes/internal/models"
	"github.com/findosh/myrecipes/internal/query"
)

// ListVideos returns video lessons, filtered by q, category, difficulty,
// tags, premium and cook
func (h *Handler) ListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.catalog.SearchVideos(r.Context(), query.ParseParams(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusOK, videos)
}

// VideoCategories returns the distinct video categories
func (h *Handler) VideoCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.VideoCategories(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusOK, categories)
}

// GetVideo returns a single video lesson
func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) {
	video, err := h.catalog.GetVideo(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "Video not found")
		return
	}
	h.writeJSON(w, r, http.StatusOK, video)
}

// CreateVideo publishes a lesson from a JSON body
func (h *Handler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVideoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "")
		return
	}
	video, err := h.catalog.CreateVideo(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusCreated, video)
}

// UpdateVideo returns the lesson merged with the body. The stored lesson
// is left as is.
func (h *Handler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	var patch models.VideoPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.fail(w, r, err, "")
		return
	}
	video, err := h.catalog.PreviewVideoUpdate(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		h.fail(w, r, err, "Video not found")
		return
	}
	h.writeJSON(w, r, http.StatusOK, video)
}

// DeleteVideo acknowledges a delete request for an existing lesson.
// Lessons are append-only, so nothing is removed.
func (h *Handler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	if _, err := h.catalog.GetVideo(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err, "Video not found")
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{"message": "Video deleted successfully"})
}

type accessResponse struct {
	VideoID string             `json:"videoId"`
	Tier    models.ContentTier `json:"tier"`
	Allowed bool               `json:"allowed"`
}

// VideoAccess reports whether userId may watch the lesson
func (h *Handler) VideoAccess(w http.ResponseWriter, r *http.Request) {
	video, err := h.catalog.GetVideo(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "Video not found")
		return
	}
	allowed, err := h.subscriptions.CanWatch(r.Context(), r.URL.Query().Get("userId"), video)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusOK, accessResponse{
		VideoID: video.ID,
		Tier:    video.ContentTier(),
		Allowed: allowed,
	})
}

type cookProfile struct {
	Cook   models.Cook          `json:"cook"`
	Videos []models.VideoLesson `json:"videos"`
}

// ListCooks returns every cook profile
func (h *Handler) ListCooks(w http.ResponseWriter, r *http.Request) {
	cooks, err := h.catalog.ListCooks(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusOK, cooks)
}

// GetCook returns a cook with their lessons
func (h *Handler) GetCook(w http.ResponseWriter, r *http.Request) {
	cook, err := h.catalog.GetCook(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "Cook not found")
		return
	}
	videos, err := h.catalog.CookVideos(r.Context(), cook.ID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusOK, cookProfile{Cook: cook, Videos: videos})
}
