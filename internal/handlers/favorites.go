package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/findosh/myrecipes/internal/middleware"
	"github.com/findosh/myrecipes/internal/models"
)

type favoriteStatus struct {
	RecipeID string `json:"recipeId"`
	Favorite bool   `json:"favorite"`
}

// ListFavorites returns the calling client's favorites
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	list, err := h.favorites.Get(r.Context(), middleware.GetClientID(r.Context()))
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusOK, list)
}

// ToggleFavorite flips the favorite state of {"recipeId": ...}
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecipeID string `json:"recipeId"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "")
		return
	}
	if strings.TrimSpace(req.RecipeID) == "" {
		h.fail(w, r, fmt.Errorf("%w: recipeId is required", models.ErrValidation), "")
		return
	}

	recipe, err := h.catalog.GetRecipe(r.Context(), req.RecipeID)
	if err != nil {
		h.fail(w, r, err, "Recipe not found")
		return
	}
	on, err := h.favorites.Toggle(r.Context(), middleware.GetClientID(r.Context()), models.FavoriteFromRecipe(&recipe))
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusOK, favoriteStatus{RecipeID: recipe.ID, Favorite: on})
}

// IsFavorite reports whether a recipe is among the client's favorites
func (h *Handler) IsFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	on, err := h.favorites.IsFavorite(r.Context(), middleware.GetClientID(r.Context()), id)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusOK, favoriteStatus{RecipeID: id, Favorite: on})
}

// AddFavorite bookmarks a recipe; repeating it is harmless
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.catalog.GetRecipe(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "Recipe not found")
		return
	}
	if err := h.favorites.Add(r.Context(), middleware.GetClientID(r.Context()), models.FavoriteFromRecipe(&recipe)); err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusOK, favoriteStatus{RecipeID: recipe.ID, Favorite: true})
}

// RemoveFavorite drops a recipe from the client's favorites
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.favorites.Remove(r.Context(), middleware.GetClientID(r.Context()), id); err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusOK, favoriteStatus{RecipeID: id, Favorite: false})
}
