package handlers

import (
	"net/http"

	"github.com/findosh/myrecipes/internal/models"
	"github.com/findosh/myrecipes/internal/query"
)

// ListRecipes returns all recipes, filtered by any query-engine params
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.catalog.SearchRecipes(r.Context(), query.ParseParams(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusOK, recipes)
}

// Search runs the query engine over recipes
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	h.ListRecipes(w, r)
}

// GetRecipe returns a single recipe
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.catalog.GetRecipe(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "Recipe not found")
		return
	}
	h.writeJSON(w, r, http.StatusOK, recipe)
}

// CreateRecipe adds a recipe from a JSON body
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRecipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "")
		return
	}
	recipe, err := h.catalog.CreateRecipe(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusCreated, recipe)
}

// RecipeCategories returns the distinct recipe categories
func (h *Handler) RecipeCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.RecipeCategories(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusOK, categories)
}

// RecipeTags returns the distinct recipe tags
func (h *Handler) RecipeTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.catalog.RecipeTags(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusOK, tags)
}

// ImportRecipes creates recipes from a CSV request body. Rows that fail
// validation are listed in the response and skipped.
func (h *Handler) ImportRecipes(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	result, err := h.importer.Import(r.Context(), body, h.catalog)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.log.InfoContext(r.Context(), "recipes imported",
		"source", result.Source, "created", len(result.Created), "skipped", len(result.Errors))
	h.writeJSON(w, r, http.StatusCreated, result)
}
