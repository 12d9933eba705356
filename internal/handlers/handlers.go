// Package handlers provides HTTP request handlers
package handlers

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/findosh/myrecipes/internal/cooking"
	"github.com/findosh/myrecipes/internal/models"
	"github.com/findosh/myrecipes/internal/services/analytics"
	"github.com/findosh/myrecipes/internal/services/catalog"
	"github.com/findosh/myrecipes/internal/services/favorites"
	"github.com/findosh/myrecipes/internal/services/importer"
	"github.com/findosh/myrecipes/internal/services/subscription"
	"github.com/findosh/myrecipes/internal/storage"
)

const (
	maxBodyBytes   = 1 << 20
	maxImportBytes = 8 << 20
)

// Handler contains all HTTP handlers and dependencies
type Handler struct {
	catalog       *catalog.Service
	favorites     *favorites.Service
	subscriptions *subscription.Service
	importer      *importer.Service
	analytics     *analytics.Service
	cooking       *cooking.Manager
	log           *slog.Logger
}

// New creates a new handler with all dependencies
func New(
	catalogService *catalog.Service,
	favoritesService *favorites.Service,
	subscriptionService *subscription.Service,
	cookingManager *cooking.Manager,
	log *slog.Logger,
) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		catalog:       catalogService,
		favorites:     favoritesService,
		subscriptions: subscriptionService,
		importer:      importer.NewService(),
		analytics:     analytics.NewService(3),
		cooking:       cookingManager,
		log:           log,
	}
}

// Register adds every API route to mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /stats", h.Stats)

	// Recipes
	mux.HandleFunc("GET /recipes", h.ListRecipes)
	mux.HandleFunc("POST /recipes", h.CreateRecipe)
	mux.HandleFunc("POST /recipes/import", h.ImportRecipes)
	mux.HandleFunc("GET /recipes/categories", h.RecipeCategories)
	mux.HandleFunc("GET /recipes/tags", h.RecipeTags)
	mux.HandleFunc("GET /recipes/{id}", h.GetRecipe)
	mux.HandleFunc("GET /search", h.Search)

	// Videos and cooks
	mux.HandleFunc("GET /videos", h.ListVideos)
	mux.HandleFunc("POST /videos", h.CreateVideo)
	mux.HandleFunc("GET /videos/categories", h.VideoCategories)
	mux.HandleFunc("GET /videos/{id}", h.GetVideo)
	mux.HandleFunc("PUT /videos/{id}", h.UpdateVideo)
	mux.HandleFunc("DELETE /videos/{id}", h.DeleteVideo)
	mux.HandleFunc("GET /videos/{id}/access", h.VideoAccess)
	mux.HandleFunc("GET /cooks", h.ListCooks)
	mux.HandleFunc("GET /cooks/{id}", h.GetCook)

	// Subscriptions
	mux.HandleFunc("GET /subscription/plans", h.ListPlans)
	mux.HandleFunc("GET /subscription", h.GetSubscription)
	mux.HandleFunc("POST /subscription", h.Subscribe)
	mux.HandleFunc("POST /subscription/{id}/cancel", h.CancelSubscription)

	// Favorites
	mux.HandleFunc("GET /favorites", h.ListFavorites)
	mux.HandleFunc("POST /favorites", h.ToggleFavorite)
	mux.HandleFunc("GET /favorites/{id}", h.IsFavorite)
	mux.HandleFunc("PUT /favorites/{id}", h.AddFavorite)
	mux.HandleFunc("DELETE /favorites/{id}", h.RemoveFavorite)

	// Cooking mode
	mux.HandleFunc("POST /cooking", h.StartCooking)
	mux.HandleFunc("GET /cooking/{id}", h.CookingState)
	mux.HandleFunc("DELETE /cooking/{id}", h.StopCooking)
	mux.HandleFunc("GET /cooking/{id}/events", h.CookingEvents)
	mux.HandleFunc("POST /cooking/{id}/{action}", h.CookingAction)
	mux.HandleFunc("POST /cooking/{id}/timer/{action}", h.TimerAction)
}

// Healthz reports liveness
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, subscription.ErrPlanNotFound),
		errors.Is(err, importer.ErrEmptyFile),
		errors.Is(err, importer.ErrUnknownFormat),
		errors.Is(err, importer.ErrNoData),
		errors.Is(err, cooking.ErrNoInstructions):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, subscription.ErrSubscriptionNotFound),
		errors.Is(err, cooking.ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with the status statusFor picks. notFound replaces the
// message for 404s so internal ids don't leak into responses.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	status := statusFor(err)
	switch status {
	case http.StatusNotFound:
		h.jsonError(w, notFound, status)
	case http.StatusBadRequest:
		h.jsonError(w, err.Error(), status)
	default:
		h.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		h.jsonError(w, "Internal server error", status)
	}
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON encodes v. Successful GET responses carry a content hash ETag
// and answer a matching If-None-Match with 304.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		h.log.ErrorContext(r.Context(), "failed to encode response", "error", err)
		h.jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusOK && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		tag := etag(buf.Bytes())
		w.Header().Set("ETag", tag)
		if etagMatches(r.Header.Get("If-None-Match"), tag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func etag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func etagMatches(header, tag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == tag {
			return true
		}
	}
	return false
}

// decodeJSON reads a JSON body into v, reporting malformed input as a
// validation error
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body", models.ErrValidation)
	}
	return nil
}
