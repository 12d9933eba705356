package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findosh/myrecipes/internal/cooking"
	"github.com/findosh/myrecipes/internal/middleware"
	"github.com/findosh/myrecipes/internal/models"
	"github.com/findosh/myrecipes/internal/services/analytics"
	"github.com/findosh/myrecipes/internal/services/catalog"
	"github.com/findosh/myrecipes/internal/services/favorites"
	"github.com/findosh/myrecipes/internal/services/subscription"
	"github.com/findosh/myrecipes/internal/storage"
	"github.com/findosh/myrecipes/internal/storage/seed"
)

type testServer struct {
	mux     http.Handler
	manager *cooking.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	repos := storage.NewMemory()
	require.NoError(t, seed.Seed(context.Background(), repos))
	plans, err := seed.Plans()
	require.NoError(t, err)

	manager := cooking.NewManager(nil, log, cooking.WithTickInterval(time.Hour))
	t.Cleanup(manager.Shutdown)

	h := New(
		catalog.NewService(repos.Recipes, repos.Videos, repos.Cooks),
		favorites.NewService(repos.KV, log),
		subscription.NewService(plans, repos.Subscriptions),
		manager,
		log,
	)
	mux := http.NewServeMux()
	h.Register(mux)

	// Tests name the client through a header instead of a cookie.
	withClient := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := r.Header.Get("X-Test-Client"); id != "" {
				r = r.WithContext(middleware.WithClientID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
	return &testServer{mux: withClient(mux), manager: manager}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func recipeIDs(recipes []models.Recipe) []string {
	ids := make([]string, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}
	return ids
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestListRecipes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{"all", "/recipes", []string{"1", "2", "3", "4", "5"}},
		{"text", "/recipes?q=chocolate", []string{"1"}},
		{"category", "/recipes?category=Main%20Course", []string{"2", "4", "5"}},
		{"search alias", "/search?q=chocolate", []string{"1"}},
		{"no match", "/recipes?q=sushi", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.expected, recipeIDs(decode[[]models.Recipe](t, rec)))
		})
	}
}

func TestGetRecipe(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/recipes/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Classic Chocolate Chip Cookies", decode[models.Recipe](t, rec).Title)

	rec = s.do(t, http.MethodGet, "/recipes/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Recipe not found", errorMessage(t, rec))
}

func TestETag(t *testing.T) {
	s := newTestServer(t)

	first := s.do(t, http.MethodGet, "/recipes/1", "")
	tag := first.Header().Get("ETag")
	require.NotEmpty(t, tag)

	again := s.do(t, http.MethodGet, "/recipes/1", "", "If-None-Match", tag)
	assert.Equal(t, http.StatusNotModified, again.Code)
	assert.Empty(t, again.Body.String())

	other := s.do(t, http.MethodGet, "/recipes/2", "", "If-None-Match", tag)
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestCreateRecipe(t *testing.T) {
	s := newTestServer(t)

	body := `{"title":"Toast","description":"Crisp bread","cookingTime":5,"servings":1,
		"difficulty":"Easy","category":"Breakfast","ingredients":["bread"],"instructions":["Toast it"]}`
	rec := s.do(t, http.MethodPost, "/recipes", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Recipe](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Toast", created.Title)

	rec = s.do(t, http.MethodGet, "/recipes/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/recipes", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/recipes", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFacets(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/recipes/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[[]string](t, rec), "Dessert")

	rec = s.do(t, http.MethodGet, "/recipes/tags", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]string](t, rec), 18)

	rec = s.do(t, http.MethodGet, "/videos/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]string](t, rec), 5)
}

func TestVideos(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/videos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.VideoLesson](t, rec), 5)

	rec = s.do(t, http.MethodGet, "/videos/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Knife Skills Masterclass", decode[models.VideoLesson](t, rec).Title)

	rec = s.do(t, http.MethodGet, "/videos/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Video not found", errorMessage(t, rec))
}

func TestUpdateVideoDoesNotPersist(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/videos/2", `{"title":"Renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", decode[models.VideoLesson](t, rec).Title)

	rec = s.do(t, http.MethodGet, "/videos/2", "")
	assert.Equal(t, "Knife Skills Masterclass", decode[models.VideoLesson](t, rec).Title)
}

func TestDeleteVideo(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodDelete, "/videos/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Video deleted successfully", decode[map[string]string](t, rec)["message"])

	rec = s.do(t, http.MethodDelete, "/videos/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVideoAccess(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		path    string
		allowed bool
	}{
		{"free lesson anonymous", "/videos/2/access", true},
		{"premium lesson anonymous", "/videos/1/access", false},
		{"premium lesson subscriber", "/videos/1/access?userId=user1", true},
		{"premium lesson unknown user", "/videos/1/access?userId=nobody", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.allowed, decode[accessResponse](t, rec).Allowed)
		})
	}
}

func TestCooks(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/cooks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Cook](t, rec), 4)

	rec = s.do(t, http.MethodGet, "/cooks/cook1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[cookProfile](t, rec)
	assert.Equal(t, "cook1", profile.Cook.ID)
	for _, v := range profile.Videos {
		assert.Equal(t, "cook1", v.CookID)
	}

	rec = s.do(t, http.MethodGet, "/cooks/nobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubscriptionFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/subscription/plans", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.SubscriptionPlan](t, rec), 4)

	rec = s.do(t, http.MethodGet, "/subscription", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User ID is required", errorMessage(t, rec))

	rec = s.do(t, http.MethodGet, "/subscription?userId=user2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	rec = s.do(t, http.MethodPost, "/subscription", `{"userId":"user2"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User ID and Plan ID are required", errorMessage(t, rec))

	rec = s.do(t, http.MethodPost, "/subscription", `{"userId":"user2","planId":"gold"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid plan ID", errorMessage(t, rec))

	rec = s.do(t, http.MethodPost, "/subscription", `{"userId":"user2","planId":"pro"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	sub := decode[models.UserSubscription](t, rec)
	assert.Equal(t, "pro", sub.PlanID)
	assert.Equal(t, models.StatusActive, sub.Status)

	rec = s.do(t, http.MethodGet, "/subscription?userId=user2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sub.ID, decode[models.UserSubscription](t, rec).ID)

	rec = s.do(t, http.MethodPost, "/subscription/"+sub.ID+"/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.UserSubscription](t, rec).CancelAtPeriodEnd)

	rec = s.do(t, http.MethodPost, "/subscription/nope/cancel", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFavorites(t *testing.T) {
	s := newTestServer(t)
	alice := []string{"X-Test-Client", "alice"}
	bob := []string{"X-Test-Client", "bob"}

	rec := s.do(t, http.MethodPost, "/favorites", `{"recipeId":"1"}`, alice...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[favoriteStatus](t, rec).Favorite)

	rec = s.do(t, http.MethodGet, "/favorites", "", alice...)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]models.FavoriteRecord](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].ID)

	rec = s.do(t, http.MethodGet, "/favorites", "", bob...)
	assert.Empty(t, decode[[]models.FavoriteRecord](t, rec))

	rec = s.do(t, http.MethodGet, "/favorites/1", "", alice...)
	assert.True(t, decode[favoriteStatus](t, rec).Favorite)

	rec = s.do(t, http.MethodPost, "/favorites", `{"recipeId":"1"}`, alice...)
	assert.False(t, decode[favoriteStatus](t, rec).Favorite)

	rec = s.do(t, http.MethodPut, "/favorites/2", "", alice...)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPut, "/favorites/2", "", alice...)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/favorites", "", alice...)
	assert.Len(t, decode[[]models.FavoriteRecord](t, rec), 1)

	rec = s.do(t, http.MethodDelete, "/favorites/2", "", alice...)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/favorites/2", "", alice...)
	assert.False(t, decode[favoriteStatus](t, rec).Favorite)

	rec = s.do(t, http.MethodPost, "/favorites", `{"recipeId":"missing"}`, alice...)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/favorites", `{}`, alice...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCookingSession(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/cooking", `{"recipeId":"1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	state := decode[cooking.State](t, rec)
	require.NotEmpty(t, state.ID)
	assert.Equal(t, 0, state.CurrentStep)
	assert.Equal(t, 9, state.StepCount)
	base := "/cooking/" + state.ID

	rec = s.do(t, http.MethodPost, base+"/advance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[cooking.State](t, rec).CurrentStep)

	rec = s.do(t, http.MethodPost, base+"/retreat", "")
	assert.Equal(t, 0, decode[cooking.State](t, rec).CurrentStep)

	rec = s.do(t, http.MethodPost, base+"/jump", `{"step":8}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 8, decode[cooking.State](t, rec).CurrentStep)

	rec = s.do(t, http.MethodPost, base+"/jump", `{"step":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, base+"/complete", "")
	require.Equal(t, http.StatusOK, rec.Code)
	state = decode[cooking.State](t, rec)
	assert.True(t, state.CompletedSteps[8])
	assert.Equal(t, 1, state.StepsCompleted)

	rec = s.do(t, http.MethodGet, base+"/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	events := decode[[]cooking.Event](t, rec)
	require.Len(t, events, 1)
	assert.Equal(t, cooking.TitleRecipeComplete, events[0].Title)

	rec = s.do(t, http.MethodPost, base+"/ingredient", `{"index":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[cooking.State](t, rec).CheckedIngredients[2])

	rec = s.do(t, http.MethodPost, base+"/ingredient", `{"index":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, base+"/flip", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, s.manager.Len())
}

func TestCookingTimer(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/cooking", `{"recipeId":"2"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/cooking/" + decode[cooking.State](t, rec).ID + "/timer"

	rec = s.do(t, http.MethodPost, base+"/start", `{"minutes":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	timer := decode[cooking.State](t, rec).Timer
	assert.Equal(t, cooking.TimerRunning, timer.State)
	assert.Equal(t, 300, timer.Remaining)
	assert.Equal(t, "05:00", timer.Display)

	rec = s.do(t, http.MethodPost, base+"/pause", "")
	assert.Equal(t, cooking.TimerArmed, decode[cooking.State](t, rec).Timer.State)

	rec = s.do(t, http.MethodPost, base+"/resume", "")
	assert.True(t, decode[cooking.State](t, rec).Timer.Running)

	rec = s.do(t, http.MethodPost, base+"/reset", "")
	timer = decode[cooking.State](t, rec).Timer
	assert.False(t, timer.Running)
	assert.Equal(t, 300, timer.Remaining)

	rec = s.do(t, http.MethodPost, base+"/start", `{"seconds":45}`)
	assert.Equal(t, 45, decode[cooking.State](t, rec).Timer.Remaining)

	rec = s.do(t, http.MethodPost, base+"/explode", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCookingErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/cooking", `{"recipeId":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/cooking", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/cooking/nope/advance", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Cooking session not found", errorMessage(t, rec))
}

func TestEtagMatches(t *testing.T) {
	assert.True(t, etagMatches(`"abc"`, `"abc"`))
	assert.True(t, etagMatches(`W/"abc", "def"`, `"abc"`))
	assert.True(t, etagMatches(`*`, `"abc"`))
	assert.False(t, etagMatches(``, `"abc"`))
	assert.False(t, etagMatches(`"def"`, `"abc"`))
}

func TestImportRecipes(t *testing.T) {
	s := newTestServer(t)

	body := "name,summary,minutes,serves,ingredients,method\n" +
		"Tomato Soup,Weeknight classic,30,4,\"tomatoes|onion\",\"Soften onion|Add tomatoes|Blend\"\n" +
		"Broken,,,,,\n"
	rec := s.do(t, http.MethodPost, "/recipes/import", body, "Content-Type", "text/csv")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result struct {
		Created []models.Recipe `json:"created"`
		Source  string          `json:"source"`
		Errors  []string        `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Created, 1)
	assert.Equal(t, "spreadsheet", result.Source)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, "Soup", result.Created[0].Category)

	rec = s.do(t, http.MethodGet, "/recipes/"+result.Created[0].ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/recipes/import", "symbol,price\nAAPL,1\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStats(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[analytics.CatalogStats](t, rec)
	assert.Equal(t, 5, stats.Recipes)
	assert.Equal(t, 5, stats.Videos)
	assert.Equal(t, "4.68", stats.AverageRating.String())
	assert.Len(t, stats.TopRated, 3)
	assert.Len(t, stats.Cooks, 4)
}
