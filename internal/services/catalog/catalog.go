// Package catalog serves recipes, video lessons and cook profiles
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/findosh/myrecipes/internal/models"
	"github.com/findosh/myrecipes/internal/query"
	"github.com/findosh/myrecipes/internal/storage"
)

// Service provides catalog reads, creation and search
type Service struct {
	recipes storage.RecipeRepository
	videos  storage.VideoRepository
	cooks   storage.CookRepository
	now     func() time.Time
	newID   func() string
}

// Option configures a Service
type Option func(*Service)

// WithClock sets the clock used to stamp new videos
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator replaces uuid.NewString for new records
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// NewService creates a new catalog service
func NewService(recipes storage.RecipeRepository, videos storage.VideoRepository, cooks storage.CookRepository, opts ...Option) *Service {
	s := &Service{
		recipes: recipes,
		videos:  videos,
		cooks:   cooks,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListRecipes returns every recipe
func (s *Service) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	return s.recipes.List(ctx)
}

// GetRecipe returns one recipe or an error wrapping storage.ErrNotFound
func (s *Service) GetRecipe(ctx context.Context, id string) (models.Recipe, error) {
	return s.recipes.GetByID(ctx, id)
}

// CreateRecipe validates req and stores a new recipe under a fresh id
func (s *Service) CreateRecipe(ctx context.Context, req models.CreateRecipeRequest) (models.Recipe, error) {
	if err := req.Validate(); err != nil {
		return models.Recipe{}, err
	}
	recipe := models.NewRecipe(s.newID(), req)
	if err := s.recipes.Create(ctx, recipe); err != nil {
		return models.Recipe{}, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}

// SearchRecipes filters the recipe list with p
func (s *Service) SearchRecipes(ctx context.Context, p query.Params) ([]models.Recipe, error) {
	all, err := s.recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return all, nil
	}
	return query.Recipes(all, p), nil
}

// RecipeCategories returns distinct recipe categories in first-seen order
func (s *Service) RecipeCategories(ctx context.Context) ([]string, error) {
	all, err := s.recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.RecipeCategories(all), nil
}

// RecipeTags returns distinct recipe tags in first-seen order
func (s *Service) RecipeTags(ctx context.Context) ([]string, error) {
	all, err := s.recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.RecipeTags(all), nil
}

// ListVideos returns every video lesson
func (s *Service) ListVideos(ctx context.Context) ([]models.VideoLesson, error) {
	return s.videos.List(ctx)
}

// GetVideo returns one video lesson
func (s *Service) GetVideo(ctx context.Context, id string) (models.VideoLesson, error) {
	return s.videos.GetByID(ctx, id)
}

// CreateVideo validates req and publishes a lesson with zero views and likes
func (s *Service) CreateVideo(ctx context.Context, req models.CreateVideoRequest) (models.VideoLesson, error) {
	if err := req.Validate(); err != nil {
		return models.VideoLesson{}, err
	}
	v := models.NewVideoLesson(s.newID(), req, s.now())
	if err := s.videos.Create(ctx, v); err != nil {
		return models.VideoLesson{}, fmt.Errorf("failed to create video: %w", err)
	}
	return v, nil
}

// SearchVideos filters the video list with p
func (s *Service) SearchVideos(ctx context.Context, p query.Params) ([]models.VideoLesson, error) {
	all, err := s.videos.List(ctx)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return all, nil
	}
	return query.Videos(all, p), nil
}

// VideoCategories returns distinct video categories in first-seen order
func (s *Service) VideoCategories(ctx context.Context) ([]string, error) {
	all, err := s.videos.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.VideoCategories(all), nil
}

// PreviewVideoUpdate returns the lesson as it would look with patch
// applied. Nothing is persisted.
func (s *Service) PreviewVideoUpdate(ctx context.Context, id string, patch models.VideoPatch) (models.VideoLesson, error) {
	v, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return models.VideoLesson{}, err
	}
	return patch.Apply(v)
}

// ListCooks returns every cook profile
func (s *Service) ListCooks(ctx context.Context) ([]models.Cook, error) {
	return s.cooks.List(ctx)
}

// GetCook returns one cook profile
func (s *Service) GetCook(ctx context.Context, id string) (models.Cook, error) {
	return s.cooks.GetByID(ctx, id)
}

// CookVideos returns the lessons published by cookID
func (s *Service) CookVideos(ctx context.Context, cookID string) ([]models.VideoLesson, error) {
	return s.SearchVideos(ctx, query.Params{CookID: cookID})
}
