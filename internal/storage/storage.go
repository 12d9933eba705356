package storage

import (
	"context"
	"errors"

	"github.com/findosh/myrecipes/internal/models"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

// RecipeRepository stores recipes in insertion order
type RecipeRepository interface {
	List(ctx context.Context) ([]models.Recipe, error)
	GetByID(ctx context.Context, id string) (models.Recipe, error)
	Create(ctx context.Context, r models.Recipe) error
}

// VideoRepository stores video lessons in insertion order
type VideoRepository interface {
	List(ctx context.Context) ([]models.VideoLesson, error)
	GetByID(ctx context.Context, id string) (models.VideoLesson, error)
	Create(ctx context.Context, v models.VideoLesson) error
}

// CookRepository stores cook profiles. Create is only used when seeding.
type CookRepository interface {
	List(ctx context.Context) ([]models.Cook, error)
	GetByID(ctx context.Context, id string) (models.Cook, error)
	Create(ctx context.Context, c models.Cook) error
}

// SubscriptionRepository stores user subscriptions
type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID string) (models.UserSubscription, error)
	GetByID(ctx context.Context, id string) (models.UserSubscription, error)
	Create(ctx context.Context, s models.UserSubscription) error
	Update(ctx context.Context, s models.UserSubscription) error
}

// KeyValueStore is a small byte-valued store for per-client state
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repositories groups one implementation of every store
type Repositories struct {
	Recipes       RecipeRepository
	Videos        VideoRepository
	Cooks         CookRepository
	Subscriptions SubscriptionRepository
	KV            KeyValueStore
}

// NewMemory returns empty in-memory repositories
func NewMemory() Repositories {
	return Repositories{
		Recipes:       NewMemoryRecipeRepository(),
		Videos:        NewMemoryVideoRepository(),
		Cooks:         NewMemoryCookRepository(),
		Subscriptions: NewMemorySubscriptionRepository(),
		KV:            NewMemoryKV(),
	}
}

// NewSQLite returns repositories backed by db. Call db.Migrate first.
func NewSQLite(db *DB) Repositories {
	return Repositories{
		Recipes:       NewRecipeRepository(db),
		Videos:        NewVideoRepository(db),
		Cooks:         NewCookRepository(db),
		Subscriptions: NewSubscriptionRepository(db),
		KV:            NewKVStore(db),
	}
}
