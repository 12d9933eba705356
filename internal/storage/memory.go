package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/findosh/myrecipes/internal/models"
)

// Compile-time interface checks
var (
	_ RecipeRepository       = (*MemoryRecipeRepository)(nil)
	_ VideoRepository        = (*MemoryVideoRepository)(nil)
	_ CookRepository         = (*MemoryCookRepository)(nil)
	_ SubscriptionRepository = (*MemorySubscriptionRepository)(nil)
	_ KeyValueStore          = (*MemoryKV)(nil)
)

// ordered is an insertion-ordered, id-indexed collection. Values are
// cloned on the way in and out so callers never share backing arrays.
type ordered[T any] struct {
	mu    sync.RWMutex
	items []T
	index map[string]int
	id    func(T) string
	clone func(T) T
}

func newOrdered[T any](id func(T) string, clone func(T) T) *ordered[T] {
	return &ordered[T]{index: make(map[string]int), id: id, clone: clone}
}

func (o *ordered[T]) list() []T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]T, len(o.items))
	for i, item := range o.items {
		out[i] = o.clone(item)
	}
	return out
}

func (o *ordered[T]) get(id string) (T, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	i, ok := o.index[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("id %q: %w", id, ErrNotFound)
	}
	return o.clone(o.items[i]), nil
}

func (o *ordered[T]) find(match func(T) bool) (T, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, item := range o.items {
		if match(item) {
			return o.clone(item), nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

func (o *ordered[T]) create(item T) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.id(item)
	if _, exists := o.index[id]; exists {
		return fmt.Errorf("id %q already exists", id)
	}
	o.index[id] = len(o.items)
	o.items = append(o.items, o.clone(item))
	return nil
}

func (o *ordered[T]) update(item T) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.id(item)
	i, ok := o.index[id]
	if !ok {
		return fmt.Errorf("id %q: %w", id, ErrNotFound)
	}
	o.items[i] = o.clone(item)
	return nil
}

// MemoryRecipeRepository keeps recipes in process memory
type MemoryRecipeRepository struct {
	store *ordered[models.Recipe]
}

// NewMemoryRecipeRepository creates an empty recipe repository
func NewMemoryRecipeRepository() *MemoryRecipeRepository {
	return &MemoryRecipeRepository{
		store: newOrdered(func(r models.Recipe) string { return r.ID }, models.Recipe.Clone),
	}
}

// List returns all recipes in insertion order
func (r *MemoryRecipeRepository) List(_ context.Context) ([]models.Recipe, error) {
	return r.store.list(), nil
}

// GetByID retrieves a recipe by ID
func (r *MemoryRecipeRepository) GetByID(_ context.Context, id string) (models.Recipe, error) {
	return r.store.get(id)
}

// Create appends a recipe
func (r *MemoryRecipeRepository) Create(_ context.Context, recipe models.Recipe) error {
	return r.store.create(recipe)
}

// MemoryVideoRepository keeps video lessons in process memory
type MemoryVideoRepository struct {
	store *ordered[models.VideoLesson]
}

// NewMemoryVideoRepository creates an empty video repository
func NewMemoryVideoRepository() *MemoryVideoRepository {
	return &MemoryVideoRepository{
		store: newOrdered(func(v models.VideoLesson) string { return v.ID }, models.VideoLesson.Clone),
	}
}

// List returns all videos in insertion order
func (r *MemoryVideoRepository) List(_ context.Context) ([]models.VideoLesson, error) {
	return r.store.list(), nil
}

// GetByID retrieves a video by ID
func (r *MemoryVideoRepository) GetByID(_ context.Context, id string) (models.VideoLesson, error) {
	return r.store.get(id)
}

// Create appends a video
func (r *MemoryVideoRepository) Create(_ context.Context, v models.VideoLesson) error {
	return r.store.create(v)
}

// MemoryCookRepository keeps cook profiles in process memory
type MemoryCookRepository struct {
	store *ordered[models.Cook]
}

// NewMemoryCookRepository creates an empty cook repository
func NewMemoryCookRepository() *MemoryCookRepository {
	return &MemoryCookRepository{
		store: newOrdered(func(c models.Cook) string { return c.ID }, models.Cook.Clone),
	}
}

func (r *MemoryCookRepository) List(_ context.Context) ([]models.Cook, error) {
	return r.store.list(), nil
}

func (r *MemoryCookRepository) GetByID(_ context.Context, id string) (models.Cook, error) {
	return r.store.get(id)
}

func (r *MemoryCookRepository) Create(_ context.Context, c models.Cook) error {
	return r.store.create(c)
}

// MemorySubscriptionRepository keeps user subscriptions in process memory
type MemorySubscriptionRepository struct {
	store *ordered[models.UserSubscription]
}

// NewMemorySubscriptionRepository creates an empty subscription repository
func NewMemorySubscriptionRepository() *MemorySubscriptionRepository {
	return &MemorySubscriptionRepository{
		store: newOrdered(
			func(s models.UserSubscription) string { return s.ID },
			func(s models.UserSubscription) models.UserSubscription { return s },
		),
	}
}

// GetByUserID returns the first subscription recorded for userID
func (r *MemorySubscriptionRepository) GetByUserID(_ context.Context, userID string) (models.UserSubscription, error) {
	sub, err := r.store.find(func(s models.UserSubscription) bool { return s.UserID == userID })
	if err != nil {
		return sub, fmt.Errorf("subscription for user %q: %w", userID, err)
	}
	return sub, nil
}

// GetByID retrieves a subscription by ID
func (r *MemorySubscriptionRepository) GetByID(_ context.Context, id string) (models.UserSubscription, error) {
	return r.store.get(id)
}

// Create records a new subscription
func (r *MemorySubscriptionRepository) Create(_ context.Context, s models.UserSubscription) error {
	return r.store.create(s)
}

// Update replaces an existing subscription
func (r *MemorySubscriptionRepository) Update(_ context.Context, s models.UserSubscription) error {
	return r.store.update(s)
}

// MemoryKV is a map-backed KeyValueStore
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV creates an empty store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored at key
func (kv *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of value at key
func (kv *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = append([]byte(nil), value...)
	return nil
}
