// Package favorites keeps each client's bookmarked recipes in a key-value store
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/findosh/myrecipes/internal/models"
	"github.com/findosh/myrecipes/internal/storage"
)

const keyPrefix = "myrecipes_favorites:"

// Service manages favorites lists keyed by client id
type Service struct {
	kv  storage.KeyValueStore
	log *slog.Logger
	now func() time.Time

	// serializes read-modify-write cycles on the store
	mu sync.Mutex
}

// NewService creates a new favorites service
func NewService(kv storage.KeyValueStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{kv: kv, log: log, now: time.Now}
}

// Get returns the client's favorites in the order they were added. A
// stored value that can't be decoded reads as an empty list.
func (s *Service) Get(ctx context.Context, clientID string) ([]models.FavoriteRecord, error) {
	raw, ok, err := s.kv.Get(ctx, key(clientID))
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	if !ok {
		return []models.FavoriteRecord{}, nil
	}
	var list []models.FavoriteRecord
	if err := json.Unmarshal(raw, &list); err != nil {
		s.log.WarnContext(ctx, "discarding unreadable favorites", "client", clientID, "error", err)
		return []models.FavoriteRecord{}, nil
	}
	if list == nil {
		list = []models.FavoriteRecord{}
	}
	return list, nil
}

// Add bookmarks rec unless it is already present
func (s *Service) Add(ctx context.Context, clientID string, rec models.FavoriteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(ctx, clientID, rec)
}

// Remove drops recipeID from the list. Removing an absent id is not an error.
func (s *Service) Remove(ctx context.Context, clientID, recipeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(ctx, clientID, recipeID)
}

// IsFavorite reports whether recipeID is bookmarked
func (s *Service) IsFavorite(ctx context.Context, clientID, recipeID string) (bool, error) {
	list, err := s.Get(ctx, clientID)
	if err != nil {
		return false, err
	}
	return indexOf(list, recipeID) >= 0, nil
}

// Toggle adds rec if absent and removes it otherwise, returning whether it
// is a favorite afterwards
func (s *Service) Toggle(ctx context.Context, clientID string, rec models.FavoriteRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.Get(ctx, clientID)
	if err != nil {
		return false, err
	}
	if indexOf(list, rec.ID) >= 0 {
		return false, s.remove(ctx, clientID, rec.ID)
	}
	return true, s.add(ctx, clientID, rec)
}

func (s *Service) add(ctx context.Context, clientID string, rec models.FavoriteRecord) error {
	list, err := s.Get(ctx, clientID)
	if err != nil {
		return err
	}
	if indexOf(list, rec.ID) >= 0 {
		return nil
	}
	rec.AddedAt = s.now().UTC()
	return s.save(ctx, clientID, append(list, rec))
}

func (s *Service) remove(ctx context.Context, clientID, recipeID string) error {
	list, err := s.Get(ctx, clientID)
	if err != nil {
		return err
	}
	i := indexOf(list, recipeID)
	if i < 0 {
		return nil
	}
	return s.save(ctx, clientID, slices.Delete(list, i, i+1))
}

func (s *Service) save(ctx context.Context, clientID string, list []models.FavoriteRecord) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := s.kv.Set(ctx, key(clientID), raw); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}

func key(clientID string) string {
	return keyPrefix + clientID
}

func indexOf(list []models.FavoriteRecord, recipeID string) int {
	return slices.IndexFunc(list, func(f models.FavoriteRecord) bool { return f.ID == recipeID })
}
