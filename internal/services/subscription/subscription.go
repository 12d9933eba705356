// Package subscription manages plan enrollment and the content access gate
package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/findosh/myrecipes/internal/models"
	"github.com/findosh/myrecipes/internal/storage"
)

// Sentinel errors
var (
	ErrPlanNotFound         = errors.New("plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// Service provides the plan catalog and user subscriptions
type Service struct {
	plans []models.SubscriptionPlan
	repo  storage.SubscriptionRepository
	now   func() time.Time
	newID func() string
}

// NewService creates a subscription service over a fixed plan catalog
func NewService(plans []models.SubscriptionPlan, repo storage.SubscriptionRepository) *Service {
	catalog := make([]models.SubscriptionPlan, len(plans))
	for i, p := range plans {
		catalog[i] = p.Clone()
	}
	return &Service{
		plans: catalog,
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Plans returns the catalog in display order
func (s *Service) Plans() []models.SubscriptionPlan {
	out := make([]models.SubscriptionPlan, len(s.plans))
	for i, p := range s.plans {
		out[i] = p.Clone()
	}
	return out
}

// Plan looks up a plan by id
func (s *Service) Plan(id string) (models.SubscriptionPlan, error) {
	for _, p := range s.plans {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return models.SubscriptionPlan{}, fmt.Errorf("plan %q: %w", id, ErrPlanNotFound)
}

// Get returns the subscription held by userID
func (s *Service) Get(ctx context.Context, userID string) (models.UserSubscription, error) {
	sub, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return sub, fmt.Errorf("user %q: %w", userID, ErrSubscriptionNotFound)
	}
	return sub, err
}

// Subscribe starts an active subscription to planID. The period ends one
// billing interval after today. A user who already holds a subscription
// has it replaced in place, keeping its id.
func (s *Service) Subscribe(ctx context.Context, userID, planID string) (models.UserSubscription, error) {
	plan, err := s.Plan(planID)
	if err != nil {
		return models.UserSubscription{}, err
	}

	existing, err := s.repo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		sub := models.NewUserSubscription(existing.ID, userID, plan, s.now())
		if err := s.repo.Update(ctx, sub); err != nil {
			return models.UserSubscription{}, fmt.Errorf("failed to update subscription: %w", err)
		}
		return sub, nil
	case errors.Is(err, storage.ErrNotFound):
		sub := models.NewUserSubscription(s.newID(), userID, plan, s.now())
		if err := s.repo.Create(ctx, sub); err != nil {
			return models.UserSubscription{}, fmt.Errorf("failed to create subscription: %w", err)
		}
		return sub, nil
	default:
		return models.UserSubscription{}, err
	}
}

// Cancel flags subscription id to end with its current period. The
// subscription stays active until then.
func (s *Service) Cancel(ctx context.Context, id string) (models.UserSubscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return sub, fmt.Errorf("subscription %q: %w", id, ErrSubscriptionNotFound)
	}
	if err != nil {
		return sub, err
	}
	sub.CancelAtPeriodEnd = true
	if err := s.repo.Update(ctx, sub); err != nil {
		return models.UserSubscription{}, fmt.Errorf("failed to cancel subscription: %w", err)
	}
	return sub, nil
}

// HasAccess reports whether sub unlocks content of tier. Subscriptions to
// plans missing from the catalog unlock nothing beyond free content.
func (s *Service) HasAccess(sub *models.UserSubscription, tier models.ContentTier) bool {
	if tier == models.TierFree {
		return true
	}
	if sub == nil {
		return false
	}
	if _, err := s.Plan(sub.PlanID); err != nil {
		return false
	}
	return models.HasAccess(sub, tier)
}

// CanWatch reports whether userID may play video. Users without a
// subscription only see free lessons.
func (s *Service) CanWatch(ctx context.Context, userID string, video models.VideoLesson) (bool, error) {
	tier := video.ContentTier()
	if tier == models.TierFree {
		return true, nil
	}
	if userID == "" {
		return false, nil
	}
	sub, err := s.Get(ctx, userID)
	if errors.Is(err, ErrSubscriptionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.HasAccess(&sub, tier), nil
}
