package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// BillingInterval is how often a plan is charged
type BillingInterval string

const (
	IntervalMonth BillingInterval = "month"
	IntervalYear  BillingInterval = "year"
)

// AddTo advances t by one billing period
func (i BillingInterval) AddTo(t time.Time) time.Time {
	if i == IntervalYear {
		return t.AddDate(1, 0, 0)
	}
	return t.AddDate(0, 1, 0)
}

// Plan identifiers in the static catalog
const (
	PlanFree          = "free"
	PlanPremium       = "premium"
	PlanPremiumYearly = "premium-yearly"
	PlanPro           = "pro"
)

// SubscriptionPlan is an entry in the plan catalog
type SubscriptionPlan struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Price    decimal.Decimal `json:"price" yaml:"price"`
	Interval BillingInterval `json:"interval" yaml:"interval"`
	Features []string        `json:"features" yaml:"features"`
	Popular  bool            `json:"popular,omitempty" yaml:"popular,omitempty"`
}

// Clone returns a deep copy
func (p SubscriptionPlan) Clone() SubscriptionPlan {
	p.Features = cloneStrings(p.Features)
	return p
}

// MonthlyPrice normalizes the price to a per-month amount
func (p *SubscriptionPlan) MonthlyPrice() decimal.Decimal {
	if p.Interval == IntervalYear {
		return p.Price.Div(decimal.NewFromInt(12)).Round(2)
	}
	return p.Price
}

// IsFree returns true for zero-priced plans
func (p *SubscriptionPlan) IsFree() bool {
	return p.Price.IsZero()
}

// SubscriptionStatus is the lifecycle state of a user subscription
type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusExpired   SubscriptionStatus = "expired"
	StatusTrial     SubscriptionStatus = "trial"
)

// UserSubscription binds a user to a plan for a billing period
type UserSubscription struct {
	ID                string             `json:"id" yaml:"id"`
	UserID            string             `json:"userId" yaml:"userId"`
	PlanID            string             `json:"planId" yaml:"planId"`
	Status            SubscriptionStatus `json:"status" yaml:"status"`
	StartDate         string             `json:"startDate" yaml:"startDate"`
	EndDate           string             `json:"endDate" yaml:"endDate"`
	CancelAtPeriodEnd bool               `json:"cancelAtPeriodEnd" yaml:"cancelAtPeriodEnd"`
}

// NewUserSubscription starts an active subscription at now
func NewUserSubscription(id, userID string, plan SubscriptionPlan, now time.Time) UserSubscription {
	start := now.UTC()
	return UserSubscription{
		ID:        id,
		UserID:    userID,
		PlanID:    plan.ID,
		Status:    StatusActive,
		StartDate: start.Format(DateLayout),
		EndDate:   plan.Interval.AddTo(start).Format(DateLayout),
	}
}

// IsActive returns true if the subscription currently grants its plan
func (s *UserSubscription) IsActive() bool {
	return s.Status == StatusActive
}

// ContentTier is the access level a piece of content requires
type ContentTier string

const (
	TierFree    ContentTier = "free"
	TierPremium ContentTier = "premium"
	TierPro     ContentTier = "pro"
)

// premiumPlans unlock premium content; pro content needs PlanPro
var premiumPlans = []string{PlanPremium, PlanPremiumYearly, PlanPro}

// HasAccess reports whether sub unlocks content of the given tier. Free
// content is always accessible; anything else needs an active subscription
// to a plan that covers the tier.
func HasAccess(sub *UserSubscription, tier ContentTier) bool {
	if tier == TierFree {
		return true
	}
	if sub == nil || !sub.IsActive() {
		return false
	}
	switch tier {
	case TierPremium:
		return slices.Contains(premiumPlans, sub.PlanID)
	case TierPro:
		return sub.PlanID == PlanPro
	default:
		return false
	}
}
