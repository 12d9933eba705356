package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewUserSubscription_Periods(t *testing.T) {
	now := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

	monthly := NewUserSubscription("s1", "u1", SubscriptionPlan{ID: PlanPremium, Interval: IntervalMonth}, now)
	if monthly.StartDate != "2024-01-31" {
		t.Errorf("Expected start 2024-01-31, got %s", monthly.StartDate)
	}
	// time.AddDate normalizes Feb 31 to Mar 2.
	if monthly.EndDate != "2024-03-02" {
		t.Errorf("Expected end 2024-03-02, got %s", monthly.EndDate)
	}
	if monthly.Status != StatusActive || monthly.CancelAtPeriodEnd {
		t.Errorf("Expected active, not cancelling; got %s/%v", monthly.Status, monthly.CancelAtPeriodEnd)
	}

	yearly := NewUserSubscription("s2", "u1", SubscriptionPlan{ID: PlanPremiumYearly, Interval: IntervalYear}, now)
	if yearly.EndDate != "2025-01-31" {
		t.Errorf("Expected end 2025-01-31, got %s", yearly.EndDate)
	}
}

func TestHasAccess(t *testing.T) {
	active := func(plan string) *UserSubscription {
		return &UserSubscription{PlanID: plan, Status: StatusActive}
	}

	tests := []struct {
		name     string
		sub      *UserSubscription
		tier     ContentTier
		expected bool
	}{
		{"free without subscription", nil, TierFree, true},
		{"premium without subscription", nil, TierPremium, false},
		{"premium on free plan", active(PlanFree), TierPremium, false},
		{"premium on premium", active(PlanPremium), TierPremium, true},
		{"premium on yearly", active(PlanPremiumYearly), TierPremium, true},
		{"premium on pro", active(PlanPro), TierPremium, true},
		{"pro on premium", active(PlanPremium), TierPro, false},
		{"pro on pro", active(PlanPro), TierPro, true},
		{"expired premium", &UserSubscription{PlanID: PlanPremium, Status: StatusExpired}, TierPremium, false},
		{"trial premium", &UserSubscription{PlanID: PlanPremium, Status: StatusTrial}, TierPremium, false},
		{"unknown tier", active(PlanPro), ContentTier("vip"), false},
	}

	for _, tt := range tests {
		if got := HasAccess(tt.sub, tt.tier); got != tt.expected {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, got)
		}
	}
}

func TestSubscriptionPlan_MonthlyPrice(t *testing.T) {
	yearly := SubscriptionPlan{Price: decimal.RequireFromString("99.99"), Interval: IntervalYear}
	expected := decimal.RequireFromString("8.33")
	if !yearly.MonthlyPrice().Equal(expected) {
		t.Errorf("Expected monthly price %s, got %s", expected, yearly.MonthlyPrice())
	}

	monthly := SubscriptionPlan{Price: decimal.RequireFromString("9.99"), Interval: IntervalMonth}
	if !monthly.MonthlyPrice().Equal(monthly.Price) {
		t.Errorf("Expected monthly price unchanged, got %s", monthly.MonthlyPrice())
	}

	free := SubscriptionPlan{Price: decimal.Zero}
	if !free.IsFree() {
		t.Error("Expected zero-priced plan to be free")
	}
}
