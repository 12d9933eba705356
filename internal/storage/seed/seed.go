// Package seed embeds the sample catalog the app ships with and loads it
// into a set of repositories.
package seed

import (
	"context"
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/findosh/myrecipes/internal/models"
	"github.com/findosh/myrecipes/internal/storage"
)

//go:embed fixtures/*.yaml
var fixtures embed.FS

// Dataset is the full fixture set
type Dataset struct {
	Recipes       []models.Recipe
	Videos        []models.VideoLesson
	Cooks         []models.Cook
	Plans         []models.SubscriptionPlan
	Subscriptions []models.UserSubscription
}

// Load parses every fixture file
func Load() (Dataset, error) {
	var ds Dataset
	files := []struct {
		name string
		out  any
	}{
		{"recipes.yaml", &ds.Recipes},
		{"videos.yaml", &ds.Videos},
		{"cooks.yaml", &ds.Cooks},
		{"plans.yaml", &ds.Plans},
		{"subscriptions.yaml", &ds.Subscriptions},
	}
	for _, f := range files {
		if err := decode(f.name, f.out); err != nil {
			return Dataset{}, err
		}
	}
	return ds, nil
}

// Plans returns the subscription plan catalog
func Plans() ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	if err := decode("plans.yaml", &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func decode(name string, out any) error {
	raw, err := fixtures.ReadFile("fixtures/" + name)
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse fixture %s: %w", name, err)
	}
	return nil
}

// Seed writes the fixtures into repos. Recipes, videos and cooks are only
// written when that store is empty, so seeding a populated database is a
// no-op. Subscriptions are written when their id is missing.
func Seed(ctx context.Context, repos storage.Repositories) error {
	ds, err := Load()
	if err != nil {
		return err
	}

	recipes, err := repos.Recipes.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list recipes: %w", err)
	}
	if len(recipes) == 0 {
		for _, r := range ds.Recipes {
			if err := repos.Recipes.Create(ctx, r); err != nil {
				return fmt.Errorf("failed to seed recipe %s: %w", r.ID, err)
			}
		}
	}

	videos, err := repos.Videos.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list videos: %w", err)
	}
	if len(videos) == 0 {
		for _, v := range ds.Videos {
			if err := repos.Videos.Create(ctx, v); err != nil {
				return fmt.Errorf("failed to seed video %s: %w", v.ID, err)
			}
		}
	}

	cooks, err := repos.Cooks.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list cooks: %w", err)
	}
	if len(cooks) == 0 {
		for _, c := range ds.Cooks {
			if err := repos.Cooks.Create(ctx, c); err != nil {
				return fmt.Errorf("failed to seed cook %s: %w", c.ID, err)
			}
		}
	}

	for _, s := range ds.Subscriptions {
		if _, err := repos.Subscriptions.GetByID(ctx, s.ID); err == nil {
			continue
		}
		if err := repos.Subscriptions.Create(ctx, s); err != nil {
			return fmt.Errorf("failed to seed subscription %s: %w", s.ID, err)
		}
	}

	return nil
}
