package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Ratings and prices render as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// FavoriteRecord is a recipe bookmarked by one client, with cached display fields
type FavoriteRecord struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Image   string    `json:"image"`
	AddedAt time.Time `json:"addedAt"`
}

// FavoriteFromRecipe builds an unstamped record for r
func FavoriteFromRecipe(r *Recipe) FavoriteRecord {
	return FavoriteRecord{
		ID:    r.ID,
		Title: r.Title,
		Image: r.Image,
	}
}
