// Package analytics summarizes the catalog for dashboards and reports
package analytics

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/findosh/myrecipes/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Share is one slice of a breakdown
type Share struct {
	Label   string          `json:"label" yaml:"label"`
	Count   int             `json:"count" yaml:"count"`
	Percent decimal.Decimal `json:"percent" yaml:"percent"`
}

// CookReach aggregates a cook's lessons
type CookReach struct {
	CookID     string          `json:"cookId" yaml:"cookId"`
	Name       string          `json:"name" yaml:"name"`
	Videos     int             `json:"videos" yaml:"videos"`
	Views      int64           `json:"views" yaml:"views"`
	Likes      int64           `json:"likes" yaml:"likes"`
	Engagement decimal.Decimal `json:"engagement" yaml:"engagement"` // likes per 100 views
}

// CatalogStats is the catalog summary
type CatalogStats struct {
	Recipes           int             `json:"recipes" yaml:"recipes"`
	AverageRating     decimal.Decimal `json:"averageRating" yaml:"averageRating"`
	AverageCookTime   decimal.Decimal `json:"averageCookTime" yaml:"averageCookTime"` // minutes
	Categories        []Share         `json:"categories" yaml:"categories"`
	Difficulties      []Share         `json:"difficulties" yaml:"difficulties"`
	TopRated          []models.Recipe `json:"topRated" yaml:"topRated"`
	Videos            int             `json:"videos" yaml:"videos"`
	PremiumPercent    decimal.Decimal `json:"premiumPercent" yaml:"premiumPercent"`
	TotalVideoSeconds int             `json:"totalVideoSeconds" yaml:"totalVideoSeconds"`
	Cooks             []CookReach     `json:"cooks" yaml:"cooks"`
}

// Service provides catalog analytics calculations
type Service struct {
	topN int
}

// NewService creates a new analytics service. topN bounds the top-rated
// list; values below 1 mean 3.
func NewService(topN int) *Service {
	if topN < 1 {
		topN = 3
	}
	return &Service{topN: topN}
}

// Summarize computes the catalog summary. Inputs are not modified.
func (s *Service) Summarize(recipes []models.Recipe, videos []models.VideoLesson, cooks []models.Cook) CatalogStats {
	stats := CatalogStats{
		Recipes:         len(recipes),
		AverageRating:   decimal.Zero,
		AverageCookTime: decimal.Zero,
		Categories:      []Share{},
		Difficulties:    []Share{},
		TopRated:        []models.Recipe{},
		Videos:          len(videos),
		PremiumPercent:  decimal.Zero,
		Cooks:           []CookReach{},
	}

	if len(recipes) > 0 {
		ratingSum := decimal.Zero
		minutes := 0
		for _, r := range recipes {
			ratingSum = ratingSum.Add(r.Rating)
			minutes += r.CookingTime
		}
		n := decimal.NewFromInt(int64(len(recipes)))
		stats.AverageRating = ratingSum.Div(n).Round(2)
		stats.AverageCookTime = decimal.NewFromInt(int64(minutes)).Div(n).Round(1)

		stats.Categories = breakdown(recipes, func(r models.Recipe) string { return r.Category })
		stats.Difficulties = s.difficultyBreakdown(recipes)
		stats.TopRated = s.topRated(recipes)
	}

	if len(videos) > 0 {
		premium := 0
		for i := range videos {
			if videos[i].IsPremium {
				premium++
			}
			stats.TotalVideoSeconds += videos[i].Duration
		}
		stats.PremiumPercent = percent(premium, len(videos))
	}

	stats.Cooks = cookReach(videos, cooks)
	return stats
}

// breakdown counts items per label, largest first, ties by label
func breakdown(recipes []models.Recipe, label func(models.Recipe) string) []Share {
	counts := make(map[string]int)
	for _, r := range recipes {
		counts[label(r)]++
	}

	shares := make([]Share, 0, len(counts))
	for l, c := range counts {
		shares = append(shares, Share{Label: l, Count: c, Percent: percent(c, len(recipes))})
	}
	slices.SortFunc(shares, func(a, b Share) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return shares
}

// difficultyBreakdown lists every difficulty in display order, zeros included
func (s *Service) difficultyBreakdown(recipes []models.Recipe) []Share {
	shares := make([]Share, 0, len(models.AllDifficulties()))
	for _, d := range models.AllDifficulties() {
		c := 0
		for _, r := range recipes {
			if r.Difficulty == d {
				c++
			}
		}
		shares = append(shares, Share{Label: string(d), Count: c, Percent: percent(c, len(recipes))})
	}
	return shares
}

func (s *Service) topRated(recipes []models.Recipe) []models.Recipe {
	sorted := make([]models.Recipe, len(recipes))
	for i, r := range recipes {
		sorted[i] = r.Clone()
	}
	slices.SortStableFunc(sorted, func(a, b models.Recipe) int {
		return b.Rating.Cmp(a.Rating)
	})
	if len(sorted) > s.topN {
		sorted = sorted[:s.topN]
	}
	return sorted
}

// cookReach totals views and likes per cook, most viewed first. Cooks
// without lessons are listed with zeros.
func cookReach(videos []models.VideoLesson, cooks []models.Cook) []CookReach {
	byID := make(map[string]*CookReach, len(cooks))
	order := make([]*CookReach, 0, len(cooks))
	get := func(id, name string) *CookReach {
		if r, ok := byID[id]; ok {
			return r
		}
		r := &CookReach{CookID: id, Name: name}
		byID[id] = r
		order = append(order, r)
		return r
	}

	for _, c := range cooks {
		get(c.ID, c.Name)
	}
	for i := range videos {
		v := &videos[i]
		r := get(v.CookID, v.CookName)
		r.Videos++
		r.Views += v.Views
		r.Likes += v.Likes
	}

	out := make([]CookReach, 0, len(order))
	for _, r := range order {
		r.Engagement = decimal.Zero
		if r.Views > 0 {
			r.Engagement = decimal.NewFromInt(r.Likes).Div(decimal.NewFromInt(r.Views)).Mul(hundred).Round(2)
		}
		out = append(out, *r)
	}
	slices.SortStableFunc(out, func(a, b CookReach) int {
		return cmp.Compare(b.Views, a.Views)
	})
	return out
}

func percent(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Div(decimal.NewFromInt(int64(total))).Mul(hundred).Round(2)
}
