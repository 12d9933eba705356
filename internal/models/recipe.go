// Package models defines core domain types
package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrValidation is wrapped by every request validation failure
var ErrValidation = errors.New("validation failed")

// Difficulty grades how demanding a recipe is
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// AllDifficulties returns recipe difficulties in display order
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ParseDifficulty matches a difficulty case-insensitively
func ParseDifficulty(s string) (Difficulty, bool) {
	for _, d := range AllDifficulties() {
		if strings.EqualFold(string(d), strings.TrimSpace(s)) {
			return d, true
		}
	}
	return "", false
}

// Recipe is a cookable dish with ordered ingredients and steps
type Recipe struct {
	ID           string          `json:"id" yaml:"id"`
	Title        string          `json:"title" yaml:"title"`
	Description  string          `json:"description" yaml:"description"`
	Image        string          `json:"image" yaml:"image"`
	CookingTime  int             `json:"cookingTime" yaml:"cookingTime"` // minutes
	Servings     int             `json:"servings" yaml:"servings"`
	Ingredients  []string        `json:"ingredients" yaml:"ingredients"`
	Instructions []string        `json:"instructions" yaml:"instructions"`
	Difficulty   Difficulty      `json:"difficulty" yaml:"difficulty"`
	Category     string          `json:"category" yaml:"category"`
	Rating       decimal.Decimal `json:"rating" yaml:"rating"`
	Tags         []string        `json:"tags" yaml:"tags"`
}

// Clone returns a deep copy so callers can't alias backing slices
func (r Recipe) Clone() Recipe {
	r.Ingredients = cloneStrings(r.Ingredients)
	r.Instructions = cloneStrings(r.Instructions)
	r.Tags = cloneStrings(r.Tags)
	return r
}

// StepCount returns the number of instructions
func (r *Recipe) StepCount() int {
	return len(r.Instructions)
}

// Defaults for fields a new recipe leaves blank
const (
	DefaultRecipeImage      = "/placeholder.svg?height=300&width=400"
	DefaultRecipeCategory   = "Main Course"
	DefaultRecipeDifficulty = DifficultyMedium
)

// DefaultRecipeRating is the rating every new recipe starts with
var DefaultRecipeRating = decimal.RequireFromString("4.5")

// CreateRecipeRequest carries the fields accepted when adding a recipe
type CreateRecipeRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Image        string   `json:"image,omitempty"`
	CookingTime  int      `json:"cookingTime"`
	Servings     int      `json:"servings"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Difficulty   string   `json:"difficulty,omitempty"`
	Category     string   `json:"category,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// Validate checks required fields
func (req *CreateRecipeRequest) Validate() error {
	var problems []string
	if strings.TrimSpace(req.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		problems = append(problems, "description is required")
	}
	if req.CookingTime <= 0 {
		problems = append(problems, "cookingTime must be positive")
	}
	if req.Servings <= 0 {
		problems = append(problems, "servings must be positive")
	}
	if len(nonBlank(req.Ingredients)) == 0 {
		problems = append(problems, "at least one ingredient is required")
	}
	if len(nonBlank(req.Instructions)) == 0 {
		problems = append(problems, "at least one instruction is required")
	}
	if req.Difficulty != "" {
		if _, ok := ParseDifficulty(req.Difficulty); !ok {
			problems = append(problems, fmt.Sprintf("unknown difficulty %q", req.Difficulty))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// NewRecipe builds a recipe from a validated request. The id is assigned by the caller.
func NewRecipe(id string, req CreateRecipeRequest) Recipe {
	difficulty, ok := ParseDifficulty(req.Difficulty)
	if !ok {
		difficulty = DefaultRecipeDifficulty
	}
	image := strings.TrimSpace(req.Image)
	if image == "" {
		image = DefaultRecipeImage
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = DefaultRecipeCategory
	}
	return Recipe{
		ID:           id,
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Image:        image,
		CookingTime:  req.CookingTime,
		Servings:     req.Servings,
		Ingredients:  nonBlank(req.Ingredients),
		Instructions: nonBlank(req.Instructions),
		Difficulty:   difficulty,
		Category:     category,
		Rating:       DefaultRecipeRating,
		Tags:         nonBlank(req.Tags),
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// nonBlank trims entries and drops empty ones, keeping order
func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
