// Package query filters recipe and video collections by free text and
// structured facets. Every function is pure: inputs are never mutated and
// results keep the input order.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/findosh/myrecipes/internal/models"
)

// Params is the parsed form of a search request. Empty fields don't filter.
type Params struct {
	Query      string   `json:"q,omitempty"`
	Category   string   `json:"category,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	Tags       []string `json:"tags,omitempty"`

	// Video-only facets.
	Premium *bool  `json:"premium,omitempty"`
	CookID  string `json:"cook,omitempty"`
}

// IsEmpty returns true when no stage would filter anything
func (p Params) IsEmpty() bool {
	return p.needle() == "" &&
		strings.TrimSpace(p.Category) == "" &&
		strings.TrimSpace(p.Difficulty) == "" &&
		len(p.tagNeedles()) == 0 &&
		p.Premium == nil &&
		strings.TrimSpace(p.CookID) == ""
}

// ParseParams reads q, category, difficulty, tags (comma separated),
// premium and cook. Malformed values degrade to "no filter".
func ParseParams(v url.Values) Params {
	p := Params{
		Query:      v.Get("q"),
		Category:   v.Get("category"),
		Difficulty: v.Get("difficulty"),
		CookID:     v.Get("cook"),
	}
	for _, raw := range v["tags"] {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				p.Tags = append(p.Tags, tag)
			}
		}
	}
	if raw := v.Get("premium"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			p.Premium = &b
		}
	}
	return p
}

// Recipes returns the recipes matching every stage of p, in input order.
// An empty query matches everything.
func Recipes(items []models.Recipe, p Params) []models.Recipe {
	needle := p.needle()
	tags := p.tagNeedles()
	out := make([]models.Recipe, 0, len(items))
	for i := range items {
		r := &items[i]
		if !recipeText(r, needle) {
			continue
		}
		if !equalFoldOrEmpty(p.Category, r.Category) || !equalFoldOrEmpty(p.Difficulty, string(r.Difficulty)) {
			continue
		}
		if !anyTag(r.Tags, tags) {
			continue
		}
		out = append(out, r.Clone())
	}
	return out
}

// Videos returns the lessons matching every stage of p, in input order
func Videos(items []models.VideoLesson, p Params) []models.VideoLesson {
	needle := p.needle()
	tags := p.tagNeedles()
	cook := strings.TrimSpace(p.CookID)
	out := make([]models.VideoLesson, 0, len(items))
	for i := range items {
		v := &items[i]
		if !videoText(v, needle) {
			continue
		}
		if !equalFoldOrEmpty(p.Category, v.Category) || !equalFoldOrEmpty(p.Difficulty, string(v.Difficulty)) {
			continue
		}
		if !anyTag(v.Tags, tags) {
			continue
		}
		if p.Premium != nil && v.IsPremium != *p.Premium {
			continue
		}
		if cook != "" && v.CookID != cook {
			continue
		}
		out = append(out, v.Clone())
	}
	return out
}

func (p Params) needle() string {
	return strings.ToLower(strings.TrimSpace(p.Query))
}

func (p Params) tagNeedles() []string {
	var out []string
	for _, t := range p.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func recipeText(r *models.Recipe, needle string) bool {
	if needle == "" {
		return true
	}
	return contains(r.Title, needle) ||
		contains(r.Description, needle) ||
		containsAny(r.Tags, needle) ||
		contains(r.Category, needle) ||
		containsAny(r.Ingredients, needle) ||
		containsAny(r.Instructions, needle)
}

func videoText(v *models.VideoLesson, needle string) bool {
	if needle == "" {
		return true
	}
	return contains(v.Title, needle) ||
		contains(v.Description, needle) ||
		containsAny(v.Tags, needle) ||
		contains(v.Category, needle) ||
		contains(v.CookName, needle)
}

// anyTag is OR across requested tags, substring against the item's tags
func anyTag(itemTags, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		if containsAny(itemTags, w) {
			return true
		}
	}
	return false
}

func equalFoldOrEmpty(want, have string) bool {
	want = strings.TrimSpace(want)
	return want == "" || strings.EqualFold(want, have)
}

// contains expects needle already lower-cased
func contains(field, needle string) bool {
	return strings.Contains(strings.ToLower(field), needle)
}

func containsAny(fields []string, needle string) bool {
	for _, f := range fields {
		if contains(f, needle) {
			return true
		}
	}
	return false
}
