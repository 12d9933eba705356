package query

import "github.com/findosh/myrecipes/internal/models"

// RecipeCategories returns distinct categories in first-seen order
func RecipeCategories(items []models.Recipe) []string {
	seen := newOrderedSet()
	for i := range items {
		seen.add(items[i].Category)
	}
	return seen.values
}

// RecipeTags returns distinct tags in first-seen order
func RecipeTags(items []models.Recipe) []string {
	seen := newOrderedSet()
	for i := range items {
		for _, t := range items[i].Tags {
			seen.add(t)
		}
	}
	return seen.values
}

// VideoCategories returns distinct video categories in first-seen order
func VideoCategories(items []models.VideoLesson) []string {
	seen := newOrderedSet()
	for i := range items {
		seen.add(items[i].Category)
	}
	return seen.values
}

type orderedSet struct {
	index  map[string]struct{}
	values []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: make(map[string]struct{}), values: []string{}}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.index[v]; ok {
		return
	}
	s.index[v] = struct{}{}
	s.values = append(s.values, v)
}
