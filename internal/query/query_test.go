package query

import (
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/findosh/myrecipes/internal/models"
	"github.com/shopspring/decimal"
)

func testRecipes() []models.Recipe {
	return []models.Recipe{
		{
			ID: "1", Title: "Classic Chocolate Chip Cookies", Description: "Soft and chewy cookies",
			Category: "Dessert", Difficulty: models.DifficultyEasy, Rating: decimal.RequireFromString("4.8"),
			Tags:         []string{"cookies", "dessert", "chocolate", "baking"},
			Ingredients:  []string{"2 cups flour", "2 cups chocolate chips"},
			Instructions: []string{"Preheat oven to 375°F.", "Bake for 9-11 minutes."},
		},
		{
			ID: "2", Title: "Creamy Mushroom Risotto", Description: "Rich Italian risotto",
			Category: "Main Course", Difficulty: models.DifficultyMedium,
			Tags:         []string{"risotto", "italian", "mushroom", "creamy"},
			Ingredients:  []string{"1½ cups Arborio rice", "1 lb mixed mushrooms"},
			Instructions: []string{"Sauté mushrooms.", "Add broth slowly."},
		},
		{
			ID: "3", Title: "Fresh Garden Salad", Description: "A vibrant salad",
			Category: "Salad", Difficulty: models.DifficultyEasy,
			Tags:         []string{"salad", "healthy", "fresh", "vegetarian"},
			Ingredients:  []string{"6 cups mixed salad greens"},
			Instructions: []string{"Toss gently."},
		},
		{
			ID: "4", Title: "Creamy Carbonara Pasta", Description: "Authentic Italian carbonara",
			Category: "Main Course", Difficulty: models.DifficultyMedium,
			Tags:         []string{"pasta", "italian", "carbonara", "quick"},
			Ingredients:  []string{"400g spaghetti", "4 large eggs"},
			Instructions: []string{"Boil pasta.", "Whisk eggs and cheese."},
		},
		{
			ID: "5", Title: "Margherita Pizza", Description: "Classic Neapolitan pizza",
			Category: "Main Course", Difficulty: models.DifficultyMedium,
			Tags:         []string{"pizza", "italian", "margherita", "homemade"},
			Ingredients:  []string{"1 pizza dough ball", "Fresh basil leaves"},
			Instructions: []string{"Preheat oven to 500°F.", "Bake for 10-12 minutes."},
		},
	}
}

func testVideos() []models.VideoLesson {
	return []models.VideoLesson{
		{ID: "1", Title: "Perfect Pasta Carbonara Technique", Category: "Italian Cuisine", Difficulty: models.SkillIntermediate,
			Tags: []string{"pasta", "italian"}, CookID: "cook1", CookName: "Chef Marco Romano", IsPremium: true},
		{ID: "2", Title: "Knife Skills Masterclass", Category: "Cooking Basics", Difficulty: models.SkillBeginner,
			Tags: []string{"knife skills", "basics"}, CookID: "cook2", CookName: "Chef Sarah Johnson"},
		{ID: "3", Title: "Advanced Bread Making Techniques", Category: "Baking", Difficulty: models.SkillAdvanced,
			Tags: []string{"bread", "baking"}, CookID: "cook3", CookName: "Chef David Baker", IsPremium: true},
		{ID: "4", Title: "Quick Weeknight Stir-Fry", Category: "Quick Meals", Difficulty: models.SkillBeginner,
			Tags: []string{"stir-fry", "quick"}, CookID: "cook2", CookName: "Chef Sarah Johnson"},
	}
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

func recipeIDs(rs []models.Recipe) []string {
	return ids(rs, func(r models.Recipe) string { return r.ID })
}

func videoIDs(vs []models.VideoLesson) []string {
	return ids(vs, func(v models.VideoLesson) string { return v.ID })
}

func TestRecipes_EmptyQueryIsIdentity(t *testing.T) {
	data := testRecipes()

	for _, q := range []string{"", "   ", "\t"} {
		got := Recipes(data, Params{Query: q})
		if !reflect.DeepEqual(got, data) {
			t.Errorf("Expected full dataset for query %q, got %v", q, recipeIDs(got))
		}
	}
}

func TestRecipes_TitleSubstringsAlwaysMatch(t *testing.T) {
	data := testRecipes()

	for _, r := range data {
		title := strings.ToUpper(r.Title)
		for size := 1; size <= 4; size++ {
			for start := 0; start+size <= len(title); start++ {
				got := recipeIDs(Recipes(data, Params{Query: title[start : start+size]}))
				found := false
				for _, id := range got {
					if id == r.ID {
						found = true
						break
					}
				}
				if !found {
					t.Fatalf("Expected %q to match recipe %s", title[start:start+size], r.ID)
				}
			}
		}
	}
}

func TestRecipes_EndToEnd(t *testing.T) {
	data := testRecipes()

	got := recipeIDs(Recipes(data, Params{Query: "chocolate"}))
	if !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("Expected only the cookie recipe, got %v", got)
	}

	got = recipeIDs(Recipes(data, Params{Category: "Main Course"}))
	if !reflect.DeepEqual(got, []string{"2", "4", "5"}) {
		t.Errorf("Expected main courses in order, got %v", got)
	}
}

func TestRecipes_SearchesEveryField(t *testing.T) {
	data := testRecipes()

	tests := []struct {
		query    string
		expected []string
	}{
		{"neapolitan", []string{"5"}},        // description
		{"vegetarian", []string{"3"}},        // tag
		{"salad", []string{"3"}},             // title, category, ingredient
		{"arborio", []string{"2"}},           // ingredient
		{"preheat oven", []string{"1", "5"}}, // instruction
		{"ITALIAN", []string{"2", "4", "5"}},
		{"  Creamy  ", []string{"2", "4"}},
		{"sushi", []string{}},
	}

	for _, tt := range tests {
		got := recipeIDs(Recipes(data, Params{Query: tt.query}))
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("Query %q: expected %v, got %v", tt.query, tt.expected, got)
		}
	}
}

func TestRecipes_FacetsAreANDed(t *testing.T) {
	data := testRecipes()

	tests := []struct {
		name     string
		params   Params
		expected []string
	}{
		{"difficulty case-insensitive", Params{Difficulty: "easy"}, []string{"1", "3"}},
		{"category exact not substring", Params{Category: "main"}, []string{}},
		{"category and query", Params{Category: "main course", Query: "pizza"}, []string{"5"}},
		{"difficulty and category", Params{Category: "Dessert", Difficulty: "Medium"}, []string{}},
		{"tag substring", Params{Tags: []string{"ital"}}, []string{"2", "4", "5"}},
		{"tags are ORed", Params{Tags: []string{"pizza", "cookie"}}, []string{"1", "5"}},
		{"blank tags ignored", Params{Tags: []string{" ", ""}}, []string{"1", "2", "3", "4", "5"}},
		{"all stages", Params{Query: "oven", Difficulty: "MEDIUM", Tags: []string{"home"}}, []string{"5"}},
	}

	for _, tt := range tests {
		got := recipeIDs(Recipes(data, tt.params))
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, got)
		}
	}
}

func TestRecipes_FilterIsIdempotent(t *testing.T) {
	data := testRecipes()

	for _, p := range []Params{{Category: "Main Course"}, {Difficulty: "Easy"}} {
		once := Recipes(data, p)
		twice := Recipes(once, p)
		if !reflect.DeepEqual(recipeIDs(once), recipeIDs(twice)) {
			t.Errorf("Expected idempotent filter for %+v: %v vs %v", p, recipeIDs(once), recipeIDs(twice))
		}
	}
}

func TestRecipes_AddingTagNeverDropsMatch(t *testing.T) {
	data := testRecipes()

	narrow := recipeIDs(Recipes(data, Params{Tags: []string{"dessert"}}))
	wide := recipeIDs(Recipes(data, Params{Tags: []string{"dessert", "zzz"}}))

	for _, id := range narrow {
		found := false
		for _, w := range wide {
			if w == id {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected recipe %s to survive an extra requested tag", id)
		}
	}
}

func TestRecipes_DoesNotMutateInput(t *testing.T) {
	data := testRecipes()
	before := testRecipes()

	got := Recipes(data, Params{Query: "pasta"})
	got[0].Title = "changed"
	got[0].Tags[0] = "changed"

	if !reflect.DeepEqual(data, before) {
		t.Error("Expected input dataset to be untouched")
	}
}

func TestVideos_Filters(t *testing.T) {
	data := testVideos()
	yes, no := true, false

	tests := []struct {
		name     string
		params   Params
		expected []string
	}{
		{"empty", Params{}, []string{"1", "2", "3", "4"}},
		{"cook name", Params{Query: "sarah"}, []string{"2", "4"}},
		{"title", Params{Query: "technique"}, []string{"1", "3"}},
		{"category", Params{Category: "baking"}, []string{"3"}},
		{"difficulty", Params{Difficulty: "beginner"}, []string{"2", "4"}},
		{"tag", Params{Tags: []string{"skills"}}, []string{"2"}},
		{"premium only", Params{Premium: &yes}, []string{"1", "3"}},
		{"free only", Params{Premium: &no}, []string{"2", "4"}},
		{"by cook", Params{CookID: "cook2", Query: "quick"}, []string{"4"}},
	}

	for _, tt := range tests {
		got := videoIDs(Videos(data, tt.params))
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, got)
		}
	}
}

func TestParseParams(t *testing.T) {
	v := url.Values{}
	v.Set("q", "pasta")
	v.Set("category", "Main Course")
	v.Set("difficulty", "Medium")
	v.Add("tags", "italian, quick,,")
	v.Add("tags", "creamy")
	v.Set("premium", "not-a-bool")
	v.Set("cook", "cook1")

	p := ParseParams(v)

	if p.Query != "pasta" || p.Category != "Main Course" || p.Difficulty != "Medium" || p.CookID != "cook1" {
		t.Errorf("Unexpected scalar params: %+v", p)
	}
	if !reflect.DeepEqual(p.Tags, []string{"italian", "quick", "creamy"}) {
		t.Errorf("Expected split tags, got %v", p.Tags)
	}
	if p.Premium != nil {
		t.Error("Expected malformed premium to be ignored")
	}

	v.Set("premium", "true")
	if p := ParseParams(v); p.Premium == nil || !*p.Premium {
		t.Error("Expected premium=true to parse")
	}

	if !ParseParams(url.Values{}).IsEmpty() {
		t.Error("Expected empty values to produce empty params")
	}
}

func TestFacets(t *testing.T) {
	data := testRecipes()

	cats := RecipeCategories(data)
	if !reflect.DeepEqual(cats, []string{"Dessert", "Main Course", "Salad"}) {
		t.Errorf("Unexpected categories %v", cats)
	}

	tags := RecipeTags(data)
	if len(tags) != 18 || tags[0] != "cookies" {
		t.Errorf("Unexpected tags %v", tags)
	}

	vcats := VideoCategories(testVideos())
	if len(vcats) != 4 {
		t.Errorf("Expected 4 video categories, got %v", vcats)
	}

	if got := RecipeCategories(nil); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", got)
	}
}
