package importer

import (
	"slices"
	"strings"

	"github.com/findosh/myrecipes/internal/models"
)

// Tagger fills in the category, difficulty and tags an imported recipe
// left blank
type Tagger struct {
	categories []keywordRule
	tags       []keywordRule
}

// keywordRule applies label when any keyword appears in the text
type keywordRule struct {
	label    string
	keywords []string
}

// NewTagger creates a new tagger with built-in classifications
func NewTagger() *Tagger {
	return &Tagger{
		// first match wins, so pancakes are breakfast before cake is dessert
		categories: []keywordRule{
			{"Breakfast", []string{"pancake", "waffle", "omelet", "omelette", "granola", "porridge", "french toast"}},
			{"Dessert", []string{"cookie", "cake", "brownie", "pie", "tart", "pudding", "ice cream", "pastry"}},
			{"Salad", []string{"salad", "slaw"}},
			{"Soup", []string{"soup", "stew", "chowder", "broth", "bisque"}},
			{"Bread", []string{"bread", "loaf", "focaccia", "baguette", "sourdough"}},
			{"Main Course", []string{"pasta", "risotto", "pizza", "curry", "roast", "steak", "chicken", "salmon", "burger", "lasagna", "tacos"}},
			{"Drinks", []string{"smoothie", "lemonade", "cocktail", "latte"}},
		},
		tags: []keywordRule{
			{"italian", []string{"pasta", "risotto", "pizza", "parmesan", "mozzarella", "lasagna", "carbonara", "pesto"}},
			{"mexican", []string{"taco", "tortilla", "salsa", "guacamole", "enchilada"}},
			{"asian", []string{"soy sauce", "ginger", "sesame", "stir-fry", "stir fry", "miso", "curry"}},
			{"baking", []string{"bake", "oven", "flour", "yeast"}},
			{"chocolate", []string{"chocolate", "cocoa"}},
			{"seafood", []string{"salmon", "shrimp", "prawn", "tuna", "cod", "mussel"}},
			{"spicy", []string{"chili", "chilli", "jalapeño", "jalapeno", "cayenne", "sriracha"}},
			{"healthy", []string{"salad", "quinoa", "kale", "steamed"}},
		},
	}
}

// meatWords rule out the vegetarian tag
var meatWords = []string{
	"chicken", "beef", "pork", "bacon", "pancetta", "ham", "lamb", "sausage",
	"turkey", "salmon", "shrimp", "tuna", "anchovy", "fish", "prawn", "cod", "guanciale",
}

// Tag classifies req in place. Fields that already hold a value are kept.
func (t *Tagger) Tag(req *models.CreateRecipeRequest) {
	title := strings.ToLower(req.Title)
	all := strings.ToLower(strings.Join([]string{
		req.Title,
		req.Description,
		strings.Join(req.Ingredients, " "),
		strings.Join(req.Instructions, " "),
	}, " "))

	if strings.TrimSpace(req.Category) == "" {
		// the title is the strongest signal; fall back to the whole text
		req.Category = t.detectCategory(title)
		if req.Category == "" {
			req.Category = t.detectCategory(all)
		}
	}

	if strings.TrimSpace(req.Difficulty) == "" {
		req.Difficulty = string(detectDifficulty(req.CookingTime, len(req.Instructions)))
	}

	if len(req.Tags) == 0 {
		req.Tags = t.detectTags(all)
	}
}

func (t *Tagger) detectCategory(text string) string {
	for _, rule := range t.categories {
		if rule.matches(text) {
			return rule.label
		}
	}
	return ""
}

func (t *Tagger) detectTags(text string) []string {
	var tags []string
	for _, rule := range t.tags {
		if rule.matches(text) {
			tags = append(tags, rule.label)
		}
	}
	if text != "" && !slices.ContainsFunc(meatWords, func(w string) bool { return strings.Contains(text, w) }) {
		tags = append(tags, "vegetarian")
	}
	return tags
}

// detectDifficulty grades by total time and number of steps
func detectDifficulty(minutes, steps int) models.Difficulty {
	switch {
	case minutes <= 30 && steps <= 6:
		return models.DifficultyEasy
	case minutes <= 90 && steps <= 12:
		return models.DifficultyMedium
	default:
		return models.DifficultyHard
	}
}

func (r keywordRule) matches(text string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
