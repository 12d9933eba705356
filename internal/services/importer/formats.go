package importer

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/findosh/myrecipes/internal/models"
)

// columnFormat maps request fields to header names
type columnFormat struct {
	name     string
	required []string
	columns  map[string][]string // field -> accepted header names
}

// NewNativeFormat handles files exported with the API's own field names
func NewNativeFormat() Format {
	return &columnFormat{
		name:     "myrecipes",
		required: []string{"title", "cookingtime", "instructions"},
		columns: map[string][]string{
			"title":        {"title"},
			"description":  {"description"},
			"image":        {"image"},
			"cookingTime":  {"cookingtime"},
			"servings":     {"servings"},
			"ingredients":  {"ingredients"},
			"instructions": {"instructions"},
			"difficulty":   {"difficulty"},
			"category":     {"category"},
			"tags":         {"tags"},
		},
	}
}

// NewSpreadsheetFormat handles hand-kept recipe spreadsheets
func NewSpreadsheetFormat() Format {
	return &columnFormat{
		name:     "spreadsheet",
		required: []string{"name", "method"},
		columns: map[string][]string{
			"title":        {"name", "recipe"},
			"description":  {"summary", "notes"},
			"image":        {"photo", "picture"},
			"cookingTime":  {"minutes", "time", "total time"},
			"servings":     {"serves", "yield", "portions"},
			"ingredients":  {"ingredients"},
			"instructions": {"method", "directions", "steps"},
			"difficulty":   {"level", "skill"},
			"category":     {"course", "type"},
			"tags":         {"keywords", "labels"},
		},
	}
}

func (f *columnFormat) Name() string {
	return f.name
}

func (f *columnFormat) Detect(header []string) bool {
	for _, col := range f.required {
		if !slices.Contains(header, col) {
			return false
		}
	}
	return true
}

func (f *columnFormat) Parse(header, row []string) models.CreateRecipeRequest {
	get := func(field string) string {
		for _, name := range f.columns[field] {
			if i := slices.Index(header, name); i >= 0 && i < len(row) {
				return row[i]
			}
		}
		return ""
	}

	return models.CreateRecipeRequest{
		Title:        cleanText(get("title")),
		Description:  cleanText(get("description")),
		Image:        cleanText(get("image")),
		CookingTime:  parseCount(get("cookingTime")),
		Servings:     parseCount(get("servings")),
		Ingredients:  splitList(get("ingredients"), "|", ";"),
		Instructions: splitList(get("instructions"), "|"),
		Difficulty:   cleanText(get("difficulty")),
		Category:     titleCase(cleanText(get("category"))),
		Tags:         lowerAll(splitList(get("tags"), ",", ";", "|")),
	}
}

// titleCase makes "main course" match the stored "Main Course" facet
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func lowerAll(in []string) []string {
	for i, s := range in {
		in[i] = strings.ToLower(s)
	}
	return in
}
