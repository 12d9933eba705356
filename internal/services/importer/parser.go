// Package importer handles bulk recipe import from CSV files
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/findosh/myrecipes/internal/models"
)

var (
	ErrUnknownFormat = errors.New("unknown CSV format")
	ErrEmptyFile     = errors.New("CSV file is empty")
	ErrNoData        = errors.New("no valid recipes found")
)

// Format is one recognised CSV layout
type Format interface {
	// Detect checks if this format handles the given header row
	Detect(header []string) bool

	// Parse turns one data row into a create request
	Parse(header, row []string) models.CreateRecipeRequest

	// Name returns the format name
	Name() string
}

// Creator stores a new recipe. catalog.Service satisfies it.
type Creator interface {
	CreateRecipe(ctx context.Context, req models.CreateRecipeRequest) (models.Recipe, error)
}

// ParseResult contains the result of parsing a CSV file
type ParseResult struct {
	Requests []models.CreateRecipeRequest
	Source   string
	Errors   []string
}

// ImportResult reports what an import stored
type ImportResult struct {
	Created []models.Recipe `json:"created"`
	Source  string          `json:"source"`
	Errors  []string        `json:"errors"`
}

// Service handles CSV import operations
type Service struct {
	formats []Format
	tagger  *Tagger
}

// NewService creates a new import service
func NewService() *Service {
	return &Service{
		formats: []Format{
			NewNativeFormat(),
			NewSpreadsheetFormat(),
		},
		tagger: NewTagger(),
	}
}

// ParseCSV auto-detects the layout and parses every row. Rows that fail
// validation are reported in Errors and skipped.
func (s *Service) ParseCSV(reader io.Reader) (*ParseResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	header := normalizeHeader(records[0])
	var format Format
	for _, f := range s.formats {
		if f.Detect(header) {
			format = f
			break
		}
	}
	if format == nil {
		return nil, ErrUnknownFormat
	}

	result := &ParseResult{Source: format.Name()}
	for i, row := range records[1:] {
		if isSkipRow(row) {
			continue
		}
		req := format.Parse(header, row)
		s.tagger.Tag(&req)
		if err := req.Validate(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		result.Requests = append(result.Requests, req)
	}

	if len(result.Requests) == 0 {
		return result, ErrNoData
	}
	return result, nil
}

// Import parses reader and creates every valid recipe through c
func (s *Service) Import(ctx context.Context, reader io.Reader, c Creator) (*ImportResult, error) {
	parsed, err := s.ParseCSV(reader)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Source: parsed.Source, Errors: parsed.Errors, Created: []models.Recipe{}}
	for _, req := range parsed.Requests {
		recipe, err := c.CreateRecipe(ctx, req)
		if err != nil {
			if errors.Is(err, models.ErrValidation) {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", req.Title, err))
				continue
			}
			return result, fmt.Errorf("failed to create recipe %q: %w", req.Title, err)
		}
		result.Created = append(result.Created, recipe)
	}
	return result, nil
}

func normalizeHeader(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
	}
	return out
}

func isSkipRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Helper functions for parsing values

// parseCount reads the leading integer of values like "25", "25 min" or
// "serves 4". Anything unreadable is 0 and fails validation later.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	start := strings.IndexFunc(s, unicode.IsDigit)
	if start < 0 {
		return 0
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0
	}
	return n
}

// splitList splits a cell holding several entries. Newlines and the given
// separators all delimit entries.
func splitList(s string, seps ...string) []string {
	for _, sep := range seps {
		s = strings.ReplaceAll(s, sep, "\n")
	}
	var out []string
	for _, part := range strings.Split(s, "\n") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

const maxTextBytes = 500

func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxTextBytes {
		return s
	}
	// cut on a rune boundary
	n := maxTextBytes
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
