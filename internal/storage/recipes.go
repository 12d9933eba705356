package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/findosh/myrecipes/internal/models"
)

var _ RecipeRepository = (*SQLiteRecipeRepository)(nil)

// SQLiteRecipeRepository provides recipe data access
type SQLiteRecipeRepository struct {
	db *DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *DB) *SQLiteRecipeRepository {
	return &SQLiteRecipeRepository{db: db}
}

const recipeColumns = `id, title, description, image, cooking_time, servings,
	ingredients, instructions, difficulty, category, rating, tags`

// Create inserts a new recipe
func (r *SQLiteRecipeRepository) Create(ctx context.Context, recipe models.Recipe) error {
	ingredients, err := encodeList(recipe.Ingredients)
	if err != nil {
		return err
	}
	instructions, err := encodeList(recipe.Instructions)
	if err != nil {
		return err
	}
	tags, err := encodeList(recipe.Tags)
	if err != nil {
		return err
	}

	query := `INSERT INTO recipes (` + recipeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		recipe.ID,
		recipe.Title,
		recipe.Description,
		recipe.Image,
		recipe.CookingTime,
		recipe.Servings,
		ingredients,
		instructions,
		string(recipe.Difficulty),
		recipe.Category,
		recipe.Rating.String(),
		tags,
	)
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// GetByID retrieves a recipe by ID
func (r *SQLiteRecipeRepository) GetByID(ctx context.Context, id string) (models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = ?`
	recipe, err := scanRecipe(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return recipe, fmt.Errorf("recipe %q: %w", id, ErrNotFound)
	}
	return recipe, err
}

// List returns all recipes in insertion order
func (r *SQLiteRecipeRepository) List(ctx context.Context) ([]models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []models.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}

	return recipes, rows.Err()
}

func scanRecipe(row scanner) (models.Recipe, error) {
	var recipe models.Recipe
	var difficulty, rating, ingredients, instructions, tags string

	err := row.Scan(
		&recipe.ID, &recipe.Title, &recipe.Description, &recipe.Image,
		&recipe.CookingTime, &recipe.Servings,
		&ingredients, &instructions, &difficulty, &recipe.Category, &rating, &tags,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return recipe, err
		}
		return recipe, fmt.Errorf("failed to scan recipe: %w", err)
	}

	recipe.Difficulty = models.Difficulty(difficulty)
	if recipe.Rating, err = decimal.NewFromString(rating); err != nil {
		return recipe, fmt.Errorf("failed to parse rating: %w", err)
	}
	if recipe.Ingredients, err = decodeList(ingredients); err != nil {
		return recipe, err
	}
	if recipe.Instructions, err = decodeList(instructions); err != nil {
		return recipe, err
	}
	if recipe.Tags, err = decodeList(tags); err != nil {
		return recipe, err
	}
	return recipe, nil
}
