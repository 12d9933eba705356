package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/findosh/myrecipes/internal/models"
)

var (
	_ VideoRepository = (*SQLiteVideoRepository)(nil)
	_ CookRepository  = (*SQLiteCookRepository)(nil)
)

// SQLiteVideoRepository provides video lesson data access
type SQLiteVideoRepository struct {
	db *DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *DB) *SQLiteVideoRepository {
	return &SQLiteVideoRepository{db: db}
}

const videoColumns = `id, title, description, thumbnail, video_url, duration, difficulty,
	category, tags, cook_id, cook_name, cook_avatar, is_premium, views, likes, created_at, recipe_id`

// Create inserts a new video lesson
func (r *SQLiteVideoRepository) Create(ctx context.Context, v models.VideoLesson) error {
	tags, err := encodeList(v.Tags)
	if err != nil {
		return err
	}

	var recipeID sql.NullString
	if v.RecipeID != "" {
		recipeID = sql.NullString{String: v.RecipeID, Valid: true}
	}

	query := `INSERT INTO videos (` + videoColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		v.ID,
		v.Title,
		v.Description,
		v.Thumbnail,
		v.VideoURL,
		v.Duration,
		string(v.Difficulty),
		v.Category,
		tags,
		v.CookID,
		v.CookName,
		v.CookAvatar,
		v.IsPremium,
		v.Views,
		v.Likes,
		v.CreatedAt,
		recipeID,
	)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

// GetByID retrieves a video lesson by ID
func (r *SQLiteVideoRepository) GetByID(ctx context.Context, id string) (models.VideoLesson, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = ?`
	v, err := scanVideo(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return v, fmt.Errorf("video %q: %w", id, ErrNotFound)
	}
	return v, err
}

// List returns all video lessons in insertion order
func (r *SQLiteVideoRepository) List(ctx context.Context) ([]models.VideoLesson, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+videoColumns+` FROM videos ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []models.VideoLesson{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func scanVideo(row scanner) (models.VideoLesson, error) {
	var v models.VideoLesson
	var difficulty, tags string
	var recipeID sql.NullString

	err := row.Scan(
		&v.ID, &v.Title, &v.Description, &v.Thumbnail, &v.VideoURL, &v.Duration, &difficulty,
		&v.Category, &tags, &v.CookID, &v.CookName, &v.CookAvatar, &v.IsPremium,
		&v.Views, &v.Likes, &v.CreatedAt, &recipeID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return v, err
		}
		return v, fmt.Errorf("failed to scan video: %w", err)
	}

	v.Difficulty = models.SkillLevel(difficulty)
	v.RecipeID = recipeID.String
	if v.Tags, err = decodeList(tags); err != nil {
		return v, err
	}
	return v, nil
}

// SQLiteCookRepository provides cook profile data access
type SQLiteCookRepository struct {
	db *DB
}

// NewCookRepository creates a new cook repository
func NewCookRepository(db *DB) *SQLiteCookRepository {
	return &SQLiteCookRepository{db: db}
}

const cookColumns = `id, name, email, avatar, bio, specialties,
	total_videos, total_subscribers, is_verified, joined_at`

// Create inserts a cook profile
func (r *SQLiteCookRepository) Create(ctx context.Context, c models.Cook) error {
	specialties, err := encodeList(c.Specialties)
	if err != nil {
		return err
	}
	query := `INSERT INTO cooks (` + cookColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.Avatar, c.Bio, specialties,
		c.TotalVideos, c.TotalSubscribers, c.IsVerified, c.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create cook: %w", err)
	}
	return nil
}

// GetByID retrieves a cook by ID
func (r *SQLiteCookRepository) GetByID(ctx context.Context, id string) (models.Cook, error) {
	c, err := scanCook(r.db.QueryRowContext(ctx, `SELECT `+cookColumns+` FROM cooks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("cook %q: %w", id, ErrNotFound)
	}
	return c, err
}

// List returns all cooks in insertion order
func (r *SQLiteCookRepository) List(ctx context.Context) ([]models.Cook, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+cookColumns+` FROM cooks ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cooks := []models.Cook{}
	for rows.Next() {
		c, err := scanCook(rows)
		if err != nil {
			return nil, err
		}
		cooks = append(cooks, c)
	}
	return cooks, rows.Err()
}

func scanCook(row scanner) (models.Cook, error) {
	var c models.Cook
	var specialties string

	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Avatar, &c.Bio, &specialties,
		&c.TotalVideos, &c.TotalSubscribers, &c.IsVerified, &c.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("failed to scan cook: %w", err)
	}
	if c.Specialties, err = decodeList(specialties); err != nil {
		return c, err
	}
	return c, nil
}
