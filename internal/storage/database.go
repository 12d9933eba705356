// Package storage provides the recipe, video, cook, subscription and
// key-value stores in memory and SQLite flavors
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// New creates a new database connection
func New(databaseURL string) (*DB, error) {
	db, err := sql.Open("sqlite3", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &DB{db}, nil
}

// Migrate runs database migrations
func (db *DB) Migrate() error {
	migrations := []string{
		createRecipesTable,
		createVideosTable,
		createCooksTable,
		createSubscriptionsTable,
		createKVTable,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// seq preserves insertion order for List.
const createRecipesTable = `
CREATE TABLE IF NOT EXISTS recipes (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT UNIQUE NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	image TEXT NOT NULL,
	cooking_time INTEGER NOT NULL,
	servings INTEGER NOT NULL,
	ingredients TEXT NOT NULL,
	instructions TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	category TEXT NOT NULL,
	rating TEXT DEFAULT '0',
	tags TEXT NOT NULL
);
`

const createVideosTable = `
CREATE TABLE IF NOT EXISTS videos (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT UNIQUE NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	thumbnail TEXT NOT NULL,
	video_url TEXT NOT NULL,
	duration INTEGER NOT NULL,
	difficulty TEXT NOT NULL,
	category TEXT NOT NULL,
	tags TEXT NOT NULL,
	cook_id TEXT NOT NULL,
	cook_name TEXT NOT NULL,
	cook_avatar TEXT NOT NULL,
	is_premium INTEGER DEFAULT 0,
	views INTEGER DEFAULT 0,
	likes INTEGER DEFAULT 0,
	created_at TEXT NOT NULL,
	recipe_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_videos_cook_id ON videos(cook_id);
`

const createCooksTable = `
CREATE TABLE IF NOT EXISTS cooks (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT UNIQUE NOT NULL,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	avatar TEXT NOT NULL,
	bio TEXT NOT NULL,
	specialties TEXT NOT NULL,
	total_videos INTEGER DEFAULT 0,
	total_subscribers INTEGER DEFAULT 0,
	is_verified INTEGER DEFAULT 0,
	joined_at TEXT NOT NULL
);
`

const createSubscriptionsTable = `
CREATE TABLE IF NOT EXISTS subscriptions (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT UNIQUE NOT NULL,
	user_id TEXT NOT NULL,
	plan_id TEXT NOT NULL,
	status TEXT NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	cancel_at_period_end INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_subscriptions_user_id ON subscriptions(user_id);
`

const createKVTable = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// encodeList stores a string list as a JSON column
func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}
