package db

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tweets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tweet_id TEXT NOT NULL UNIQUE,
		text TEXT NOT NULL,
		author_id TEXT,
		author_username TEXT,
		created_at TEXT NOT NULL,
		bookmarked_at TIMESTAMP NOT NULL,
		is_read INTEGER NOT NULL DEFAULT 0,
		has_media_image INTEGER NOT NULL DEFAULT 0,
		has_media_video INTEGER NOT NULL DEFAULT 0,
		url TEXT,
		source_json TEXT,
		is_deleted INTEGER NOT NULL DEFAULT 0,
		inserted_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		sync_batch INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_tweets_tweet_id ON tweets(tweet_id);
	CREATE INDEX IF NOT EXISTS idx_tweets_sync_batch ON tweets(sync_batch);

	CREATE TABLE IF NOT EXISTS sync_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		sync_batch INTEGER NOT NULL DEFAULT 0,
		last_sync_started_at TIMESTAMP,
		last_sync_completed_at TIMESTAMP,
		last_error TEXT,
		page_cursor TEXT,
		bookmarks_added INTEGER NOT NULL DEFAULT 0,
		bookmarks_updated INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		is_deleted INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS tweet_categories (
		tweet_id INTEGER NOT NULL REFERENCES tweets(id),
		category_id INTEGER NOT NULL REFERENCES categories(id),
		added_at TIMESTAMP NOT NULL,
		PRIMARY KEY (tweet_id, category_id)
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Seed the singleton sync_state row so later updates can assume it exists.
	_, err := s.db.Exec(`INSERT OR IGNORE INTO sync_state (id) VALUES (1)`)
	return err
}

func (s *Store) DB() *sql.DB {
	return s.db
}
