package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// UpsertReturningNew inserts or updates a tweet keyed by its upstream tweet_id
// and reports whether it was a new insert. On update the text, media flags,
// url, raw payload and sync batch are refreshed and the soft-delete flag is
// cleared; bookmarked_at and inserted_at keep their original values.
func (s *Store) UpsertReturningNew(t *Tweet) (bool, error) {
	if t.TweetID == "" {
		return false, fmt.Errorf("tweet_id is empty")
	}

	now := time.Now()
	t.UpdatedAt = now

	var existingID int64
	err := s.db.QueryRow(`SELECT id FROM tweets WHERE tweet_id = ?`, t.TweetID).Scan(&existingID)
	isNew := errors.Is(err, sql.ErrNoRows)
	if err != nil && !isNew {
		return false, err
	}

	if !isNew {
		_, err := s.db.Exec(`
			UPDATE tweets SET
				text = ?,
				author_id = ?,
				author_username = ?,
				has_media_image = ?,
				has_media_video = ?,
				url = ?,
				source_json = ?,
				is_deleted = 0,
				updated_at = ?,
				sync_batch = ?
			WHERE tweet_id = ?`,
			t.Text, t.AuthorID, t.AuthorUsername, t.HasMediaImage, t.HasMediaVideo,
			t.URL, t.SourceJSON, t.UpdatedAt, t.SyncBatch, t.TweetID,
		)
		if err != nil {
			return false, err
		}
		t.ID = existingID
		return false, nil
	}

	if t.BookmarkedAt.IsZero() {
		t.BookmarkedAt = now
	}
	if t.InsertedAt.IsZero() {
		t.InsertedAt = now
	}
	if t.CreatedAt == "" {
		t.CreatedAt = now.Format(time.RFC3339)
	}

	res, err := s.db.Exec(`
		INSERT INTO tweets (tweet_id, text, author_id, author_username, created_at,
			bookmarked_at, is_read, has_media_image, has_media_video, url,
			source_json, is_deleted, inserted_at, updated_at, sync_batch)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?, 0, ?, ?, ?)`,
		t.TweetID, t.Text, t.AuthorID, t.AuthorUsername, t.CreatedAt,
		t.BookmarkedAt, t.HasMediaImage, t.HasMediaVideo, t.URL,
		t.SourceJSON, t.InsertedAt, t.UpdatedAt, t.SyncBatch,
	)
	if err != nil {
		return false, err
	}
	t.ID, err = res.LastInsertId()
	return true, err
}

// LatestSyncedTweetID returns the tweet_id of the newest already-synced
// bookmark, or "" when the store is empty. Newest means: highest sync batch,
// then earliest insertion within that batch (pages arrive newest-first, so the
// first row written in the latest batch is the most recent bookmark).
func (s *Store) LatestSyncedTweetID() (string, error) {
	var id string
	err := s.db.QueryRow(`
		SELECT tweet_id FROM tweets
		ORDER BY sync_batch DESC, inserted_at ASC
		LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}

const tweetColumns = `id, tweet_id, text, author_id, author_username, created_at,
	bookmarked_at, is_read, has_media_image, has_media_video, url,
	source_json, is_deleted, inserted_at, updated_at, sync_batch`

func scanTweet(row interface{ Scan(...any) error }) (Tweet, error) {
	var t Tweet
	var authorID, authorUsername, url, sourceJSON sql.NullString
	err := row.Scan(
		&t.ID, &t.TweetID, &t.Text, &authorID, &authorUsername, &t.CreatedAt,
		&t.BookmarkedAt, &t.IsRead, &t.HasMediaImage, &t.HasMediaVideo, &url,
		&sourceJSON, &t.IsDeleted, &t.InsertedAt, &t.UpdatedAt, &t.SyncBatch,
	)
	if err != nil {
		return Tweet{}, err
	}
	t.AuthorID = authorID.String
	t.AuthorUsername = authorUsername.String
	t.URL = url.String
	t.SourceJSON = sourceJSON.String
	return t, nil
}

func (s *Store) GetTweet(id int64) (*Tweet, error) {
	row := s.db.QueryRow(`SELECT `+tweetColumns+` FROM tweets WHERE id = ? AND is_deleted = 0`, id)
	t, err := scanTweet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bookmark %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) GetTweetByTweetID(tweetID string) (*Tweet, error) {
	row := s.db.QueryRow(`SELECT `+tweetColumns+` FROM tweets WHERE tweet_id = ?`, tweetID)
	t, err := scanTweet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bookmark %s: %w", tweetID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTweets returns non-deleted bookmarks sorted by created_at descending.
func (s *Store) ListTweets(skip, limit int) ([]Tweet, error) {
	rows, err := s.db.Query(`
		SELECT `+tweetColumns+` FROM tweets
		WHERE is_deleted = 0
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tweets []Tweet
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, t)
	}
	return tweets, rows.Err()
}

func (s *Store) CountTweets() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM tweets WHERE is_deleted = 0`).Scan(&count)
	return count, err
}

func (s *Store) SetTweetRead(id int64, isRead bool) error {
	res, err := s.db.Exec(`UPDATE tweets SET is_read = ?, updated_at = ? WHERE id = ? AND is_deleted = 0`,
		isRead, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("bookmark %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) GetStats() (*Stats, error) {
	var stats Stats
	counts := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM tweets WHERE is_deleted = 0`, &stats.TotalBookmarks},
		{`SELECT COUNT(*) FROM tweets WHERE is_deleted = 0 AND is_read = 1`, &stats.Read},
		{`SELECT COUNT(*) FROM tweets WHERE is_deleted = 0 AND has_media_image = 1`, &stats.WithImages},
		{`SELECT COUNT(*) FROM tweets WHERE is_deleted = 0 AND has_media_video = 1`, &stats.WithVideos},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query).Scan(c.dst); err != nil {
			return nil, err
		}
	}
	stats.Unread = stats.TotalBookmarks - stats.Read

	state, err := s.GetSyncState()
	if err != nil {
		return nil, err
	}
	stats.LastSyncStart = state.LastSyncStartedAt
	stats.LastSyncDone = state.LastSyncDoneAt
	stats.LastError = state.LastError

	return &stats, nil
}
