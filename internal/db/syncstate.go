package db

import (
	"database/sql"
	"time"
	"unicode/utf8"
)

// maxErrorLen bounds the error text persisted on the sync_state row.
const maxErrorLen = 1000

func (s *Store) GetSyncState() (*SyncState, error) {
	var st SyncState
	var startedAt, completedAt sql.NullTime
	var lastError, cursor sql.NullString
	err := s.db.QueryRow(`
		SELECT sync_batch, last_sync_started_at, last_sync_completed_at,
			last_error, page_cursor, bookmarks_added, bookmarks_updated
		FROM sync_state WHERE id = 1`).Scan(
		&st.SyncBatch, &startedAt, &completedAt,
		&lastError, &cursor, &st.BookmarksAdded, &st.BookmarksUpdated,
	)
	if err != nil {
		return nil, err
	}
	if startedAt.Valid {
		st.LastSyncStartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		st.LastSyncDoneAt = &completedAt.Time
	}
	st.LastError = lastError.String
	st.PageCursor = cursor.String
	return &st, nil
}

// BeginRun marks the singleton run record as started: it bumps the sync batch
// counter, records the start time, and clears the completion timestamp, error
// and counters from the previous run. Returns the new batch number.
func (s *Store) BeginRun(startedAt time.Time) (int64, error) {
	_, err := s.db.Exec(`
		UPDATE sync_state SET
			sync_batch = sync_batch + 1,
			last_sync_started_at = ?,
			last_sync_completed_at = NULL,
			last_error = NULL,
			bookmarks_added = 0,
			bookmarks_updated = 0
		WHERE id = 1`, startedAt)
	if err != nil {
		return 0, err
	}

	var batch int64
	err = s.db.QueryRow(`SELECT sync_batch FROM sync_state WHERE id = 1`).Scan(&batch)
	return batch, err
}

// SaveProgress persists the next-page cursor and running counters. This is the
// crash-resume boundary: everything committed before it survives a dead
// process.
func (s *Store) SaveProgress(cursor string, added, updated int) error {
	_, err := s.db.Exec(`
		UPDATE sync_state SET page_cursor = ?, bookmarks_added = ?, bookmarks_updated = ?
		WHERE id = 1`, nullString(cursor), added, updated)
	return err
}

func (s *Store) CompleteRun(cursor string, added, updated int, completedAt time.Time) error {
	_, err := s.db.Exec(`
		UPDATE sync_state SET
			last_sync_completed_at = ?,
			page_cursor = ?,
			bookmarks_added = ?,
			bookmarks_updated = ?
		WHERE id = 1`, completedAt, nullString(cursor), added, updated)
	return err
}

// FailRun records the error text on the run record, truncated to a fixed
// maximum without splitting a rune. started_at and the committed counters are
// left as they are; completed_at stays unset.
func (s *Store) FailRun(errText string) error {
	if len(errText) > maxErrorLen {
		cut := maxErrorLen
		for cut > 0 && !utf8.RuneStart(errText[cut]) {
			cut--
		}
		errText = errText[:cut]
	}
	_, err := s.db.Exec(`UPDATE sync_state SET last_error = ? WHERE id = 1`, errText)
	return err
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
