package db

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestSyncStateSingleton(t *testing.T) {
	store := newTestStore(t)

	state, err := store.GetSyncState()
	if err != nil {
		t.Fatalf("Failed to get initial state: %v", err)
	}
	if state.SyncBatch != 0 || state.LastSyncStartedAt != nil {
		t.Errorf("Unexpected initial state: %+v", state)
	}

	// The CHECK constraint rejects a second row.
	if _, err := store.db.Exec(`INSERT INTO sync_state (id) VALUES (2)`); err == nil {
		t.Error("Expected the singleton constraint to reject id=2")
	}
}

func TestBeginRun(t *testing.T) {
	store := newTestStore(t)

	started := time.Now().Truncate(time.Second)
	batch, err := store.BeginRun(started)
	if err != nil {
		t.Fatalf("Failed to begin run: %v", err)
	}
	if batch != 1 {
		t.Errorf("Expected first batch to be 1, got %d", batch)
	}

	batch, err = store.BeginRun(started.Add(time.Minute))
	if err != nil {
		t.Fatalf("Failed to begin second run: %v", err)
	}
	if batch != 2 {
		t.Errorf("Expected batch to increment, got %d", batch)
	}

	state, _ := store.GetSyncState()
	if state.LastSyncStartedAt == nil {
		t.Fatal("Expected started_at to be set")
	}
	if state.LastSyncDoneAt != nil {
		t.Error("Expected completed_at cleared at run start")
	}
	if state.LastError != "" {
		t.Error("Expected last_error cleared at run start")
	}
}

func TestSaveProgressAndComplete(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.BeginRun(time.Now()); err != nil {
		t.Fatalf("Failed to begin run: %v", err)
	}

	if err := store.SaveProgress("CURSOR1", 5, 2); err != nil {
		t.Fatalf("Failed to save progress: %v", err)
	}
	state, _ := store.GetSyncState()
	if state.PageCursor != "CURSOR1" || state.BookmarksAdded != 5 || state.BookmarksUpdated != 2 {
		t.Errorf("Unexpected state after progress: %+v", state)
	}

	done := time.Now()
	if err := store.CompleteRun("CURSOR1", 7, 3, done); err != nil {
		t.Fatalf("Failed to complete run: %v", err)
	}
	state, _ = store.GetSyncState()
	if state.LastSyncDoneAt == nil {
		t.Error("Expected completed_at to be set")
	}
	if state.BookmarksAdded != 7 || state.BookmarksUpdated != 3 {
		t.Errorf("Unexpected final counters: %+v", state)
	}
}

func TestSaveProgressEmptyCursorStoresNull(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveProgress("CURSOR1", 1, 0); err != nil {
		t.Fatalf("Failed to save progress: %v", err)
	}
	if err := store.SaveProgress("", 1, 0); err != nil {
		t.Fatalf("Failed to save empty cursor: %v", err)
	}

	state, _ := store.GetSyncState()
	if state.PageCursor != "" {
		t.Errorf("Expected cursor cleared, got %q", state.PageCursor)
	}
}

func TestFailRunTruncatesError(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.BeginRun(time.Now()); err != nil {
		t.Fatalf("Failed to begin run: %v", err)
	}

	long := strings.Repeat("x", 5000)
	if err := store.FailRun(long); err != nil {
		t.Fatalf("Failed to fail run: %v", err)
	}

	state, _ := store.GetSyncState()
	if len(state.LastError) != 1000 {
		t.Errorf("Expected error truncated to 1000 bytes, got %d", len(state.LastError))
	}
	if state.LastSyncStartedAt == nil {
		t.Error("Expected started_at untouched by failure")
	}
	if state.LastSyncDoneAt != nil {
		t.Error("Expected completed_at unset on failure")
	}
}

func TestFailRunTruncatesOnRuneBoundary(t *testing.T) {
	store := newTestStore(t)

	// A two-byte rune straddling the byte limit must be dropped whole, not
	// split into an invalid trailing byte.
	long := strings.Repeat("x", 999) + "é" + strings.Repeat("x", 100)
	if err := store.FailRun(long); err != nil {
		t.Fatalf("Failed to fail run: %v", err)
	}

	state, _ := store.GetSyncState()
	if !utf8.ValidString(state.LastError) {
		t.Errorf("Expected valid UTF-8, got %q", state.LastError)
	}
	if len(state.LastError) != 999 {
		t.Errorf("Expected truncation before the split rune, got %d bytes", len(state.LastError))
	}
}
