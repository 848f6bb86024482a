package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/Srivathz/twitter-bookmark-manager/internal/db"
	"github.com/Srivathz/twitter-bookmark-manager/internal/twitter"
)

// Fetcher fetches one raw bookmarks page for a cursor ("" for the first page).
type Fetcher interface {
	Bookmarks(ctx context.Context, cursor string) (*twitter.BookmarksResponse, error)
}

// TweetStore is the bookmark repository the syncer writes to.
type TweetStore interface {
	LatestSyncedTweetID() (string, error)
	UpsertReturningNew(t *db.Tweet) (bool, error)
}

// StateStore mutates the singleton run record.
type StateStore interface {
	BeginRun(startedAt time.Time) (int64, error)
	SaveProgress(cursor string, added, updated int) error
	CompleteRun(cursor string, added, updated int, completedAt time.Time) error
	FailRun(errText string) error
}

// Syncer drives one fetch → parse → upsert pass over the bookmarks timeline.
// It assumes at most one active instance per storage backend; concurrent runs
// would race on the singleton run record and the marker read.
type Syncer struct {
	fetcher Fetcher
	tweets  TweetStore
	state   StateStore
}

func New(fetcher Fetcher, tweets TweetStore, state StateStore) *Syncer {
	return &Syncer{
		fetcher: fetcher,
		tweets:  tweets,
		state:   state,
	}
}

// Result summarizes one sync run. On failure the counters hold whatever had
// accumulated before the run aborted.
type Result struct {
	StartedAt    time.Time `json:"sync_started_at"`
	CompletedAt  time.Time `json:"sync_completed_at"`
	PagesFetched int       `json:"pages_fetched"`
	TotalFetched int       `json:"total_fetched"`
	Added        int       `json:"new_bookmarks"`
	Updated      int       `json:"updated_bookmarks"`
}

// Run performs one synchronization pass. Progress is committed after every
// page, so a crash costs at most one page of re-fetched work; the next run
// starts a fresh marker-based pass over whatever survived. A failure is
// recorded on the run record (best effort) before being returned; the partial
// Result is returned alongside it.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	result := &Result{StartedAt: time.Now()}

	err := s.run(ctx, result)
	if err != nil {
		// Best-effort capture; the original failure wins over a persistence
		// error here.
		_ = s.state.FailRun(err.Error())
		return result, err
	}

	return result, nil
}

func (s *Syncer) run(ctx context.Context, result *Result) error {
	// Marker snapshot, taken once before the run starts. Everything at or
	// past this bookmark was covered by earlier runs.
	marker, err := s.tweets.LatestSyncedTweetID()
	if err != nil {
		return fmt.Errorf("failed to read sync marker: %w", err)
	}

	batch, err := s.state.BeginRun(result.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to begin sync run: %w", err)
	}

	cursor := ""
	for {
		page, err := s.fetcher.Bookmarks(ctx, cursor)
		if err != nil {
			return fmt.Errorf("failed to fetch bookmarks page: %w", err)
		}

		tweets, nextCursor := twitter.ParsePage(page)

		// A repeating cursor means the API is serving the same page forever.
		// Stop before processing it; earlier pages already covered it.
		if cursor != "" && nextCursor != "" && cursor == nextCursor {
			break
		}

		result.PagesFetched++
		result.TotalFetched += len(tweets)

		for _, t := range tweets {
			if marker != "" && t.TweetID == marker {
				// Known territory from here on. Drop the rest of the page and
				// end the run after this commit, whatever the response says.
				nextCursor = ""
				break
			}
			if t.TweetID == "" {
				continue
			}

			isNew, err := s.tweets.UpsertReturningNew(&db.Tweet{
				TweetID:        t.TweetID,
				Text:           t.Text,
				AuthorID:       t.AuthorID,
				AuthorUsername: t.AuthorUsername,
				CreatedAt:      t.CreatedAt,
				HasMediaImage:  t.HasMediaImage,
				HasMediaVideo:  t.HasMediaVideo,
				URL:            t.URL,
				SourceJSON:     t.SourceJSON,
				SyncBatch:      batch,
			})
			if err != nil {
				return fmt.Errorf("failed to store bookmark %s: %w", t.TweetID, err)
			}
			if isNew {
				result.Added++
			} else {
				result.Updated++
			}
		}

		// Per-page commit: the crash-resume boundary.
		if err := s.state.SaveProgress(nextCursor, result.Added, result.Updated); err != nil {
			return fmt.Errorf("failed to save sync progress: %w", err)
		}

		if nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	result.CompletedAt = time.Now()
	if err := s.state.CompleteRun(cursor, result.Added, result.Updated, result.CompletedAt); err != nil {
		return fmt.Errorf("failed to complete sync run: %w", err)
	}
	return nil
}
