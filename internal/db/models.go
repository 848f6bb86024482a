package db

import "time"

// Tweet is one bookmarked tweet. TweetID is the upstream identity; re-syncing
// a known TweetID updates the row in place.
type Tweet struct {
	ID             int64     `json:"id"`
	TweetID        string    `json:"tweet_id"`
	Text           string    `json:"text"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	CreatedAt      string    `json:"created_at"` // upstream timestamp, stored verbatim
	BookmarkedAt   time.Time `json:"bookmarked_at"`
	IsRead         bool      `json:"is_read"`
	HasMediaImage  bool      `json:"has_media_image"`
	HasMediaVideo  bool      `json:"has_media_video"`
	URL            string    `json:"url,omitempty"`
	SourceJSON     string    `json:"-"`
	IsDeleted      bool      `json:"-"`
	InsertedAt     time.Time `json:"inserted_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	SyncBatch      int64     `json:"-"`
}

// SyncState is the singleton row tracking the last run. The sync_batch counter
// increments once per run and tags every tweet touched by that run.
type SyncState struct {
	SyncBatch         int64      `json:"sync_batch"`
	LastSyncStartedAt *time.Time `json:"last_sync_started_at"`
	LastSyncDoneAt    *time.Time `json:"last_sync_completed_at"`
	LastError         string     `json:"last_error,omitempty"`
	PageCursor        string     `json:"page_cursor,omitempty"`
	BookmarksAdded    int        `json:"bookmarks_added"`
	BookmarksUpdated  int        `json:"bookmarks_updated"`
}

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsDeleted   bool      `json:"is_deleted"`
}

type Stats struct {
	TotalBookmarks int        `json:"total_bookmarks"`
	Read           int        `json:"read"`
	Unread         int        `json:"unread"`
	WithImages     int        `json:"with_images"`
	WithVideos     int        `json:"with_videos"`
	LastSyncStart  *time.Time `json:"last_sync_started"`
	LastSyncDone   *time.Time `json:"last_sync_completed"`
	LastError      string     `json:"last_error,omitempty"`
}
