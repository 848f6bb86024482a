package twitter

import (
	"encoding/json"
	"strings"
)

// tweetOrigin is the site the canonical bookmark URL points at.
const tweetOrigin = "https://x.com"

// BookmarksResponse holds one bookmarks page document verbatim. The document
// is only interpreted in ParsePage, instruction by instruction and entry by
// entry, so a mistyped substructure costs that element alone instead of
// failing the whole page.
type BookmarksResponse struct {
	raw json.RawMessage
}

func (r *BookmarksResponse) UnmarshalJSON(data []byte) error {
	r.raw = append(r.raw[:0], data...)
	return nil
}

type timelineDocument struct {
	Data struct {
		BookmarkTimelineV2 struct {
			Timeline struct {
				Instructions []json.RawMessage `json:"instructions"`
			} `json:"timeline"`
		} `json:"bookmark_timeline_v2"`
	} `json:"data"`
}

type instruction struct {
	Type    string            `json:"type"`
	Entries []json.RawMessage `json:"entries"`
}

type entry struct {
	EntryID string       `json:"entryId"`
	Content entryContent `json:"content"`
}

// entryContent carries either a cursor (CursorType/Value) or a timeline item
// (ItemContent), depending on the entry id prefix.
type entryContent struct {
	CursorType  string       `json:"cursorType"`
	Value       string       `json:"value"`
	ItemContent *itemContent `json:"itemContent"`
}

type itemContent struct {
	TweetResults tweetResults `json:"tweet_results"`
}

// tweetResults keeps the raw result payload so it can be stored verbatim;
// typed access goes through extractTweet.
type tweetResults struct {
	Result json.RawMessage `json:"result"`
}

type tweetResult struct {
	TypeName string `json:"__typename"`
	RestID   string `json:"rest_id"`
	Core     struct {
		UserResults struct {
			Result userResult `json:"result"`
		} `json:"user_results"`
	} `json:"core"`
	Legacy    tweetLegacy `json:"legacy"`
	NoteTweet *struct {
		NoteTweetResults struct {
			Result struct {
				Text string `json:"text"`
			} `json:"result"`
		} `json:"note_tweet_results"`
	} `json:"note_tweet"`
}

type userResult struct {
	RestID string `json:"rest_id"`
	Core   struct {
		ScreenName string `json:"screen_name"`
	} `json:"core"`
}

type tweetLegacy struct {
	FullText         string    `json:"full_text"`
	CreatedAt        string    `json:"created_at"`
	Entities         entities  `json:"entities"`
	ExtendedEntities *entities `json:"extended_entities"`
}

type entities struct {
	Media []mediaItem `json:"media"`
}

type mediaItem struct {
	Type string `json:"type"`
}

// Tweet is one normalized bookmark record extracted from a page.
type Tweet struct {
	TweetID        string
	Text           string
	AuthorID       string
	AuthorUsername string
	CreatedAt      string
	HasMediaImage  bool
	HasMediaVideo  bool
	URL            string
	SourceJSON     string
}

// ParsePage flattens one raw bookmarks page into tweet records plus the
// bottom-cursor for the next page ("" when the page claims no more). Entries
// that are not plain tweets (ads, deleted/withheld placeholders) or that do
// not decode are skipped silently; a document with no recognizable timeline
// yields no records and no cursor.
func ParsePage(resp *BookmarksResponse) ([]Tweet, string) {
	var tweets []Tweet
	var nextCursor string

	if resp == nil || len(resp.raw) == 0 {
		return nil, ""
	}

	var doc timelineDocument
	if err := json.Unmarshal(resp.raw, &doc); err != nil {
		return nil, ""
	}

	for _, rawInst := range doc.Data.BookmarkTimelineV2.Timeline.Instructions {
		var inst instruction
		if err := json.Unmarshal(rawInst, &inst); err != nil || inst.Type != "TimelineAddEntries" {
			continue
		}

		for _, rawEntry := range inst.Entries {
			var e entry
			if err := json.Unmarshal(rawEntry, &e); err != nil {
				continue
			}

			switch {
			case strings.HasPrefix(e.EntryID, "cursor-bottom"):
				if e.Content.CursorType == "Bottom" {
					nextCursor = e.Content.Value
				}

			case strings.HasPrefix(e.EntryID, "tweet-"):
				if e.Content.ItemContent == nil {
					continue
				}
				if t, ok := extractTweet(e.Content.ItemContent.TweetResults.Result); ok {
					tweets = append(tweets, t)
				}
			}
		}
	}

	return tweets, nextCursor
}

// extractTweet decodes one raw tweet result. Only the plain Tweet variant is
// accepted; anything else (TweetTombstone, TweetWithVisibilityResults, ...) is
// dropped.
func extractTweet(raw json.RawMessage) (Tweet, bool) {
	if len(raw) == 0 {
		return Tweet{}, false
	}

	var result tweetResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return Tweet{}, false
	}
	if result.TypeName != "Tweet" {
		return Tweet{}, false
	}

	user := result.Core.UserResults.Result

	t := Tweet{
		TweetID:        result.RestID,
		Text:           result.Legacy.FullText,
		AuthorID:       user.RestID,
		AuthorUsername: user.Core.ScreenName,
		CreatedAt:      result.Legacy.CreatedAt,
		SourceJSON:     string(raw),
	}

	// Long posts are truncated in full_text; the note tweet carries the
	// complete text.
	if result.NoteTweet != nil {
		if note := result.NoteTweet.NoteTweetResults.Result.Text; note != "" {
			t.Text = note
		}
	}

	media := result.Legacy.Entities.Media
	if result.Legacy.ExtendedEntities != nil && len(result.Legacy.ExtendedEntities.Media) > 0 {
		media = result.Legacy.ExtendedEntities.Media
	}
	for _, m := range media {
		switch m.Type {
		case "photo":
			t.HasMediaImage = true
		case "video", "animated_gif":
			t.HasMediaVideo = true
		}
	}

	if t.AuthorUsername != "" && t.TweetID != "" {
		t.URL = tweetOrigin + "/" + t.AuthorUsername + "/status/" + t.TweetID
	}

	return t, true
}
