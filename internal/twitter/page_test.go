package twitter

import (
	"encoding/json"
	"strings"
	"testing"
)

func decodePage(t *testing.T, doc string) *BookmarksResponse {
	t.Helper()
	var resp BookmarksResponse
	if err := json.Unmarshal([]byte(doc), &resp); err != nil {
		t.Fatalf("Failed to decode test page: %v", err)
	}
	return &resp
}

const fullPage = `{
  "data": {
    "bookmark_timeline_v2": {
      "timeline": {
        "instructions": [
          {"type": "TimelineClearCache"},
          {
            "type": "TimelineAddEntries",
            "entries": [
              {
                "entryId": "tweet-100",
                "content": {
                  "itemContent": {
                    "tweet_results": {
                      "result": {
                        "__typename": "Tweet",
                        "rest_id": "100",
                        "core": {"user_results": {"result": {"rest_id": "9", "core": {"screen_name": "alice"}}}},
                        "legacy": {
                          "full_text": "hello world",
                          "created_at": "Mon Jan 02 15:04:05 +0000 2006",
                          "entities": {"media": [{"type": "photo"}]}
                        }
                      }
                    }
                  }
                }
              },
              {
                "entryId": "tweet-101",
                "content": {
                  "itemContent": {
                    "tweet_results": {
                      "result": {"__typename": "TweetTombstone"}
                    }
                  }
                }
              },
              {
                "entryId": "promoted-tweet-102",
                "content": {}
              },
              {
                "entryId": "cursor-top-1",
                "content": {"cursorType": "Top", "value": "TOP_CURSOR"}
              },
              {
                "entryId": "cursor-bottom-1",
                "content": {"cursorType": "Bottom", "value": "BOTTOM_CURSOR"}
              }
            ]
          }
        ]
      }
    }
  }
}`

func TestParsePage(t *testing.T) {
	tweets, cursor := ParsePage(decodePage(t, fullPage))

	if len(tweets) != 1 {
		t.Fatalf("Expected 1 tweet, got %d", len(tweets))
	}
	if cursor != "BOTTOM_CURSOR" {
		t.Errorf("Expected bottom cursor, got %q", cursor)
	}

	tw := tweets[0]
	if tw.TweetID != "100" {
		t.Errorf("Expected tweet id 100, got %q", tw.TweetID)
	}
	if tw.Text != "hello world" {
		t.Errorf("Expected legacy text, got %q", tw.Text)
	}
	if tw.AuthorID != "9" || tw.AuthorUsername != "alice" {
		t.Errorf("Unexpected author: %q / %q", tw.AuthorID, tw.AuthorUsername)
	}
	if tw.CreatedAt != "Mon Jan 02 15:04:05 +0000 2006" {
		t.Errorf("Expected created_at kept verbatim, got %q", tw.CreatedAt)
	}
	if tw.URL != "https://x.com/alice/status/100" {
		t.Errorf("Unexpected url: %q", tw.URL)
	}
	if !tw.HasMediaImage || tw.HasMediaVideo {
		t.Errorf("Expected image-only media flags, got image=%t video=%t", tw.HasMediaImage, tw.HasMediaVideo)
	}
	if !strings.Contains(tw.SourceJSON, `"rest_id": "100"`) {
		t.Errorf("Expected source JSON to carry the raw result payload, got %q", tw.SourceJSON)
	}
}

func TestParsePageNoteTweetOverridesText(t *testing.T) {
	doc := `{
	  "data": {"bookmark_timeline_v2": {"timeline": {"instructions": [
	    {"type": "TimelineAddEntries", "entries": [
	      {"entryId": "tweet-1", "content": {"itemContent": {"tweet_results": {"result": {
	        "__typename": "Tweet",
	        "rest_id": "1",
	        "legacy": {"full_text": "short…"},
	        "note_tweet": {"note_tweet_results": {"result": {"text": "the complete long text"}}}
	      }}}}}
	    ]}
	  ]}}}
	}`

	tweets, _ := ParsePage(decodePage(t, doc))
	if len(tweets) != 1 {
		t.Fatalf("Expected 1 tweet, got %d", len(tweets))
	}
	if tweets[0].Text != "the complete long text" {
		t.Errorf("Expected note text to win, got %q", tweets[0].Text)
	}
}

func TestParsePageEmptyNoteKeepsLegacyText(t *testing.T) {
	doc := `{
	  "data": {"bookmark_timeline_v2": {"timeline": {"instructions": [
	    {"type": "TimelineAddEntries", "entries": [
	      {"entryId": "tweet-1", "content": {"itemContent": {"tweet_results": {"result": {
	        "__typename": "Tweet",
	        "rest_id": "1",
	        "legacy": {"full_text": "short"},
	        "note_tweet": {"note_tweet_results": {"result": {"text": ""}}}
	      }}}}}
	    ]}
	  ]}}}
	}`

	tweets, _ := ParsePage(decodePage(t, doc))
	if tweets[0].Text != "short" {
		t.Errorf("Expected legacy text when note text is empty, got %q", tweets[0].Text)
	}
}

func TestParsePageMediaFlags(t *testing.T) {
	tests := []struct {
		name      string
		media     string
		wantImage bool
		wantVideo bool
	}{
		{"photo and gif", `[{"type": "photo"}, {"type": "animated_gif"}]`, true, true},
		{"video only", `[{"type": "video"}]`, false, true},
		{"no media", `[]`, false, false},
		{"unknown type", `[{"type": "audio"}]`, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{
			  "data": {"bookmark_timeline_v2": {"timeline": {"instructions": [
			    {"type": "TimelineAddEntries", "entries": [
			      {"entryId": "tweet-1", "content": {"itemContent": {"tweet_results": {"result": {
			        "__typename": "Tweet",
			        "rest_id": "1",
			        "legacy": {"full_text": "x", "entities": {"media": ` + tt.media + `}}
			      }}}}}
			    ]}
			  ]}}}
			}`

			tweets, _ := ParsePage(decodePage(t, doc))
			if len(tweets) != 1 {
				t.Fatalf("Expected 1 tweet, got %d", len(tweets))
			}
			if tweets[0].HasMediaImage != tt.wantImage || tweets[0].HasMediaVideo != tt.wantVideo {
				t.Errorf("Got image=%t video=%t, want image=%t video=%t",
					tweets[0].HasMediaImage, tweets[0].HasMediaVideo, tt.wantImage, tt.wantVideo)
			}
		})
	}
}

func TestParsePagePrefersExtendedEntities(t *testing.T) {
	doc := `{
	  "data": {"bookmark_timeline_v2": {"timeline": {"instructions": [
	    {"type": "TimelineAddEntries", "entries": [
	      {"entryId": "tweet-1", "content": {"itemContent": {"tweet_results": {"result": {
	        "__typename": "Tweet",
	        "rest_id": "1",
	        "legacy": {
	          "full_text": "x",
	          "entities": {"media": [{"type": "photo"}]},
	          "extended_entities": {"media": [{"type": "video"}]}
	        }
	      }}}}}
	    ]}
	  ]}}}
	}`

	tweets, _ := ParsePage(decodePage(t, doc))
	if tweets[0].HasMediaImage {
		t.Error("Expected legacy entities to be ignored when extended_entities present")
	}
	if !tweets[0].HasMediaVideo {
		t.Error("Expected video flag from extended_entities")
	}
}

func TestParsePageSkipsMistypedEntry(t *testing.T) {
	// A numeric entryId fails that entry's decode; the rest of the page,
	// including the cursor, must survive.
	doc := `{
	  "data": {"bookmark_timeline_v2": {"timeline": {"instructions": [
	    {"type": "TimelineAddEntries", "entries": [
	      {"entryId": 123, "content": {}},
	      {"entryId": "tweet-1", "content": {"itemContent": {"tweet_results": {"result": {
	        "__typename": "Tweet",
	        "rest_id": "1",
	        "legacy": {"full_text": "ok"}
	      }}}}},
	      {"entryId": "cursor-bottom-1", "content": {"cursorType": "Bottom", "value": "NEXT"}}
	    ]}
	  ]}}}
	}`

	tweets, cursor := ParsePage(decodePage(t, doc))
	if len(tweets) != 1 || tweets[0].TweetID != "1" {
		t.Fatalf("Expected the well-formed tweet to survive, got %+v", tweets)
	}
	if cursor != "NEXT" {
		t.Errorf("Expected cursor honored, got %q", cursor)
	}
}

func TestParsePageFallsBackToLegacyMedia(t *testing.T) {
	doc := `{
	  "data": {"bookmark_timeline_v2": {"timeline": {"instructions": [
	    {"type": "TimelineAddEntries", "entries": [
	      {"entryId": "tweet-1", "content": {"itemContent": {"tweet_results": {"result": {
	        "__typename": "Tweet",
	        "rest_id": "1",
	        "legacy": {
	          "full_text": "x",
	          "entities": {"media": [{"type": "photo"}]},
	          "extended_entities": {}
	        }
	      }}}}}
	    ]}
	  ]}}}
	}`

	tweets, _ := ParsePage(decodePage(t, doc))
	if len(tweets) != 1 {
		t.Fatalf("Expected 1 tweet, got %d", len(tweets))
	}
	if !tweets[0].HasMediaImage {
		t.Error("Expected legacy media used when extended_entities has none")
	}
}

func TestParsePageURLRequiresHandleAndID(t *testing.T) {
	doc := `{
	  "data": {"bookmark_timeline_v2": {"timeline": {"instructions": [
	    {"type": "TimelineAddEntries", "entries": [
	      {"entryId": "tweet-1", "content": {"itemContent": {"tweet_results": {"result": {
	        "__typename": "Tweet",
	        "rest_id": "123",
	        "legacy": {"full_text": "x"}
	      }}}}}
	    ]}
	  ]}}}
	}`

	tweets, _ := ParsePage(decodePage(t, doc))
	if tweets[0].URL != "" {
		t.Errorf("Expected no url without author handle, got %q", tweets[0].URL)
	}
}

func TestParsePageTopCursorIgnored(t *testing.T) {
	doc := `{
	  "data": {"bookmark_timeline_v2": {"timeline": {"instructions": [
	    {"type": "TimelineAddEntries", "entries": [
	      {"entryId": "cursor-top-1", "content": {"cursorType": "Top", "value": "TOP"}}
	    ]}
	  ]}}}
	}`

	tweets, cursor := ParsePage(decodePage(t, doc))
	if len(tweets) != 0 || cursor != "" {
		t.Errorf("Expected empty page, got %d tweets and cursor %q", len(tweets), cursor)
	}
}

func TestParsePageTolerantOfGarbage(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty object", `{}`},
		{"missing timeline", `{"data": {}}`},
		{"mistyped entry content", `{
		  "data": {"bookmark_timeline_v2": {"timeline": {"instructions": [
		    {"type": "TimelineAddEntries", "entries": [
		      {"entryId": "tweet-1", "content": {"itemContent": {"tweet_results": {"result": "not an object"}}}}
		    ]}
		  ]}}}
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tweets, cursor := ParsePage(decodePage(t, tt.doc))
			if len(tweets) != 0 {
				t.Errorf("Expected no tweets, got %d", len(tweets))
			}
			if cursor != "" {
				t.Errorf("Expected no cursor, got %q", cursor)
			}
		})
	}
}

func TestParsePageNil(t *testing.T) {
	tweets, cursor := ParsePage(nil)
	if tweets != nil || cursor != "" {
		t.Errorf("Expected nothing from a nil page, got %v / %q", tweets, cursor)
	}
}
