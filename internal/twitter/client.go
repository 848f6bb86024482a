package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://x.com/i/api/graphql"

// featureFlags is the fixed feature bundle the bookmarks query expects; the
// endpoint rejects requests without it.
var featureFlags = map[string]bool{
	"rweb_video_screen_enabled":                                               false,
	"profile_label_improvements_pcf_label_in_post_enabled":                    true,
	"responsive_web_profile_redirect_enabled":                                 false,
	"rweb_tipjar_consumption_enabled":                                         true,
	"verified_phone_label_enabled":                                            true,
	"creator_subscriptions_tweet_preview_api_enabled":                         true,
	"responsive_web_graphql_timeline_navigation_enabled":                      true,
	"responsive_web_graphql_skip_user_profile_image_extensions_enabled":       false,
	"premium_content_api_read_enabled":                                        false,
	"communities_web_enable_tweet_community_results_fetch":                    true,
	"c9s_tweet_anatomy_moderator_badge_enabled":                               true,
	"responsive_web_grok_analyze_button_fetch_trends_enabled":                 false,
	"responsive_web_grok_analyze_post_followups_enabled":                      true,
	"responsive_web_jetfuel_frame":                                            true,
	"responsive_web_grok_share_attachment_enabled":                            true,
	"articles_preview_enabled":                                                true,
	"responsive_web_edit_tweet_api_enabled":                                   true,
	"graphql_is_translatable_rweb_tweet_is_translatable_enabled":              true,
	"view_counts_everywhere_api_enabled":                                      true,
	"longform_notetweets_consumption_enabled":                                 true,
	"responsive_web_twitter_article_tweet_consumption_enabled":                true,
	"tweet_awards_web_tipping_enabled":                                        false,
	"responsive_web_grok_show_grok_translated_post":                           false,
	"responsive_web_grok_analysis_button_from_backend":                        true,
	"creator_subscriptions_quote_tweet_preview_enabled":                       false,
	"freedom_of_speech_not_reach_fetch_enabled":                               true,
	"standardized_nudges_misinfo":                                             true,
	"tweet_with_visibility_results_prefer_gql_limited_actions_policy_enabled": true,
	"longform_notetweets_rich_text_read_enabled":                              true,
	"longform_notetweets_inline_media_enabled":                                true,
	"responsive_web_grok_image_annotation_enabled":                            true,
	"responsive_web_grok_imagine_annotation_enabled":                          true,
	"responsive_web_grok_community_note_auto_translation_is_enabled":          false,
	"responsive_web_enhance_cards_enabled":                                    false,
}

// Credentials are the opaque tokens a bookmarks request must carry.
type Credentials struct {
	BearerToken string
	CSRFToken   string
	Cookies     string
}

// Client fetches bookmark pages from the GraphQL API. It performs no retries;
// a non-success response fails the request.
type Client struct {
	baseURL  string
	queryID  string
	pageSize int
	creds    Credentials
	client   *http.Client
}

func NewClient(creds Credentials, queryID string, pageSize int) *Client {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Client{
		baseURL:  defaultBaseURL,
		queryID:  queryID,
		pageSize: pageSize,
		creds:    creds,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBaseURL overrides the API origin. Used by tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// Bookmarks fetches one page of bookmarks. The cursor is included only when
// non-empty; the first page is requested without one.
func (c *Client) Bookmarks(ctx context.Context, cursor string) (*BookmarksResponse, error) {
	variables := map[string]any{
		"count":                  fmt.Sprintf("%d", c.pageSize),
		"includePromotedContent": false,
	}
	if cursor != "" {
		variables["cursor"] = cursor
	}

	variablesJSON, err := json.Marshal(variables)
	if err != nil {
		return nil, err
	}
	featuresJSON, err := json.Marshal(featureFlags)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/%s/Bookmarks", c.baseURL, c.queryID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("variables", string(variablesJSON))
	q.Set("features", string(featuresJSON))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("authorization", "Bearer "+c.creds.BearerToken)
	req.Header.Set("x-csrf-token", c.creds.CSRFToken)
	req.Header.Set("Cookie", c.creds.Cookies)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bookmarks request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("bookmarks request returned status %d", resp.StatusCode)
	}

	var page BookmarksResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode bookmarks response: %w", err)
	}
	return &page, nil
}
