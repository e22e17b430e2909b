package sources

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/lysyi3m/newswire/app/fetch"
	"github.com/lysyi3m/newswire/app/news"
)

// Twitter/X trending. Strategies in order of preference:
//  1. official API v2 recent search with bearer-token rotation
//  2. RSSHub trends route, gated on RSSHub Twitter credentials
//  3. Nitter mirror scrape
var (
	twitterAPIBaseURL = "https://api.twitter.com"

	nitterMirrors = []string{
		"https://nitter.poast.org",
		"https://nitter.privacydev.net",
		"https://xcancel.com",
		"https://nitter.net",
	}
)

const (
	twitterTitleLimit = 100
	nitterItemCap     = 10
)

type twitterTweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	AuthorID  string `json:"author_id"`
	CreatedAt string `json:"created_at"`
}

type twitterUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type twitterSearchResponse struct {
	Data     []twitterTweet `json:"data"`
	Includes struct {
		Users []twitterUser `json:"users"`
	} `json:"includes"`
}

type twitterSource struct {
	client *fetch.Client
	tokens *news.TokenPool
}

func newTwitterSource(client *fetch.Client) *twitterSource {
	return &twitterSource{
		client: client,
		tokens: news.NewTokenPoolFromEnv("TWITTER_BEARER_TOKEN"),
	}
}

func (s *twitterSource) trendingGetter() news.Getter {
	chain := &news.Chain{
		Source: "twitter",
		Strategies: []news.Strategy{
			{
				Name:  "twitter-api",
				Ready: func() bool { return s.tokens.Len() > 0 },
				Attempt: func(ctx context.Context) ([]news.NewsItem, error) {
					return s.fetchFromAPI(ctx, "lang:en -is:retweet")
				},
			},
			{
				Name:  "rsshub",
				Ready: hasRSSHubTwitterAuth,
				Attempt: func(ctx context.Context) ([]news.NewsItem, error) {
					return fetchRSSHub(ctx, s.client, "/twitter/trends/1", nitterItemCap)
				},
			},
			{
				Name: "nitter",
				Attempt: func(ctx context.Context) ([]news.NewsItem, error) {
					return s.fetchFromNitter(ctx)
				},
			},
		},
	}
	return chain.Getter()
}

// hasRSSHubTwitterAuth reports whether RSSHub's Twitter routes can be
// used: they need either an auth token cookie or a username/password
// pair configured on the deployment.
func hasRSSHubTwitterAuth() bool {
	if os.Getenv("TWITTER_AUTH_TOKEN") != "" {
		return true
	}
	return os.Getenv("TWITTER_USERNAME") != "" && os.Getenv("TWITTER_PASSWORD") != ""
}

// fetchFromAPI queries the v2 recent-search endpoint, rotating through
// the bearer-token pool. The cursor advances on every attempt whether
// it fails or not; the attempt budget equals the pool size.
func (s *twitterSource) fetchFromAPI(ctx context.Context, query string) ([]news.NewsItem, error) {
	retries := s.tokens.Len()
	if retries < 1 {
		return nil, news.NewFetchError(news.KindNotConfigured, fmt.Errorf("no bearer tokens available"))
	}

	var reasons []string
	for attempt := 0; attempt < retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		token := s.tokens.Next()

		params := url.Values{}
		params.Set("query", query)
		params.Set("max_results", "10")
		params.Set("tweet.fields", "created_at,author_id")
		params.Set("expansions", "author_id")
		params.Set("user.fields", "username,name")
		searchURL := twitterAPIBaseURL + "/2/tweets/search/recent?" + params.Encode()

		var resp twitterSearchResponse
		headers := map[string]string{"Authorization": "Bearer " + token}
		if err := s.client.GetJSON(ctx, searchURL, headers, &resp); err != nil {
			reasons = append(reasons, fmt.Sprintf("attempt %d: %v", attempt+1, err))
			continue
		}
		if len(resp.Data) == 0 {
			reasons = append(reasons, fmt.Sprintf("attempt %d: no tweets found", attempt+1))
			continue
		}

		return mapTweets(resp), nil
	}

	return nil, fmt.Errorf("twitter API failed after %d attempts: %s", retries, strings.Join(reasons, "; "))
}

func mapTweets(resp twitterSearchResponse) []news.NewsItem {
	users := make(map[string]twitterUser, len(resp.Includes.Users))
	for _, user := range resp.Includes.Users {
		users[user.ID] = user
	}

	items := make([]news.NewsItem, 0, len(resp.Data))
	for _, tweet := range resp.Data {
		username := "unknown"
		displayName := ""
		if user, ok := users[tweet.AuthorID]; ok {
			username = user.Username
			displayName = user.Name
		}
		if displayName == "" {
			displayName = username
		}

		item := news.NewsItem{
			ID:    tweet.ID,
			Title: truncate(tweet.Text, twitterTitleLimit),
			URL:   fmt.Sprintf("https://twitter.com/%s/status/%s", username, tweet.ID),
			Extra: news.Extra{Info: displayName, Hover: tweet.Text},
		}
		if tweet.CreatedAt != "" {
			if ts, err := time.Parse(time.RFC3339, tweet.CreatedAt); err == nil {
				item.PubDate = &ts
			}
		}

		items = append(items, item)
	}
	return items
}

// fetchFromNitter scrapes the trending search page of the first Nitter
// mirror that responds with tweets.
func (s *twitterSource) fetchFromNitter(ctx context.Context) ([]news.NewsItem, error) {
	var lastErr error

	for _, mirror := range nitterMirrors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageURL := mirror + "/search?f=tweets&q=%23trending"
		headers := map[string]string{"User-Agent": fetch.BrowserUserAgent}
		doc, err := s.client.Document(ctx, pageURL, headers)
		if err != nil {
			lastErr = err
			continue
		}

		items := parseNitterTimeline(doc)
		if len(items) > 0 {
			return items, nil
		}
		lastErr = news.NewFetchError(news.KindEmptyResult, fmt.Errorf("no tweets parsed from %s", mirror))
	}

	return nil, fmt.Errorf("all Nitter mirrors failed: %w", lastErr)
}

// parseNitterTimeline extracts tweets from a Nitter search page. An
// element missing its link or content text is skipped, not fatal;
// enumeration stops at the item cap.
func parseNitterTimeline(doc *goquery.Document) []news.NewsItem {
	var items []news.NewsItem

	doc.Find(".timeline-item").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if len(items) >= nitterItemCap {
			return false
		}

		tweetPath := sel.Find(".tweet-link").AttrOr("href", "")
		text := strings.TrimSpace(sel.Find(".tweet-content").Text())
		if tweetPath == "" || text == "" {
			return true
		}

		username := strings.TrimSpace(sel.Find(".username").Text())
		fullname := strings.TrimSpace(sel.Find(".fullname").Text())
		info := fullname
		if info == "" {
			info = username
		}

		items = append(items, news.NewsItem{
			ID:    tweetPath,
			Title: truncate(text, twitterTitleLimit),
			URL:   "https://twitter.com" + tweetPath,
			Extra: news.Extra{Info: info, Hover: text},
		})
		return true
	})

	return items
}
