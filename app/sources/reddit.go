package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/lysyi3m/newswire/app/fetch"
	"github.com/lysyi3m/newswire/app/news"
)

// redditBaseURL is a package variable so tests can point the getter at
// a local server.
var redditBaseURL = "https://www.reddit.com"

type redditPost struct {
	Data struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		Permalink   string  `json:"permalink"`
		Subreddit   string  `json:"subreddit"`
		Selftext    string  `json:"selftext"`
		Thumbnail   string  `json:"thumbnail"`
		CreatedUTC  float64 `json:"created_utc"`
		Score       int     `json:"score"`
		NumComments int     `json:"num_comments"`
		Preview     *struct {
			Images []struct {
				Source *struct {
					URL string `json:"url"`
				} `json:"source"`
			} `json:"images"`
		} `json:"preview"`
	} `json:"data"`
}

type redditListing struct {
	Data struct {
		Children []redditPost `json:"children"`
	} `json:"data"`
}

// newRedditGetter builds a getter for one subreddit's JSON listing.
// Reddit blocks default Go user agents, so requests go out with a
// browser UA. withSubreddit controls whether the info line names the
// subreddit (mixed listings like r/popular) or not (single-topic ones).
func newRedditGetter(client *fetch.Client, subreddit string, withSubreddit bool) news.Getter {
	chain := &news.Chain{
		Source: "reddit-" + subreddit,
		Strategies: []news.Strategy{
			{
				Name: "reddit-json",
				Attempt: func(ctx context.Context) ([]news.NewsItem, error) {
					return fetchSubreddit(ctx, client, subreddit, withSubreddit)
				},
			},
		},
	}
	return chain.Getter()
}

func fetchSubreddit(ctx context.Context, client *fetch.Client, subreddit string, withSubreddit bool) ([]news.NewsItem, error) {
	url := fmt.Sprintf("%s/r/%s.json?limit=30", redditBaseURL, subreddit)

	var listing redditListing
	headers := map[string]string{"User-Agent": fetch.BrowserUserAgent}
	if err := client.GetJSON(ctx, url, headers, &listing); err != nil {
		return nil, err
	}

	return mapRedditListing(listing, withSubreddit), nil
}

func mapRedditListing(listing redditListing, withSubreddit bool) []news.NewsItem {
	return lo.Map(listing.Data.Children, func(post redditPost, _ int) news.NewsItem {
		data := post.Data

		info := fmt.Sprintf("↑%s · %d comments", formatCount(data.Score), data.NumComments)
		if withSubreddit {
			info = fmt.Sprintf("r/%s · %s", data.Subreddit, info)
		}

		item := news.NewsItem{
			ID:    data.ID,
			Title: data.Title,
			URL:   "https://www.reddit.com" + data.Permalink,
			Extra: news.Extra{Info: info},
		}

		if data.CreatedUTC > 0 {
			pub := time.Unix(int64(data.CreatedUTC), 0).UTC()
			item.PubDate = &pub
		}
		if data.Selftext != "" {
			item.Extra.Hover = truncate(data.Selftext, 200)
		}
		if icon := redditThumbnail(post); icon != "" {
			item.Extra.Icon = icon
		}

		return item
	})
}

// redditThumbnail extracts the preview image URL. Reddit HTML-escapes
// ampersands inside the JSON payload.
func redditThumbnail(post redditPost) string {
	preview := post.Data.Preview
	if preview == nil || len(preview.Images) == 0 || preview.Images[0].Source == nil {
		return ""
	}
	url := strings.ReplaceAll(preview.Images[0].Source.URL, "&amp;", "&")
	if !strings.HasPrefix(url, "http") {
		return ""
	}
	return url
}
