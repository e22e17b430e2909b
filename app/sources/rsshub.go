package sources

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/gofeed"

	"github.com/lysyi3m/newswire/app/fetch"
	"github.com/lysyi3m/newswire/app/news"
)

// rsshubMirrors are interchangeable RSSHub deployments tried in order.
// An empty feed from one mirror is a failure equivalent to a network
// error; the next mirror is tried.
var rsshubMirrors = []string{
	"https://rsshub.app",
	"https://rsshub.rssforever.com",
	"https://rss.shab.fun",
}

// fetchRSSHub fetches a route from the first mirror that yields a
// non-empty feed, keeping at most limit items.
func fetchRSSHub(ctx context.Context, client *fetch.Client, route string, limit int) ([]news.NewsItem, error) {
	var lastErr error

	for _, mirror := range rsshubMirrors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		feedURL := mirror + route
		feedItems, err := client.FeedItems(ctx, feedURL)
		if err != nil {
			slog.Warn("RSSHub mirror failed", "url", feedURL, "error", err)
			lastErr = err
			continue
		}
		if len(feedItems) == 0 {
			slog.Warn("RSSHub mirror returned empty feed", "url", feedURL)
			lastErr = news.NewFetchError(news.KindEmptyResult, fmt.Errorf("empty feed from %s", feedURL))
			continue
		}

		if len(feedItems) > limit {
			feedItems = feedItems[:limit]
		}
		return mapFeedItems(feedItems, route), nil
	}

	return nil, fmt.Errorf("all RSSHub mirrors failed for %s: %w", route, lastErr)
}

func mapFeedItems(feedItems []*gofeed.Item, fallbackPrefix string) []news.NewsItem {
	items := make([]news.NewsItem, 0, len(feedItems))
	for i, feedItem := range feedItems {
		id := feedItem.Link
		if id == "" {
			id = feedItem.GUID
		}
		if id == "" {
			id = fmt.Sprintf("%s-%d", fallbackPrefix, i)
		}

		item := news.NewsItem{
			ID:      id,
			Title:   feedItem.Title,
			URL:     feedItem.Link,
			PubDate: feedItem.PublishedParsed,
		}
		if item.Title == "" {
			item.Title = "Untitled"
		}

		if feedItem.Author != nil && feedItem.Author.Name != "" {
			item.Extra.Info = feedItem.Author.Name
		}
		if hover := stripTags(feedItem.Description); hover != "" {
			item.Extra.Hover = truncate(hover, 200)
		}

		items = append(items, item)
	}
	return items
}
