package sources

import (
	"context"

	"github.com/lysyi3m/newswire/app/fetch"
	"github.com/lysyi3m/newswire/app/news"
)

// newFeedGetter builds a getter for a plain RSS/Atom source declared
// in a source configuration file.
func newFeedGetter(client *fetch.Client, id, feedURL string, limit int) news.Getter {
	chain := &news.Chain{
		Source: id,
		Strategies: []news.Strategy{
			{
				Name: "feed",
				Attempt: func(ctx context.Context) ([]news.NewsItem, error) {
					feedItems, err := client.FeedItems(ctx, feedURL)
					if err != nil {
						return nil, err
					}
					if len(feedItems) > limit {
						feedItems = feedItems[:limit]
					}
					return mapFeedItems(feedItems, id), nil
				},
			},
		},
	}
	return chain.Getter()
}
