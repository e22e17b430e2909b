package sources

import (
	"fmt"
	"time"

	"github.com/lysyi3m/newswire/app/config"
	"github.com/lysyi3m/newswire/app/fetch"
	"github.com/lysyi3m/newswire/app/news"
)

const (
	redditTTL  = 5 * time.Minute
	twitterTTL = 5 * time.Minute
	youtubeTTL = 10 * time.Minute
	feedTTL    = 10 * time.Minute
)

// BuildRegistry registers all built-in sources plus any RSS sources
// declared in the configuration directory. Config entries matching a
// built-in id override its TTL or disable it entirely.
func BuildRegistry(client *fetch.Client, configs map[string]*config.Config) (*news.Registry, error) {
	registry := news.NewRegistry()

	builtins := builtinSources(client)

	for _, src := range builtins {
		if cfg, ok := configs[src.ID]; ok {
			if cfg.Settings.Disabled {
				continue
			}
			applyOverrides(src, cfg)
		}
		if err := registry.Register(src); err != nil {
			return nil, err
		}
	}

	// Any remaining config with a URL declares a plain RSS source.
	builtinIDs := make(map[string]bool, len(builtins))
	for _, src := range builtins {
		builtinIDs[src.ID] = true
	}

	for name, cfg := range configs {
		if builtinIDs[name] || cfg.URL == "" {
			continue
		}
		if cfg.Settings.Disabled {
			continue
		}

		src := &news.Source{
			ID:     name,
			Title:  cfg.Title,
			Type:   news.SourceTypeRealtime,
			TTL:    feedTTL,
			Getter: newFeedGetter(client, name, cfg.URL, cfg.Settings.MaxItems),
		}
		if cfg.Type == string(news.SourceTypeHottest) {
			src.Type = news.SourceTypeHottest
		}
		applyOverrides(src, cfg)

		if err := registry.Register(src); err != nil {
			return nil, fmt.Errorf("config source %s: %w", name, err)
		}
	}

	return registry, nil
}

func builtinSources(client *fetch.Client) []*news.Source {
	twitter := newTwitterSource(client)
	youtube := newYouTubeSource(client)

	twitterTrending := twitter.trendingGetter()
	youtubeTrending := youtube.trendingGetter()
	redditPopular := newRedditGetter(client, "popular", true)

	return []*news.Source{
		{ID: "reddit", Title: "Reddit", Type: news.SourceTypeHottest, TTL: redditTTL, Getter: redditPopular},
		{ID: "reddit-popular", Title: "Reddit Popular", Type: news.SourceTypeHottest, TTL: redditTTL, Getter: redditPopular},
		{ID: "reddit-all", Title: "Reddit All", Type: news.SourceTypeHottest, TTL: redditTTL, Getter: newRedditGetter(client, "all", true)},
		{ID: "reddit-programming", Title: "r/programming", Type: news.SourceTypeHottest, TTL: redditTTL, Getter: newRedditGetter(client, "programming", false)},
		{ID: "reddit-worldnews", Title: "r/worldnews", Type: news.SourceTypeHottest, TTL: redditTTL, Getter: newRedditGetter(client, "worldnews", false)},

		{ID: "twitter", Title: "Twitter Trending", Type: news.SourceTypeHottest, TTL: twitterTTL, Getter: twitterTrending},
		{ID: "twitter-trending", Title: "Twitter Trending", Type: news.SourceTypeHottest, TTL: twitterTTL, Getter: twitterTrending},

		{ID: "youtube", Title: "YouTube Trending", Type: news.SourceTypeHottest, TTL: youtubeTTL, Getter: youtubeTrending},
		{ID: "youtube-trending", Title: "YouTube Trending", Type: news.SourceTypeHottest, TTL: youtubeTTL, Getter: youtubeTrending},
		{ID: "youtube-music", Title: "YouTube Music", Type: news.SourceTypeHottest, TTL: youtubeTTL, Getter: youtube.categoryGetter("music", youtubeCategoryMusic, youtubeTrending)},
		{ID: "youtube-gaming", Title: "YouTube Gaming", Type: news.SourceTypeHottest, TTL: youtubeTTL, Getter: youtube.categoryGetter("gaming", youtubeCategoryGaming, youtubeTrending)},
	}
}

func applyOverrides(src *news.Source, cfg *config.Config) {
	if cfg.Title != "" {
		src.Title = cfg.Title
	}
	if cfg.Settings.TTL > 0 {
		src.TTL = time.Duration(cfg.Settings.TTL) * time.Second
	}
}
