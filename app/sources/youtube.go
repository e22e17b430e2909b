package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/lysyi3m/newswire/app/fetch"
	"github.com/lysyi3m/newswire/app/news"
)

// YouTube trending. Strategies in order: official Data API v3
// videos.list (gated on YOUTUBE_API_KEY), then RSSHub trending routes
// across mirrors. Category chains that exhaust fall back to the
// primary trending getter, trading specificity for availability.
var youtubeAPIBaseURL = "https://www.googleapis.com"

const youtubeItemCap = 30

// Data API category ids for the chart filter.
const (
	youtubeCategoryMusic  = "10"
	youtubeCategoryGaming = "20"
)

type youtubeVideo struct {
	ID      string `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		ChannelTitle string `json:"channelTitle"`
		PublishedAt  string `json:"publishedAt"`
		Thumbnails   struct {
			Medium struct {
				URL string `json:"url"`
			} `json:"medium"`
		} `json:"thumbnails"`
	} `json:"snippet"`
	Statistics struct {
		ViewCount string `json:"viewCount"`
	} `json:"statistics"`
}

type youtubeListResponse struct {
	Items []youtubeVideo `json:"items"`
}

type youtubeSource struct {
	client *fetch.Client
	apiKey string
}

func newYouTubeSource(client *fetch.Client) *youtubeSource {
	return &youtubeSource{
		client: client,
		apiKey: os.Getenv("YOUTUBE_API_KEY"),
	}
}

func (s *youtubeSource) chain(name, categoryID, rsshubRoute string) *news.Chain {
	return &news.Chain{
		Source: name,
		Strategies: []news.Strategy{
			{
				Name:  "youtube-api",
				Ready: func() bool { return s.apiKey != "" },
				Attempt: func(ctx context.Context) ([]news.NewsItem, error) {
					return s.fetchFromAPI(ctx, categoryID)
				},
			},
			{
				Name: "rsshub",
				Attempt: func(ctx context.Context) ([]news.NewsItem, error) {
					return fetchRSSHub(ctx, s.client, rsshubRoute, youtubeItemCap)
				},
			},
		},
	}
}

func (s *youtubeSource) trendingGetter() news.Getter {
	return s.chain("youtube", "", "/youtube/trending").Getter()
}

// categoryGetter wraps a category chain with a fallback to the primary
// trending getter when the whole chain is exhausted.
func (s *youtubeSource) categoryGetter(category, categoryID string, trending news.Getter) news.Getter {
	chain := s.chain("youtube-"+category, categoryID, "/youtube/trending/"+category)

	return func(ctx context.Context) ([]news.NewsItem, error) {
		items, err := chain.Run(ctx)
		if err != nil {
			slog.Warn("Category chain exhausted, falling back to trending", "source", chain.Source, "error", err)
			return trending(ctx)
		}
		return items, nil
	}
}

// fetchFromAPI calls the Data API v3 videos.list endpoint with the
// mostPopular chart. An empty categoryID fetches the general chart.
func (s *youtubeSource) fetchFromAPI(ctx context.Context, categoryID string) ([]news.NewsItem, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("chart", "mostPopular")
	params.Set("maxResults", strconv.Itoa(youtubeItemCap))
	params.Set("regionCode", "US")
	params.Set("key", s.apiKey)
	if categoryID != "" {
		params.Set("videoCategoryId", categoryID)
	}
	listURL := youtubeAPIBaseURL + "/youtube/v3/videos?" + params.Encode()

	var resp youtubeListResponse
	if err := s.client.GetJSON(ctx, listURL, nil, &resp); err != nil {
		return nil, err
	}

	return mapYouTubeVideos(resp), nil
}

func mapYouTubeVideos(resp youtubeListResponse) []news.NewsItem {
	items := make([]news.NewsItem, 0, len(resp.Items))
	for _, video := range resp.Items {
		if video.ID == "" || video.Snippet.Title == "" {
			continue
		}

		info := video.Snippet.ChannelTitle
		if views, err := strconv.Atoi(video.Statistics.ViewCount); err == nil && views > 0 {
			info = fmt.Sprintf("%s · %s views", info, formatCount(views))
		}

		item := news.NewsItem{
			ID:    video.ID,
			Title: video.Snippet.Title,
			URL:   "https://www.youtube.com/watch?v=" + video.ID,
			Extra: news.Extra{
				Info: info,
				Icon: video.Snippet.Thumbnails.Medium.URL,
			},
		}
		if hover := stripTags(video.Snippet.Description); hover != "" {
			item.Extra.Hover = truncate(hover, 200)
		}
		if video.Snippet.PublishedAt != "" {
			if ts, err := time.Parse(time.RFC3339, video.Snippet.PublishedAt); err == nil {
				item.PubDate = &ts
			}
		}

		items = append(items, item)
	}
	return items
}
