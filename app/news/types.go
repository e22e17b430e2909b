package news

import (
	"time"
)

// Normalized item and response types shared by every source getter.

// Extra carries strategy-specific annotations attached to an item.
type Extra struct {
	Info  string `json:"info,omitempty"`  // author, subreddit, score summary
	Hover string `json:"hover,omitempty"` // preview text
	Icon  string `json:"icon,omitempty"`  // thumbnail URL
	Diff  *int   `json:"diff,omitempty"`  // rank delta against the previous snapshot
}

// NewsItem is the common shape every source getter produces.
// ID must be unique within one source's result set; there is no
// global dedup across sources.
type NewsItem struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	URL     string     `json:"url,omitempty"`
	PubDate *time.Time `json:"pubDate,omitempty"`
	Extra   Extra      `json:"extra"`
}

// SourceResponse is the envelope served by the HTTP layer.
type SourceResponse struct {
	Status      string     `json:"status"`
	ID          string     `json:"id"`
	UpdatedTime time.Time  `json:"updatedTime"`
	Items       []NewsItem `json:"items"`
	Message     string     `json:"message,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusCache   = "cache"
	StatusError   = "error"
)
