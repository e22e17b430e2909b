package database

import (
	"time"

	"github.com/lysyi3m/newswire/app/news"
)

// Snapshot is one archived fetch result for a source.
type Snapshot struct {
	ID        int64
	SourceID  string
	ItemCount int
	Items     []news.NewsItem
	FetchedAt time.Time
}

// SourceStats summarizes the archive for one source.
type SourceStats struct {
	SourceID      string
	SnapshotCount int
	LastFetchedAt *time.Time
}
