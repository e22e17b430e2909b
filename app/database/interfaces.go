package database

import (
	"time"

	"github.com/lysyi3m/newswire/app/news"
)

type SnapshotRepository interface {
	Insert(sourceID string, items []news.NewsItem, fetchedAt time.Time) error
	GetLatest(sourceID string) (*Snapshot, error)
	GetSnapshotCount() (int, error)
	GetSourceStats() ([]SourceStats, error)
	Prune(olderThan time.Time) (int64, error)
}
