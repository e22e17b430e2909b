package tasks

import (
	"context"

	"github.com/lysyi3m/newswire/app/news"
)

// TaskSchedulerInterface defines the interface for task scheduling
// operations. Used by the main application and the API layer to manage
// background refresh processing.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// Fetcher runs a source fetch, bypassing or consulting the cache
// depending on latest.
type Fetcher interface {
	Fetch(ctx context.Context, id string, latest bool) (news.SourceResponse, error)
}

var _ Fetcher = (*news.Service)(nil)
