package api

import (
	"context"

	"github.com/lysyi3m/newswire/app/database"
	"github.com/lysyi3m/newswire/app/news"
	"github.com/lysyi3m/newswire/app/tasks"
)

type FetcherInterface interface {
	Fetch(ctx context.Context, id string, latest bool) (news.SourceResponse, error)
}

var _ FetcherInterface = (*news.Service)(nil)

type Handler struct {
	fetcher   FetcherInterface
	registry  *news.Registry
	cache     *news.Cache
	snapshots database.SnapshotRepository
	scheduler tasks.TaskSchedulerInterface
}
