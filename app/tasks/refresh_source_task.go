package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/newswire/app/database"
	"github.com/lysyi3m/newswire/app/news"
)

// RefreshSourceTask fetches a source bypassing the cache and archives
// the result as a snapshot.
type RefreshSourceTask struct {
	Task
	fetcher   Fetcher
	snapshots database.SnapshotRepository
}

func NewRefreshSourceTask(sourceID string, fetcher Fetcher, snapshots database.SnapshotRepository) *RefreshSourceTask {
	return &RefreshSourceTask{
		Task:      NewTask(TaskTypeRefreshSource, sourceID),
		fetcher:   fetcher,
		snapshots: snapshots,
	}
}

func (t *RefreshSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	resp, err := t.fetcher.Fetch(ctx, t.SourceID, true)
	if err != nil {
		return fmt.Errorf("failed to refresh source: %w", err)
	}
	if resp.Status != news.StatusSuccess {
		return fmt.Errorf("refresh returned status %s: %s", resp.Status, resp.Message)
	}

	if t.snapshots != nil {
		if err := t.snapshots.Insert(t.SourceID, resp.Items, resp.UpdatedTime); err != nil {
			slog.Error("Failed to archive snapshot", "source", t.SourceID, "error", err)
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceID,
		"duration", t.GetDuration(),
		"items", len(resp.Items))

	return nil
}
