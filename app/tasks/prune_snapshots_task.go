package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/newswire/app/database"
)

// PruneSnapshotsTask deletes archived snapshots older than the
// retention window.
type PruneSnapshotsTask struct {
	Task
	snapshots database.SnapshotRepository
	retention time.Duration
}

func NewPruneSnapshotsTask(snapshots database.SnapshotRepository, retention time.Duration) *PruneSnapshotsTask {
	return &PruneSnapshotsTask{
		Task:      NewTask(TaskTypePruneSnapshots, ""),
		snapshots: snapshots,
		retention: retention,
	}
}

func (t *PruneSnapshotsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	cutoff := time.Now().Add(-t.retention)
	deleted, err := t.snapshots.Prune(cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"deleted", deleted)

	return nil
}
