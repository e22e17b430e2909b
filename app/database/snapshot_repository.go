package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lysyi3m/newswire/app/news"
)

var _ SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo archives fetch results for the stats and details
// endpoints. The archive is observational only; responses are never
// served from it.
type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepository(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

func (r *SnapshotRepo) Insert(sourceID string, items []news.NewsItem, fetchedAt time.Time) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialize items: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO snapshots (source_id, item_count, items, fetched_at)
		VALUES (?, ?, ?, ?)
	`, sourceID, len(items), string(payload), fetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return nil
}

func (r *SnapshotRepo) GetLatest(sourceID string) (*Snapshot, error) {
	row := r.db.QueryRow(`
		SELECT id, source_id, item_count, items, fetched_at
		FROM snapshots
		WHERE source_id = ?
		ORDER BY fetched_at DESC
		LIMIT 1
	`, sourceID)

	var snapshot Snapshot
	var payload string
	err := row.Scan(&snapshot.ID, &snapshot.SourceID, &snapshot.ItemCount, &payload, &snapshot.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &snapshot.Items); err != nil {
		return nil, fmt.Errorf("failed to deserialize items: %w", err)
	}

	return &snapshot, nil
}

func (r *SnapshotRepo) GetSnapshotCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return count, nil
}

func (r *SnapshotRepo) GetSourceStats() ([]SourceStats, error) {
	rows, err := r.db.Query(`
		SELECT source_id, COUNT(*), MAX(fetched_at)
		FROM snapshots
		GROUP BY source_id
		ORDER BY source_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query source stats: %w", err)
	}
	defer rows.Close()

	var stats []SourceStats
	for rows.Next() {
		var s SourceStats
		var last sql.NullTime
		if err := rows.Scan(&s.SourceID, &s.SnapshotCount, &last); err != nil {
			return nil, fmt.Errorf("failed to scan source stats: %w", err)
		}
		if last.Valid {
			t := last.Time
			s.LastFetchedAt = &t
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// Prune deletes snapshots fetched before the cutoff, keeping the
// archive bounded.
func (r *SnapshotRepo) Prune(olderThan time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM snapshots WHERE fetched_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return result.RowsAffected()
}
