package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"movieflix/internal/media"
)

// Snapshot is the last entry list fetched from the backend.
type Snapshot struct {
	Entries []media.Entry
	SavedAt time.Time
}

// Empty reports whether no snapshot has been saved.
func (s Snapshot) Empty() bool { return s.SavedAt.IsZero() }

// SaveSnapshot replaces the stored snapshot with entries, preserving order.
func (s *Store) SaveSnapshot(ctx context.Context, entries []media.Entry) error {
	ctx = ensureContext(ctx)
	payloads := make([][]byte, len(entries))
	for i, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal entry %s: %w", entry.ID, err)
		}
		payloads[i] = data
	}
	savedAt := time.Now().UTC().Format(time.RFC3339Nano)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM entry_snapshot"); err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO entry_snapshot (position, entry_id, payload) VALUES (?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare snapshot insert: %w", err)
		}
		defer stmt.Close()
		for i, entry := range entries {
			if _, err := stmt.ExecContext(ctx, i, entry.ID, string(payloads[i])); err != nil {
				return fmt.Errorf("insert snapshot entry %s: %w", entry.ID, err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_meta (id, saved_at, count) VALUES (1, ?, ?)
             ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at, count = excluded.count`,
			savedAt, len(entries)); err != nil {
			return fmt.Errorf("record snapshot meta: %w", err)
		}
		return nil
	})
}

// LoadSnapshot returns the stored snapshot. An empty Snapshot is returned
// when none has been saved.
func (s *Store) LoadSnapshot(ctx context.Context) (Snapshot, error) {
	ctx = ensureContext(ctx)
	var savedRaw string
	err := s.db.QueryRowContext(ctx, "SELECT saved_at FROM snapshot_meta WHERE id = 1").Scan(&savedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot meta: %w", err)
	}
	savedAt, err := time.Parse(time.RFC3339Nano, savedRaw)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot time: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT payload FROM entry_snapshot ORDER BY position")
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	defer rows.Close()

	snapshot := Snapshot{Entries: []media.Entry{}, SavedAt: savedAt}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return Snapshot{}, fmt.Errorf("scan snapshot entry: %w", err)
		}
		var entry media.Entry
		if err := json.Unmarshal([]byte(payload), &entry); err != nil {
			return Snapshot{}, fmt.Errorf("decode snapshot entry: %w", err)
		}
		snapshot.Entries = append(snapshot.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("iterate snapshot: %w", err)
	}
	return snapshot, nil
}
