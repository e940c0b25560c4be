// Package pending persists queued acquisitions so they survive a restart.
package pending

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/acquire"
)

// Store keeps pending acquisition records in SQLite, grouped by game mode.
type Store struct {
	db *sql.DB
}

// NewStore creates a pending-acquisition store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ acquire.PendingStore = (*Store)(nil)

// Save records a pending acquisition.
// Saving an existing (game mode, key) pair updates its descriptor and keeps
// its original position in the load order.
func (s *Store) Save(ctx context.Context, rec acquire.PendingRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pending_acquisitions (game_mode, source_key, descriptor, queued_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(game_mode, source_key) DO UPDATE SET descriptor = excluded.descriptor`,
		rec.GameMode, rec.Key, rec.Descriptor, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("save pending %s: %w", rec.Key, err)
	}
	return nil
}

// Load returns the records of a game mode in the order they were first saved.
func (s *Store) Load(ctx context.Context, gameMode string) ([]acquire.PendingRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_mode, source_key, descriptor
		FROM pending_acquisitions
		WHERE game_mode = ?
		ORDER BY id`,
		gameMode,
	)
	if err != nil {
		return nil, fmt.Errorf("load pending: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []acquire.PendingRecord
	for rows.Next() {
		var rec acquire.PendingRecord
		if err := rows.Scan(&rec.GameMode, &rec.Key, &rec.Descriptor); err != nil {
			return nil, fmt.Errorf("scan pending: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending: %w", err)
	}
	return records, nil
}

// Remove deletes a pending record.
// This operation is idempotent - no error is returned if the record does not exist.
func (s *Store) Remove(ctx context.Context, gameMode, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM pending_acquisitions WHERE game_mode = ? AND source_key = ?",
		gameMode, key,
	)
	if err != nil {
		return fmt.Errorf("remove pending %s: %w", key, err)
	}
	return nil
}

// Count returns the number of pending records for a game mode.
func (s *Store) Count(ctx context.Context, gameMode string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pending_acquisitions WHERE game_mode = ?", gameMode,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending: %w", err)
	}
	return n, nil
}
