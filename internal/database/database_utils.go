// SPDX-License-Identifier: GPL-2.0-or-later

package database

import (
	"context"
	"fmt"
	"time"
)

// ensureContext creates a context with a default timeout if ctx has no
// deadline of its own.
func ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, 30*time.Second)
	}
	return ctx, func() {}
}

// Checkpoint forces a WAL checkpoint, used before backup or shutdown.
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}

// RecordCounts reports the size of the catalog's three primary tables, for
// diagnostics.
type RecordCounts struct {
	Items       int64
	Playlists   int64
	Directories int64
}

// GetRecordCounts returns row counts for the primary catalog tables.
func (db *DB) GetRecordCounts(ctx context.Context) (RecordCounts, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var rc RecordCounts
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&rc.Items); err != nil {
		return rc, fmt.Errorf("count items: %w", err)
	}
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM playlists").Scan(&rc.Playlists); err != nil {
		return rc, fmt.Errorf("count playlists: %w", err)
	}
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM directories").Scan(&rc.Directories); err != nil {
		return rc, fmt.Errorf("count directories: %w", err)
	}
	return rc, nil
}
