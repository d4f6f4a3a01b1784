// SPDX-License-Identifier: GPL-2.0-or-later

package artwork

import (
	"context"
	"database/sql"
	"fmt"
)

// cacheVersion is the compiled-in artwork schema version. Spec §4.7: on a
// version mismatch the store drops every table and recreates them rather
// than attempting a migration -- the cache is disposable, rebuilt lazily
// from source files on the next probe.
const cacheVersion = 1

const (
	ddlAdmin = `
CREATE TABLE IF NOT EXISTS admin (
	key   VARCHAR PRIMARY KEY NOT NULL,
	value VARCHAR NOT NULL
);`

	ddlArtwork = `
CREATE TABLE IF NOT EXISTS artwork (
	persistentid BIGINT  NOT NULL,
	max_w        INTEGER NOT NULL,
	max_h        INTEGER NOT NULL,
	format       INTEGER NOT NULL,
	source_path  VARCHAR NOT NULL,
	db_timestamp BIGINT  NOT NULL,
	PRIMARY KEY (persistentid, max_w, max_h)
);`

	ddlArtworkIndex = `CREATE INDEX IF NOT EXISTS idx_artwork_source ON artwork(source_path);`
)

func (s *Store) initSchema(ctx context.Context) error {
	version, err := s.readVersion(ctx)
	if err != nil {
		return fmt.Errorf("artwork: read version: %w", err)
	}

	if version != 0 && version != cacheVersion {
		if err := s.dropAll(ctx); err != nil {
			return fmt.Errorf("artwork: drop stale schema: %w", err)
		}
	}

	for _, ddl := range []string{ddlAdmin, ddlArtwork, ddlArtworkIndex} {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("artwork: create schema: %w", err)
		}
	}

	if version != cacheVersion {
		if err := s.setVersion(ctx, cacheVersion); err != nil {
			return fmt.Errorf("artwork: set version: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
			return fmt.Errorf("artwork: vacuum: %w", err)
		}
	}

	return nil
}

func (s *Store) readVersion(ctx context.Context) (int, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM admin WHERE key = 'cache_version'`).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		return 0, nil
	case err != nil:
		// The admin table itself may not exist yet on a brand-new file.
		return 0, nil
	}
	var v int
	if _, err := fmt.Sscanf(raw, "%d", &v); err != nil {
		return 0, fmt.Errorf("parse cache_version %q: %w", raw, err)
	}
	return v, nil
}

func (s *Store) setVersion(ctx context.Context, v int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admin (key, value) VALUES ('cache_version', ?)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		fmt.Sprintf("%d", v))
	return err
}

func (s *Store) dropAll(ctx context.Context) error {
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS artwork`,
		`DROP TABLE IF EXISTS admin`,
	} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
