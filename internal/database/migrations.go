// SPDX-License-Identifier: GPL-2.0-or-later

package database

import (
	"context"
	"fmt"
)

// minorMigration is one schema change applied when a catalog's minor
// version is behind the compiled-in constant but its major version still
// matches, per §4.4's versioning rule ("equal major → normal start,
// possibly running minor migrations").
type minorMigration struct {
	fromMinor int
	name      string
	sql       []string
}

// minorMigrations is append-only: once a minor version ships, its entry
// here must never change, only new ones get added ahead of a
// SchemaVersionMinor bump.
var minorMigrations = []minorMigration{
	// None yet; SchemaVersionMinor is still 0.
}

// applyMinorMigrations runs every migration whose fromMinor is at least the
// catalog's currently recorded minor version, in order, then bumps the
// recorded version to SchemaVersionMinor.
func (db *DB) applyMinorMigrations(ctx context.Context, currentMinor int) error {
	applied := 0
	for _, m := range minorMigrations {
		if m.fromMinor < currentMinor {
			continue
		}
		for _, stmt := range m.sql {
			if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration %q: %w", m.name, err)
			}
		}
		applied++
	}
	if applied == 0 && currentMinor == SchemaVersionMinor {
		return nil
	}
	return db.setAdmin(ctx, "schema_version_minor", fmt.Sprintf("%02d", SchemaVersionMinor))
}
