// SPDX-License-Identifier: GPL-2.0-or-later

// Package database owns the catalog relational store.
//
// # Overview
//
// The catalog is a single DuckDB file holding the media-item, playlist,
// group, directory and queue tables described in the data model, plus an
// admin table carrying the schema version and the queue-version counter.
// One shared *sql.DB pool backs the file; callers that need the private
// per-goroutine handle discipline described in the data model's ownership
// section check out a Worker.
//
// # Files
//
//   - database.go: connection lifecycle, pragma application, scalar
//     function registration, schema bring-up
//   - schema.go: table/index DDL, seed data, schema-version gate
//   - migrations.go: minor-version migrations applied when a catalog's
//     recorded minor version trails the compiled-in constant
//   - worker.go: per-goroutine catalog handle (Worker)
//   - groups.go: application-level equivalent of the original's
//     trg_groups_insert/trg_groups_update triggers
//   - retry.go: bounded exponential back-off for transaction conflicts
//   - database_connection.go: connection-loss error classification
//   - database_utils.go: checkpoint and diagnostic record counts
//   - errors.go: close-and-log helpers for deferred cleanup
//
// # Concurrency
//
// Only the scanner writes items/directories; playlist-item writes may also
// come from the remote-control subsystem. Worker.Exec runs its statement
// through execRetry so a short write burst from one writer doesn't fail a
// concurrent reader's statement. Schema bring-up, migrations, pragma
// application, Checkpoint and the group upserts behind
// Worker.OnItemWritten call ExecContext directly, without retry.
package database
