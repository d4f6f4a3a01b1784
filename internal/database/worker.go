// SPDX-License-Identifier: GPL-2.0-or-later

package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Worker is a private catalog handle owned by exactly one goroutine, per
// the ownership rule in §3: "each worker thread owns a private catalog
// handle (created at thread start, torn down at thread exit, every
// prepared statement finalized)." It is the Go-goroutine equivalent of
// store_thread_init/store_thread_deinit: database/sql's pool is already
// safe for concurrent use, so rather than open a second *sql.DB per
// goroutine, a Worker checks out one dedicated *sql.Conn from the shared
// pool and returns it on Close, which is where SQLite's per-thread handle
// model and Go's pooled-connection model naturally meet.
type Worker struct {
	db   *DB
	conn *sql.Conn
}

// NewWorker checks out a private connection for the calling goroutine.
func (db *DB) NewWorker(ctx context.Context) (*Worker, error) {
	conn, err := db.conn.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("worker: checkout connection: %w", err)
	}
	return &Worker{db: db, conn: conn}, nil
}

// Exec runs a write statement under the retry-on-busy discipline.
func (w *Worker) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := execRetry(ctx, func() error {
		var execErr error
		res, execErr = w.conn.ExecContext(ctx, query, args...)
		return execErr
	})
	return res, err
}

// Query runs a read statement. Reads don't hit the transaction-conflict
// path the way writes do, so no retry wrapper is applied; a genuine
// connection loss is left for the caller to classify via isConnectionError.
func (w *Worker) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return w.conn.QueryContext(ctx, query, args...)
}

// QueryRow runs a single-row read statement.
func (w *Worker) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return w.conn.QueryRowContext(ctx, query, args...)
}

// Begin starts a transaction on this worker's connection.
func (w *Worker) Begin(ctx context.Context) (*sql.Tx, error) {
	return w.conn.BeginTx(ctx, nil)
}

// Close releases the private connection back to the shared pool. Every
// statement prepared against it becomes invalid; callers must not retain
// *sql.Rows/*sql.Stmt derived from this worker past Close.
func (w *Worker) Close() error {
	return w.conn.Close()
}
