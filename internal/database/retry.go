// SPDX-License-Identifier: GPL-2.0-or-later

package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/owntone/go-libretune-server/internal/apperr"
	"github.com/owntone/go-libretune-server/internal/config"
)

// isTransactionConflict reports whether err is a DuckDB transaction
// conflict: a concurrent writer touched the same row between this
// transaction's start and its commit attempt. These are exactly the
// BUSY/LOCKED-equivalent conditions the original's blocking_step retries.
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "Transaction conflict") ||
		strings.Contains(s, "Conflict on update") ||
		strings.Contains(s, "cannot update a table that has been altered") ||
		strings.Contains(s, "database is locked")
}

// execRetry runs fn, retrying with exponential back-off while it keeps
// returning a transaction-conflict error, up to config.BusyRetryBudget's
// total wall-clock budget. This is the Go-side equivalent of
// blocking_step/blocking_prepare: "a short write burst must not fail
// user-facing reads" (§4.4).
func execRetry(ctx context.Context, fn func() error) error {
	deadline := time.Now().Add(config.BusyRetryBudget)
	backoff := 5 * time.Millisecond
	for {
		err := fn()
		if err == nil {
			return nil
		}
		if !isTransactionConflict(err) {
			return err
		}
		if time.Now().Add(backoff).After(deadline) {
			return apperr.New(apperr.Transient, errors.New("store busy: retry budget exhausted"))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > 500*time.Millisecond {
			backoff = 500 * time.Millisecond
		}
	}
}
