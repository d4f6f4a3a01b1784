// SPDX-License-Identifier: GPL-2.0-or-later

package database

import "strings"

// isConnectionError reports whether err indicates the underlying DuckDB
// connection was lost outright, as opposed to a transient busy/conflict
// condition handled by execRetry.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset") ||
		strings.Contains(s, "broken pipe") ||
		strings.Contains(s, "bad connection") ||
		strings.Contains(s, "database is closed")
}
