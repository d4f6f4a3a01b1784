// SPDX-License-Identifier: GPL-2.0-or-later

// Package artwork implements the artwork cache (spec §4.7): a keyed store
// of cached image scales, keyed by (persistentid, max_w, max_h), backed by
// a small DuckDB catalog of metadata and a Badger-backed hot cache of the
// actual image bytes. format == 0 is a sticky "known to have no artwork"
// entry that short-circuits future source probes until a ping invalidates
// it.
package artwork
