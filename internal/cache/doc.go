// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cache provides the small set of in-process data structures the
smart-query compiler (C5) and artwork cache (C7) use to avoid repeated work:

  - Cache: a thread-safe TTL map. internal/database/query uses one instance
    to skip re-lexing/re-parsing/re-compiling a smart-playlist predicate
    string that was just compiled (the common case: a stored playlist's
    predicate gets re-evaluated on every browse of that playlist).
  - Trie: backs the smart-query field whitelist's "did you mean" suggestion
    when a predicate names an unknown field.
  - AhoCorasick: a multi-pattern search used as a cheap structural prefilter
    ahead of the smart-query lexer, rejecting predicate strings containing
    statement-terminator or comment markers before tokenizing.
  - LRUCache / ExactLRU (DeduplicationCache): dedup caches the artwork store
    uses to skip a redundant ping bump or a redundant insert of
    byte-identical artwork.
  - MinHeap: the artwork store's oldest-first eviction order, keyed by
    db_timestamp, bounding the cache at a configured entry count.

None of these are general-purpose infrastructure kept around for future use:
each one is instantiated by exactly the component named above. See
DESIGN.md for why the package's broader set of generic structures (a
frequency-based LFU cache, a sliding-window counter, a spatial hash grid, a
Fenwick tree, and a Bloom filter) were dropped rather than kept unwired --
none of them had a component in this server's scope to serve.
*/
package cache
