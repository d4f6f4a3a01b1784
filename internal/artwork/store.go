// SPDX-License-Identifier: GPL-2.0-or-later

package artwork

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/owntone/go-libretune-server/internal/apperr"
	"github.com/owntone/go-libretune-server/internal/cache"
	"github.com/owntone/go-libretune-server/internal/config"
	"github.com/owntone/go-libretune-server/internal/models"
)

// Store is the artwork cache described by spec §4.7: a DuckDB table of
// (persistentid, max_w, max_h) → (format, source_path, db_timestamp) rows,
// a Badger hot cache of the corresponding image bytes, and the
// bookkeeping needed to keep both bounded and mutually consistent.
type Store struct {
	db  *sql.DB
	hot *hotCache

	maxEntries int

	// pingDedup skips a redundant bump UPDATE when the same source_path is
	// pinged repeatedly with an unchanged mtime within one scan pass: the
	// scanner walks a tree breadth-first and commonly touches the same
	// directory's files back to back.
	pingDedup *cache.LRUCache

	// insertDedup skips a redundant DB write plus hot-cache put when a
	// rescan reinserts byte-identical artwork for a key already cached.
	// ExactLRU trades memory for zero false positives, appropriate since a
	// false "duplicate" here would wrongly skip a real format change.
	insertDedup cache.DeduplicationCache

	// evictionOrder tracks every live key by its db_timestamp so Insert
	// can evict the oldest row once maxEntries is exceeded, per spec's
	// "purge abandoned entries" sweep but applied proactively on insert
	// rather than only via PurgeOlderThan.
	evictionOrder *cache.MinHeap[models.ArtworkEntry]
}

// Open opens (or creates) the artwork cache at cfg.CachePath, running the
// schema version check described in spec §4.7.
func Open(ctx context.Context, cfg *config.ArtworkConfig) (*Store, error) {
	db, err := sql.Open("duckdb", cfg.CachePath)
	if err != nil {
		return nil, apperr.New(apperr.Integrity, fmt.Errorf("artwork: open %s: %w", cfg.CachePath, err))
	}

	hot, err := newHotCache(cfg.HotCacheSize)
	if err != nil {
		db.Close()
		return nil, apperr.New(apperr.Integrity, err)
	}

	s := &Store{
		db:            db,
		hot:           hot,
		maxEntries:    cfg.MaxCacheEntries,
		pingDedup:     cache.NewLRUCache(4096, 10*time.Minute),
		insertDedup:   cache.NewExactLRU(4096, 30*time.Minute),
		evictionOrder: cache.NewMinHeap[models.ArtworkEntry](cfg.MaxCacheEntries),
	}

	if err := s.initSchema(ctx); err != nil {
		db.Close()
		hot.close()
		return nil, apperr.New(apperr.Integrity, err)
	}

	if err := s.loadEvictionOrder(ctx); err != nil {
		db.Close()
		hot.close()
		return nil, apperr.New(apperr.Integrity, err)
	}

	return s, nil
}

// Close releases the catalog connection and the hot cache.
func (s *Store) Close() error {
	hotErr := s.hot.close()
	dbErr := s.db.Close()
	if dbErr != nil {
		return dbErr
	}
	return hotErr
}

func entryKey(persistentID int64, maxW, maxH int) string {
	return fmt.Sprintf("%d:%d:%d", persistentID, maxW, maxH)
}

func (s *Store) loadEvictionOrder(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT persistentid, max_w, max_h, db_timestamp FROM artwork`)
	if err != nil {
		return fmt.Errorf("artwork: load eviction order: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pid int64
		var w, h int
		var tsUnix int64
		if err := rows.Scan(&pid, &w, &h, &tsUnix); err != nil {
			return fmt.Errorf("artwork: scan eviction row: %w", err)
		}
		s.evictionOrder.Push(entryKey(pid, w, h), models.ArtworkEntry{
			PersistentID: pid, MaxW: w, MaxH: h,
		}, time.Unix(tsUnix, 0))
	}
	return rows.Err()
}

// Lookup returns the cached bytes for (persistentid, max_w, max_h), if any.
// A present row with Format == models.ArtworkNone is a sticky "known to
// have no artwork" marker: cached reports true, and the caller should not
// re-probe the source file.
func (s *Store) Lookup(ctx context.Context, persistentID int64, maxW, maxH int) (models.ArtworkEntry, bool, error) {
	var entry models.ArtworkEntry
	var format int
	var tsUnix int64
	err := s.db.QueryRowContext(ctx,
		`SELECT format, source_path, db_timestamp FROM artwork
		 WHERE persistentid = ? AND max_w = ? AND max_h = ?`,
		persistentID, maxW, maxH,
	).Scan(&format, &entry.FilePath, &tsUnix)
	switch {
	case err == sql.ErrNoRows:
		return models.ArtworkEntry{}, false, nil
	case err != nil:
		return models.ArtworkEntry{}, false, apperr.New(apperr.Transient, fmt.Errorf("artwork: lookup: %w", err))
	}

	entry.PersistentID = persistentID
	entry.MaxW = maxW
	entry.MaxH = maxH
	entry.Format = models.ArtworkFormat(format)
	entry.DBTimestamp = time.Unix(tsUnix, 0)

	if entry.Format == models.ArtworkNone {
		return entry, true, nil
	}

	data, ok, err := s.hot.get(persistentID, maxW, maxH)
	if err != nil {
		return models.ArtworkEntry{}, false, err
	}
	if ok {
		entry.Data = data
	}
	return entry, true, nil
}

// Insert stores a new or replacement artwork scale. format == 0 records the
// sticky "no artwork" marker and carries no bytes.
func (s *Store) Insert(ctx context.Context, persistentID int64, maxW, maxH int, format models.ArtworkFormat, sourcePath string, data []byte) error {
	key := entryKey(persistentID, maxW, maxH)
	dedupKey := fmt.Sprintf("%s:%x", key, data)
	if format != models.ArtworkNone && s.insertDedup.IsDuplicate(dedupKey) {
		if _, ok, err := s.hot.get(persistentID, maxW, maxH); err == nil && ok {
			return nil
		}
	}

	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO artwork (persistentid, max_w, max_h, format, source_path, db_timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (persistentid, max_w, max_h) DO UPDATE SET
		   format = EXCLUDED.format,
		   source_path = EXCLUDED.source_path,
		   db_timestamp = EXCLUDED.db_timestamp`,
		persistentID, maxW, maxH, int(format), sourcePath, now.Unix(),
	)
	if err != nil {
		return apperr.New(apperr.Transient, fmt.Errorf("artwork: insert: %w", err))
	}

	if format != models.ArtworkNone {
		if err := s.hot.put(persistentID, maxW, maxH, data); err != nil {
			return err
		}
		s.insertDedup.Record(dedupKey)
	} else {
		s.hot.delete(persistentID, maxW, maxH)
	}

	if evicted := s.evictionOrder.Push(key, models.ArtworkEntry{
		PersistentID: persistentID, MaxW: maxW, MaxH: maxH,
	}, now); evicted != nil {
		s.evictOne(ctx, evicted.Value)
	}

	return nil
}

func (s *Store) evictOne(ctx context.Context, e models.ArtworkEntry) {
	_, _ = s.db.ExecContext(ctx,
		`DELETE FROM artwork WHERE persistentid = ? AND max_w = ? AND max_h = ?`,
		e.PersistentID, e.MaxW, e.MaxH)
	_ = s.hot.delete(e.PersistentID, e.MaxW, e.MaxH)
}

// Ping implements the two-mode freshness check from spec §4.7. When del is
// false it bumps db_timestamp to now for every row at sourcePath already at
// least as fresh as mtime. When del is true it additionally deletes every
// row at sourcePath older than mtime, since the source file changed and
// those cached scales are stale.
func (s *Store) Ping(ctx context.Context, sourcePath string, mtime time.Time, del bool) error {
	dedupKey := fmt.Sprintf("%s@%d@%v", sourcePath, mtime.Unix(), del)
	if s.pingDedup.IsDuplicate(dedupKey) {
		return nil
	}

	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`UPDATE artwork SET db_timestamp = ? WHERE source_path = ? AND db_timestamp >= ?`,
		now.Unix(), sourcePath, mtime.Unix(),
	)
	if err != nil {
		return apperr.New(apperr.Transient, fmt.Errorf("artwork: ping bump: %w", err))
	}

	if del {
		rows, err := s.db.QueryContext(ctx,
			`SELECT persistentid, max_w, max_h FROM artwork WHERE source_path = ? AND db_timestamp < ?`,
			sourcePath, mtime.Unix(),
		)
		if err != nil {
			return apperr.New(apperr.Transient, fmt.Errorf("artwork: ping stale scan: %w", err))
		}
		var stale []models.ArtworkEntry
		for rows.Next() {
			var e models.ArtworkEntry
			if err := rows.Scan(&e.PersistentID, &e.MaxW, &e.MaxH); err != nil {
				rows.Close()
				return apperr.New(apperr.Transient, fmt.Errorf("artwork: ping scan: %w", err))
			}
			stale = append(stale, e)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return apperr.New(apperr.Transient, fmt.Errorf("artwork: ping rows: %w", err))
		}

		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM artwork WHERE source_path = ? AND db_timestamp < ?`,
			sourcePath, mtime.Unix(),
		); err != nil {
			return apperr.New(apperr.Transient, fmt.Errorf("artwork: ping delete: %w", err))
		}
		for _, e := range stale {
			_ = s.hot.delete(e.PersistentID, e.MaxW, e.MaxH)
			s.evictionOrder.Remove(entryKey(e.PersistentID, e.MaxW, e.MaxH))
		}
	}

	s.pingDedup.Add(dedupKey, now)
	return nil
}

// PurgeOlderThan sweeps entries abandoned by a source file the scanner no
// longer sees: any row whose db_timestamp predates ref.
func (s *Store) PurgeOlderThan(ctx context.Context, ref time.Time) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT persistentid, max_w, max_h FROM artwork WHERE db_timestamp < ?`, ref.Unix())
	if err != nil {
		return apperr.New(apperr.Transient, fmt.Errorf("artwork: purge scan: %w", err))
	}
	var stale []models.ArtworkEntry
	for rows.Next() {
		var e models.ArtworkEntry
		if err := rows.Scan(&e.PersistentID, &e.MaxW, &e.MaxH); err != nil {
			rows.Close()
			return apperr.New(apperr.Transient, fmt.Errorf("artwork: purge scan row: %w", err))
		}
		stale = append(stale, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperr.New(apperr.Transient, fmt.Errorf("artwork: purge rows: %w", err))
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM artwork WHERE db_timestamp < ?`, ref.Unix()); err != nil {
		return apperr.New(apperr.Transient, fmt.Errorf("artwork: purge delete: %w", err))
	}
	for _, e := range stale {
		_ = s.hot.delete(e.PersistentID, e.MaxW, e.MaxH)
		s.evictionOrder.Remove(entryKey(e.PersistentID, e.MaxW, e.MaxH))
	}
	return nil
}
