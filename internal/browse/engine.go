// SPDX-License-Identifier: GPL-2.0-or-later

package browse

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/owntone/go-libretune-server/internal/apperr"
	"github.com/owntone/go-libretune-server/internal/collation"
	"github.com/owntone/go-libretune-server/internal/database"
	"github.com/owntone/go-libretune-server/internal/database/query"
	"github.com/owntone/go-libretune-server/internal/models"
)

// Engine runs query descriptors against a catalog worker handle. It has no
// state of its own; every enumeration is independent, matching the
// enum_start/enum_fetch_row/enum_end trio from spec §4.6 one-to-one with
// Start/Cursor.Next/Cursor.Close.
type Engine struct{}

// NewEngine returns a ready-to-use browse engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Start prepares the enumeration described by qd and returns a cursor over
// its result rows plus the total row count (spec's specifiedtotalcount,
// reported regardless of WantCount since the total is already known once
// the candidate set is materialized).
//
// A malformed predicate returns a nil cursor, a zero total, and a
// ClientMalformed error: the caller (a protocol handler) renders this as a
// well-formed, empty result document carrying the error in its status block
// rather than aborting the response. Any other error is a storage-layer
// failure and should abort the response before headers are flushed.
func (e *Engine) Start(ctx context.Context, w *database.Worker, qd Descriptor) (*Cursor, int, error) {
	cfg, ok := typeConfigs[qd.Type]
	if !ok {
		return nil, 0, apperr.New(apperr.Integrity, fmt.Errorf("browse: unknown query type %d", qd.Type))
	}

	where := cfg.baseFilter
	var args []any

	if qd.Type == QueryPlaylistItems && qd.PlaylistID != 0 {
		plType, plQuery, err := loadPlaylistPredicate(ctx, w, qd.PlaylistID)
		switch {
		case err != nil && err != sql.ErrNoRows:
			return nil, 0, apperr.New(apperr.Transient, fmt.Errorf("browse: load playlist %d: %w", qd.PlaylistID, err))
		case err == sql.ErrNoRows || plType == models.PlaylistPlain:
			// Plain playlists (and an unresolvable id, which yields an
			// empty membership set rather than an error) keep the
			// path-membership join: spec §3's "Playlist item" is keyed by
			// path, not item id, so playlists survive rescans.
			where += " AND path IN (SELECT filepath FROM playlistitems WHERE playlistid = ?)"
			args = append(args, qd.PlaylistID)
		default: // smart playlist: compile and apply its stored predicate
			if strings.TrimSpace(plQuery) != "" {
				compiled, cerr := query.Compile(plQuery)
				if cerr != nil {
					return nil, 0, cerr
				}
				where += " AND (" + compiled.Where + ")"
				args = append(args, compiled.Args...)
			}
		}
	}

	if strings.TrimSpace(qd.Predicate) != "" {
		compiled, err := query.Compile(qd.Predicate)
		if err != nil {
			return nil, 0, err
		}
		where += " AND (" + compiled.Where + ")"
		args = append(args, compiled.Args...)
	}

	var fields []itemField
	var stmt string

	switch {
	case isBrowseType(qd.Type):
		fields = []itemField{{Tag: "", Column: cfg.valueCol}}
		stmt = fmt.Sprintf(
			"SELECT DISTINCT CAST(%s AS VARCHAR) AS value, CAST(%s AS VARCHAR) AS sortkey FROM %s WHERE %s",
			cfg.valueCol, cfg.sortCol, cfg.table, where,
		)
	case qd.Type == QueryPlaylists:
		fields = []itemField{
			{Tag: "miid", Column: "id"},
			{Tag: "minm", Column: "title"},
			{Tag: "aeSP", Column: "type"},
		}
		stmt = fmt.Sprintf(
			"SELECT CAST(id AS VARCHAR), CAST(title AS VARCHAR), CAST(type AS VARCHAR), CAST(%s AS VARCHAR) AS sortkey FROM %s WHERE %s",
			cfg.sortCol, cfg.table, where,
		)
	default: // items, playlist-items
		fields = projectedFields(qd)
		cols := make([]string, len(fields))
		for i, f := range fields {
			cols[i] = fmt.Sprintf("CAST(%s AS VARCHAR)", f.Column)
		}
		stmt = fmt.Sprintf(
			"SELECT %s, CAST(%s AS VARCHAR) AS sortkey FROM %s WHERE %s",
			strings.Join(cols, ", "), cfg.sortCol, cfg.table, where,
		)
	}

	rows, err := w.Query(ctx, stmt, args...)
	if err != nil {
		return nil, 0, apperr.New(apperr.Transient, fmt.Errorf("browse: query: %w", err))
	}
	defer rows.Close()

	width := len(fields)
	var collected []sortableRow
	for rows.Next() {
		scanDest := make([]any, width+1)
		raw := make([]*string, width+1)
		for i := range raw {
			scanDest[i] = &raw[i]
		}
		if err := rows.Scan(scanDest...); err != nil {
			return nil, 0, apperr.New(apperr.Transient, fmt.Errorf("browse: scan: %w", err))
		}
		values := make([]string, width)
		for i := 0; i < width; i++ {
			if raw[i] != nil {
				values[i] = *raw[i]
			}
		}
		var sortKey string
		if raw[width] != nil {
			sortKey = *raw[width]
		}
		collected = append(collected, sortableRow{values: values, sortKey: sortKey})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.New(apperr.Transient, fmt.Errorf("browse: rows: %w", err))
	}

	sort.SliceStable(collected, func(i, j int) bool {
		return collation.Compare(collected[i].sortKey, collected[j].sortKey) < 0
	})

	total := len(collected)
	start, end := clipRange(total, qd.Index, qd.IndexLow, qd.IndexHigh)

	rowsOut := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		rowsOut = append(rowsOut, collected[i].values)
	}

	return &Cursor{fields: fields, rows: rowsOut}, total, nil
}

// loadPlaylistPredicate reads the stored type and smart-query predicate of
// playlist plid, per §3's playlist row ({id, title, type, a predicate
// string for smart lists, ...}). Returns sql.ErrNoRows unmodified when the
// id names no playlist, so the caller can fall back to the plain
// membership join rather than erroring a browse of an unknown id.
func loadPlaylistPredicate(ctx context.Context, w *database.Worker, plid int64) (models.PlaylistType, string, error) {
	var typ int64
	var q sql.NullString
	err := w.QueryRow(ctx, "SELECT type, query FROM playlists WHERE id = ?", plid).Scan(&typ, &q)
	if err != nil {
		return 0, "", err
	}
	return models.PlaylistType(typ), q.String, nil
}

type sortableRow struct {
	values  []string
	sortKey string
}

// clipRange turns an index descriptor into a half-open [start, end) slice
// range over a total-length result set.
func clipRange(total int, idx IndexType, low, high int) (int, int) {
	switch idx {
	case IndexFirst:
		if low < 0 || low >= total {
			return 0, 0
		}
		return low, low + 1
	case IndexLast:
		if low < 0 || low >= total {
			return 0, 0
		}
		start := total - 1 - low
		if start < 0 {
			return 0, 0
		}
		return start, start + 1
	case IndexSub:
		lo, hi := low, high
		if lo < 0 {
			lo = 0
		}
		if hi > total {
			hi = total
		}
		if lo >= total || lo >= hi {
			return lo, lo
		}
		return lo, hi
	default: // IndexNone
		return 0, total
	}
}

// Cursor iterates the materialized result rows of one Start call, mirroring
// enum_fetch_row/enum_end. Rows are computed eagerly in Start rather than
// streamed, because ordering is collation-based (internal/collation has no
// SQL-level equivalent DuckDB can apply in an ORDER BY) and must see the
// whole candidate set before it can be applied.
type Cursor struct {
	fields []itemField
	rows   [][]string
	pos    int
}

// Fields reports which tag/column each element of Row's slice corresponds
// to, in order.
func (c *Cursor) Fields() []itemField {
	return c.fields
}

// Next advances the cursor. It returns false once the result set is
// exhausted.
func (c *Cursor) Next() bool {
	if c.pos >= len(c.rows) {
		return false
	}
	c.pos++
	return true
}

// Row returns the current row's values, aligned with Fields(). A "" value
// means the underlying column was empty or NULL; per spec §4.6 the
// renderer (C9) suppresses that field from the emitted document unless the
// descriptor's ZeroLength flag asked to keep it.
func (c *Cursor) Row() []string {
	return c.rows[c.pos-1]
}

// Close releases the cursor's buffered rows. It never returns an error
// (there is no live statement to finalize, since Start already consumed and
// closed the underlying *sql.Rows) but keeps the enum_end-shaped call site
// the protocol handlers expect.
func (c *Cursor) Close() error {
	c.rows = nil
	return nil
}
