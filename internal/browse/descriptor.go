// SPDX-License-Identifier: GPL-2.0-or-later

// Package browse implements the browse/enumerate engine (spec §4.6): it
// turns a query descriptor into a catalog result set, ordered by the fixed
// sort column of its query type and clipped to the requested index range.
// A playlist's stored query_order is not read: playlist items are ordered
// by the same fixed column as every other item listing.
package browse

// QueryType selects which catalog relation a descriptor enumerates.
type QueryType int

const (
	QueryItems QueryType = iota
	QueryPlaylists
	QueryPlaylistItems
	QueryBrowseArtists
	QueryBrowseAlbums
	QueryBrowseGenres
	QueryBrowseComposers
)

// IndexType selects how IndexLow/IndexHigh are interpreted.
type IndexType int

const (
	// IndexNone requests the entire result set.
	IndexNone IndexType = iota
	// IndexFirst requests the single row at offset IndexLow.
	IndexFirst
	// IndexLast requests the single row IndexLow positions from the end.
	IndexLast
	// IndexSub requests the half-open range [IndexLow, IndexHigh).
	IndexSub
)

// Projection selects which item fields a row emits. Corresponds to the
// dispatcher's "type" query variable (spec §4.8): "browse" maps to
// ProjBrowse, "id" to ProjID; its absence defaults to ProjFull.
type Projection int

const (
	ProjFull Projection = iota
	ProjBrowse
	ProjID
)

// DefaultIndexHigh is the spec's "effectively no upper limit" default.
const DefaultIndexHigh = 999999

// Descriptor is the full set of inputs to one enumeration, assembled by a
// protocol handler (C9) from the dispatcher match and query string (C8).
type Descriptor struct {
	Type       QueryType
	Index      IndexType
	IndexLow   int
	IndexHigh  int
	PlaylistID int64
	DBID       int64
	SessionID  int64
	WantCount  bool
	Projection Projection
	MetaFields []string // explicit "meta" comma-list, overrides Projection when non-empty
	Predicate  string    // smart-query predicate, from the "query" variable
	ZeroLength bool      // emit zero-length string fields instead of suppressing them
}

// NewDescriptor returns a descriptor with the spec's defaults: the full
// range, full projection, and count reporting off.
func NewDescriptor(qt QueryType) Descriptor {
	return Descriptor{
		Type:      qt,
		Index:     IndexNone,
		IndexHigh: DefaultIndexHigh,
	}
}
