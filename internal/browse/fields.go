// SPDX-License-Identifier: GPL-2.0-or-later

package browse

// fieldFlag marks which of the three projections (ID, browse, full; one
// bit each) include a given item field.
type fieldFlag uint8

const (
	flagID     fieldFlag = 1 << 0
	flagBrowse fieldFlag = 1 << 1
	flagFull   fieldFlag = 1 << 2
)

// itemField describes one projected column of the items query type: the
// wire tag it's rendered under (see internal/tlv's static tag table, C3)
// and the catalog column it reads from.
type itemField struct {
	Tag    string
	Column string
	Flags  fieldFlag
}

// itemFields is grounded on internal/tlv's tagTable: every tag below is one
// the codec already knows how to encode, so the browse engine never emits a
// field the protocol layer can't name. Fields the items table has no column
// for (e.g. a track's own persistent id, which this schema derives only for
// groups) are left out rather than invented.
var itemFields = []itemField{
	{"miid", "id", flagID | flagBrowse | flagFull},
	{"minm", "title", flagBrowse | flagFull},
	{"asar", "artist", flagFull},
	{"asal", "album", flagFull},
	{"asgn", "genre", flagFull},
	{"ascp", "composer", flagFull},
	{"agrp", "grouping", flagFull},
	{"ascm", "comment", flagFull},
	{"asdt", "description", flagFull},
	{"astm", "song_length", flagFull},
	{"astn", "track", flagFull},
	{"asdn", "disc", flagFull},
	{"asdk", "data_kind", flagFull},
	{"aeMK", "media_kind", flagFull},
	{"asfm", "codectype", flagFull},
	{"asbr", "bitrate", flagFull},
	{"assr", "samplerate", flagFull},
	{"assz", "file_size", flagFull},
	{"ascr", "contentrating", flagFull},
	{"aeHV", "has_video", flagFull},
	{"asur", "rating", flagFull},
	{"asdb", "disabled", flagFull},
}

// projectedFields returns the ordered field list a descriptor should emit.
// An explicit MetaFields list (the "meta" query variable) always wins over
// the coarse Projection.
func projectedFields(qd Descriptor) []itemField {
	if len(qd.MetaFields) > 0 {
		want := make(map[string]bool, len(qd.MetaFields))
		for _, f := range qd.MetaFields {
			want[f] = true
		}
		var out []itemField
		for _, f := range itemFields {
			if want[f.Tag] || want[f.Column] {
				out = append(out, f)
			}
		}
		return out
	}

	var flag fieldFlag
	switch qd.Projection {
	case ProjID:
		flag = flagID
	case ProjBrowse:
		flag = flagBrowse
	default:
		flag = flagFull
	}

	var out []itemField
	for _, f := range itemFields {
		if f.Flags&flag != 0 {
			out = append(out, f)
		}
	}
	return out
}

// typeConfig carries the per-query-type base table, base filter, and the
// type-fixed sort rule (spec §4.6's "ordering is type-fixed"). table
// aliases its relation "f" (not just a convention: internal/database/query's
// compiler always qualifies a whitelisted column as "f.<column>", matching
// the original source's own Q_PL2..Q_PL6 predicate text, so every WHERE
// this package builds must resolve that alias).
type typeConfig struct {
	table      string
	baseFilter string
	valueCol   string // column selected for browse-* distinct-value types
	sortCol    string // column collation-ordering is applied to
}

var typeConfigs = map[QueryType]typeConfig{
	QueryItems:           {table: "items AS f", baseFilter: "disabled = 0", sortCol: "title_sort"},
	QueryPlaylists:       {table: "playlists AS f", baseFilter: "disabled = 0", sortCol: "title"},
	QueryPlaylistItems:   {table: "items AS f", baseFilter: "disabled = 0", sortCol: "title_sort"},
	QueryBrowseArtists:   {table: "items AS f", baseFilter: "disabled = 0 AND artist != ''", valueCol: "artist", sortCol: "artist_sort"},
	QueryBrowseAlbums:    {table: "items AS f", baseFilter: "disabled = 0 AND album != ''", valueCol: "album", sortCol: "album_sort"},
	QueryBrowseGenres:    {table: "items AS f", baseFilter: "disabled = 0 AND genre != ''", valueCol: "genre", sortCol: "genre"},
	QueryBrowseComposers: {table: "items AS f", baseFilter: "disabled = 0 AND composer != ''", valueCol: "composer", sortCol: "composer_sort"},
}

func isBrowseType(qt QueryType) bool {
	switch qt {
	case QueryBrowseArtists, QueryBrowseAlbums, QueryBrowseGenres, QueryBrowseComposers:
		return true
	default:
		return false
	}
}
