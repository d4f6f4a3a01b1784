// SPDX-License-Identifier: GPL-2.0-or-later

package query

import (
	"sort"
	"strings"

	"github.com/owntone/go-libretune-server/internal/cache"
)

// FieldType constrains which operators and SQL binding a field accepts.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt
	FieldBool
)

// FieldSpec describes one whitelisted smart-query field: the client-facing
// name, the catalog column it maps to (always through the "f" alias the
// browse engine assigns the items table), and its comparison type.
type FieldSpec struct {
	Column string
	Type   FieldType
}

// Fields is the fixed whitelist of columns a compiled predicate may
// reference. This is the trust boundary spec §4.5 requires: a predicate
// naming any field outside this map fails to compile rather than reaching
// SQL. Grounded on original_source/src/db_init.c's smart-playlist column
// set (the same columns the built-in playlists and the reference client's
// query editor expose).
var Fields = map[string]FieldSpec{
	"title":        {"title", FieldString},
	"artist":       {"artist", FieldString},
	"album":        {"album", FieldString},
	"album_artist": {"album_artist", FieldString},
	"genre":        {"genre", FieldString},
	"composer":     {"composer", FieldString},
	"grouping":     {"grouping", FieldString},
	"comment":      {"comment", FieldString},
	"description":  {"description", FieldString},
	"path":         {"path", FieldString},
	"codectype":    {"codectype", FieldString},

	"bitrate":        {"bitrate", FieldInt},
	"samplerate":     {"samplerate", FieldInt},
	"song_length":    {"song_length", FieldInt},
	"file_size":      {"file_size", FieldInt},
	"track":          {"track", FieldInt},
	"disc":           {"disc", FieldInt},
	"media_kind":     {"media_kind", FieldInt},
	"data_kind":      {"data_kind", FieldInt},
	"item_kind":      {"item_kind", FieldInt},
	"play_count":     {"play_count", FieldInt},
	"skip_count":     {"skip_count", FieldInt},
	"rating":         {"rating", FieldInt},
	"contentrating":  {"contentrating", FieldInt},
	"time_added":     {"time_added", FieldInt},
	"time_modified":  {"time_modified", FieldInt},
	"date_released":  {"date_released", FieldInt},
	"directory_id":   {"directory_id", FieldInt},
	"songalbumid":    {"songalbumid", FieldInt},
	"songartistid":   {"songartistid", FieldInt},

	"disabled":  {"disabled", FieldBool},
	"has_video": {"has_video", FieldBool},
}

// fieldTrie indexes Fields for fast prefix lookup, used to suggest a
// correction when a predicate names an unknown field (e.g. "albums" ->
// "album"). Built once at package init since Fields is fixed at compile
// time.
var fieldTrie = buildFieldTrie()

func buildFieldTrie() *cache.Trie {
	t := cache.NewTrieWithOptions(false, 5)
	names := make([]string, 0, len(Fields))
	for name := range Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t.Insert(name)
	}
	return t
}

// suggestField returns the closest whitelisted field name for an unknown
// one, or "" if nothing shares a meaningful prefix. Used only to enrich the
// ClientMalformed error message surfaced in the response errorstring.
func suggestField(name string) string {
	lower := strings.ToLower(name)
	for n := len(lower); n > 0; n-- {
		results := fieldTrie.Autocomplete(lower[:n])
		if len(results) > 0 {
			return results[0].Value
		}
	}
	return ""
}
