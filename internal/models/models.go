// SPDX-License-Identifier: GPL-2.0-or-later

// Package models defines the catalog's data model: the shapes stored in the
// relational store and moved through the browse engine and protocol
// handlers.
package models

import "time"

// MediaKind is a bitmask classifying a media item.
type MediaKind uint32

const (
	MediaKindMusic     MediaKind = 1
	MediaKindMovie     MediaKind = 2
	MediaKindPodcast   MediaKind = 4
	MediaKindAudiobook MediaKind = 8
	MediaKindTVShow    MediaKind = 64
)

// Item is one track/video entity in the catalog.
type Item struct {
	ID       int64
	Path     string
	VirtualPath string
	DirectoryID int64

	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Genre       string
	Composer    string
	Grouping    string
	Comment     string
	Description string

	TitleSort       string
	ArtistSort      string
	AlbumSort       string
	AlbumArtistSort string
	ComposerSort    string

	Bitrate       int
	SampleRate    int
	Channels      int
	BitsPerSample int
	SongLengthMs  int
	FileSize      int64
	SampleCount   int64
	CodecType     string
	Track         int
	Disc          int

	DataKind     int
	MediaKind    MediaKind
	ItemKind     int
	HasVideo     bool
	ContentRating int

	PlayCount    int
	SkipCount    int
	Rating       int
	Seek         int
	LastPlayed   time.Time
	LastSkipped  time.Time
	Disabled     bool

	TimeAdded    time.Time
	TimeModified time.Time

	SongAlbumID  int64
	SongArtistID int64
}

// PlaylistType distinguishes a plain membership playlist from a
// smart-predicate one.
type PlaylistType int

const (
	PlaylistPlain PlaylistType = 0
	PlaylistSmart PlaylistType = 1
)

// Playlist is a named, orderable collection of items, either a plain
// membership list or a compiled predicate over the catalog.
type Playlist struct {
	ID          int64
	Title       string
	Type        PlaylistType
	Query       string // smart-playlist predicate, empty for plain
	QueryOrder  string
	Limit       int
	DBTimestamp time.Time
	VirtualPath string
	ParentID    int64
	DirectoryID int64
	MediaKindMask MediaKind
	ArtworkURL  string
	ScanKind    int
}

// BuiltinPlaylistID is a fixed, compiled-in playlist identifier.
type BuiltinPlaylistID int64

const (
	PlaylistLibrary    BuiltinPlaylistID = 1
	PlaylistMusic      BuiltinPlaylistID = 2
	PlaylistMovies     BuiltinPlaylistID = 3
	PlaylistTVShows    BuiltinPlaylistID = 4
	PlaylistPodcasts   BuiltinPlaylistID = 5
	PlaylistAudiobooks BuiltinPlaylistID = 6
)

// PlaylistItem is the plain-playlist membership relation, keyed by path so
// membership survives a rescan that reassigns item ids.
type PlaylistItem struct {
	ID         int64
	PlaylistID int64
	FilePath   string
}

// GroupType distinguishes an album grouping from an artist grouping.
type GroupType int

const (
	GroupAlbum  GroupType = 1
	GroupArtist GroupType = 2
)

// Group is a deduplicated (album|artist) identity, maintained by the
// database package's upsertGroups, which Worker.OnItemWritten runs after
// each item write.
type Group struct {
	ID            int64
	Type          GroupType
	Name          string
	PersistentID  int64
}

// Directory is one node in the catalog's directory tree, rooted at id=1.
type Directory struct {
	ID          int64
	VirtualPath string
	Path        string
	ParentID    int64
	Disabled    int
	DBTimestamp time.Time
	ScanKind    int
}

// Fixed directory ids that always exist.
const (
	DirectoryRoot   int64 = 1
	DirectoryFile   int64 = 2
	DirectoryHTTP   int64 = 3
	DirectorySpotify int64 = 4
)

// QueueEntry is one denormalized playback-queue record.
type QueueEntry struct {
	ID            int64
	Position      int
	ShufflePos    int
	QueueVersion  int64
	ItemID        int64
}

// ArtworkFormat identifies the stored image encoding, or the sticky
// "known to have none" sentinel.
type ArtworkFormat int

const (
	ArtworkNone ArtworkFormat = 0
	ArtworkPNG  ArtworkFormat = 1
	ArtworkJPEG ArtworkFormat = 2
)

// ArtworkEntry is one cached artwork scale for a persistent id.
type ArtworkEntry struct {
	PersistentID int64
	MaxW         int
	MaxH         int
	Format       ArtworkFormat
	FilePath     string
	DBTimestamp  time.Time
	Data         []byte
}
