// SPDX-License-Identifier: GPL-2.0-or-later

package tlv

import "sort"

// Type identifies the payload shape of a tag, per the static tag table.
type Type byte

const (
	TypeByte       Type = 0x01 // unsigned byte or boolean
	TypeSignedByte Type = 0x02
	TypeShort      Type = 0x03 // big-endian uint16
	TypeInt        Type = 0x05 // big-endian uint32
	TypeLong       Type = 0x07 // big-endian uint64
	TypeString     Type = 0x09 // UTF-8, no embedded NUL
	TypeDate       Type = 0x0A // seconds since epoch, big-endian uint32
	TypeVersion    Type = 0x0B // (major<<16)|minor, big-endian uint32
	TypeContainer  Type = 0x0C // recursive TLV
)

func (t Type) String() string {
	switch t {
	case TypeByte:
		return "byte"
	case TypeSignedByte:
		return "signed-byte"
	case TypeShort:
		return "short"
	case TypeInt:
		return "int"
	case TypeLong:
		return "long"
	case TypeString:
		return "string"
	case TypeDate:
		return "date"
	case TypeVersion:
		return "version"
	case TypeContainer:
		return "container"
	default:
		return "unknown"
	}
}

type tagInfo struct {
	typ  Type
	name string
}

// tagTable is the static tag -> (type, name) registry. Every frame's type is
// a property of its tag, never chosen by the caller. Ported from the
// media-sharing protocol's reference tag list; where the source listed the
// same four-byte tag twice with two different types (msas, below), only the
// first definition is reachable by a first-match scan, so only that one is
// kept here -- Go map literals reject duplicate keys outright.
var tagTable = map[string]tagInfo{
	"miid": {TypeInt, "dmap.itemid"},
	"minm": {TypeString, "dmap.itemname"},
	"mikd": {TypeByte, "dmap.itemkind"},
	"mper": {TypeLong, "dmap.persistentid"},
	"mcon": {TypeContainer, "dmap.container"},
	"mcti": {TypeInt, "dmap.containeritemid"},
	"mpco": {TypeInt, "dmap.parentcontainerid"},
	"mstt": {TypeInt, "dmap.status"},
	"msts": {TypeString, "dmap.statusstring"},
	"mimc": {TypeInt, "dmap.itemcount"},
	"mctc": {TypeInt, "dmap.containercount"},
	"mrco": {TypeInt, "dmap.returnedcount"},
	"mtco": {TypeInt, "dmap.specifiedtotalcount"},
	"mlcl": {TypeContainer, "dmap.listing"},
	"mlit": {TypeContainer, "dmap.listingitem"},
	"mbcl": {TypeContainer, "dmap.bag"},
	"mdcl": {TypeContainer, "dmap.dictionary"},
	"msrv": {TypeContainer, "dmap.serverinforesponse"},
	"msau": {TypeByte, "dmap.authenticationmethod"},
	"mslr": {TypeByte, "dmap.loginrequired"},
	"mpro": {TypeVersion, "dmap.protocolversion"},
	"msal": {TypeByte, "dmap.supportsautologout"},
	"msup": {TypeByte, "dmap.supportsupdate"},
	"mspi": {TypeByte, "dmap.supportspersistentids"},
	"msex": {TypeByte, "dmap.supportsextensions"},
	"msbr": {TypeByte, "dmap.supportsbrowse"},
	"msqy": {TypeByte, "dmap.supportsquery"},
	"msix": {TypeByte, "dmap.supportsindex"},
	"msrs": {TypeByte, "dmap.supportsresolve"},
	"mstm": {TypeInt, "dmap.timeoutinterval"},
	"msdc": {TypeInt, "dmap.databasescount"},
	"mlog": {TypeContainer, "dmap.loginresponse"},
	"mlid": {TypeInt, "dmap.sessionid"},
	"mupd": {TypeContainer, "dmap.updateresponse"},
	"musr": {TypeInt, "dmap.serverrevision"},
	"muty": {TypeByte, "dmap.updatetype"},
	"mudl": {TypeContainer, "dmap.deletedidlisting"},
	"mccr": {TypeContainer, "dmap.contentcodesresponse"},
	"mcnm": {TypeInt, "dmap.contentcodesnumber"},
	"mcna": {TypeString, "dmap.contentcodesname"},
	"mcty": {TypeShort, "dmap.contentcodestype"},
	"apro": {TypeVersion, "daap.protocolversion"},
	"avdb": {TypeContainer, "daap.serverdatabases"},
	"abro": {TypeContainer, "daap.databasebrowse"},
	"abal": {TypeContainer, "daap.browsealbumlisting"},
	"abar": {TypeContainer, "daap.browseartistlisting"},
	"abcp": {TypeContainer, "daap.browsecomposerlisting"},
	"abgn": {TypeContainer, "daap.browsegenrelisting"},
	"adbs": {TypeContainer, "daap.databasesongs"},
	"asal": {TypeString, "daap.songalbum"},
	"asar": {TypeString, "daap.songartist"},
	"asbt": {TypeShort, "daap.songbeatsperminute"},
	"asbr": {TypeShort, "daap.songbitrate"},
	"ascm": {TypeString, "daap.songcomment"},
	"asco": {TypeByte, "daap.songcompilation"},
	"ascp": {TypeString, "daap.songcomposer"},
	"asda": {TypeDate, "daap.songdateadded"},
	"asdm": {TypeDate, "daap.songdatemodified"},
	"asdc": {TypeShort, "daap.songdisccount"},
	"asdn": {TypeShort, "daap.songdiscnumber"},
	"asdb": {TypeByte, "daap.songdisabled"},
	"aseq": {TypeString, "daap.songeqpreset"},
	"asfm": {TypeString, "daap.songformat"},
	"asgn": {TypeString, "daap.songgenre"},
	"asdt": {TypeString, "daap.songdescription"},
	"asrv": {TypeSignedByte, "daap.songrelativevolume"},
	"assr": {TypeInt, "daap.songsamplerate"},
	"assz": {TypeInt, "daap.songsize"},
	"asst": {TypeInt, "daap.songstarttime"},
	"assp": {TypeInt, "daap.songstoptime"},
	"astm": {TypeInt, "daap.songtime"},
	"astc": {TypeShort, "daap.songtrackcount"},
	"astn": {TypeShort, "daap.songtracknumber"},
	"asur": {TypeByte, "daap.songuserrating"},
	"asyr": {TypeShort, "daap.songyear"},
	"asdk": {TypeByte, "daap.songdatakind"},
	"asul": {TypeString, "daap.songdataurl"},
	"aply": {TypeContainer, "daap.databaseplaylists"},
	"abpl": {TypeByte, "daap.baseplaylist"},
	"apso": {TypeContainer, "daap.playlistsongs"},
	"arsv": {TypeContainer, "daap.resolve"},
	"arif": {TypeContainer, "daap.resolveinfo"},
	"aeNV": {TypeInt, "com.apple.itunes.norm-volume"},
	"aeSP": {TypeByte, "com.apple.itunes.smart-playlist"},
	// iTunes 4.5+
	"msas": {TypeByte, "dmap.authenticationschemes"},
	"ascd": {TypeInt, "daap.songcodectype"},
	"ascs": {TypeInt, "daap.songcodecsubtype"},
	"agrp": {TypeString, "daap.songgrouping"},
	"aeSV": {TypeInt, "com.apple.itunes.music-sharing-version"},
	"aePI": {TypeInt, "com.apple.itunes.itms-playlistid"},
	"aeCI": {TypeInt, "com.apple.iTunes.itms-composerid"},
	"aeGI": {TypeInt, "com.apple.iTunes.itms-genreid"},
	"aeAI": {TypeInt, "com.apple.iTunes.itms-artistid"},
	"aeSI": {TypeInt, "com.apple.iTunes.itms-songid"},
	"aeSF": {TypeInt, "com.apple.iTunes.itms-storefrontid"},
	// iTunes 5.0+
	"ascr": {TypeByte, "daap.songcontentrating"},
	"f\x8dch": {TypeByte, "dmap.haschildcontainers"},
	// iTunes 6.0.2+
	"aeHV": {TypeByte, "com.apple.itunes.has-video"},
	// iTunes 6.0.4+
	"asct": {TypeString, "daap.songcategory"},
	"ascn": {TypeString, "daap.songcontentdescription"},
	"aslc": {TypeString, "daap.songlongcontentdescription"},
	"asky": {TypeString, "daap.songkeywords"},
	"apsm": {TypeByte, "daap.playlistshufflemode"},
	"aprm": {TypeByte, "daap.playlistrepeatmode"},
	"aePC": {TypeByte, "com.apple.itunes.is-podcast"},
	"aePP": {TypeByte, "com.apple.itunes.is-podcast-playlist"},
	"aeMK": {TypeByte, "com.apple.itunes.mediakind"},
	"aeSN": {TypeString, "com.apple.itunes.series-name"},
	"aeNN": {TypeString, "com.apple.itunes.network-name"},
	"aeEN": {TypeString, "com.apple.itunes.episode-num-str"},
	"aeES": {TypeInt, "com.apple.itunes.episode-sort"},
	"aeSU": {TypeInt, "com.apple.itunes.season-num"},
	// server-specific extensions
	"MSPS": {TypeString, "org.owntone.smart-playlist-spec"},
	"MPTY": {TypeByte, "org.owntone.playlist-type"},
	"MAPR": {TypeContainer, "org.owntone.addplaylist"},
	"MAPI": {TypeContainer, "org.owntone.addplaylistitem"},
	"MDPR": {TypeContainer, "org.owntone.delplaylist"},
	"MDPI": {TypeContainer, "org.owntone.delplaylistitem"},
	"MEPR": {TypeContainer, "org.owntone.editplaylist"},
}

// lookupTag resolves a four-byte tag to its registered type and name. The
// second return value is false for any tag outside the static table.
func lookupTag(tag string) (tagInfo, bool) {
	info, ok := tagTable[tag]
	return info, ok
}

// RegisteredName returns the human-readable name for tag, or "" if tag is
// not registered.
func RegisteredName(tag string) string {
	return tagTable[tag].name
}

// TagType returns the registered payload type for tag. ok is false for any
// tag outside the static table.
func TagType(tag string) (typ Type, ok bool) {
	info, ok := tagTable[tag]
	return info.typ, ok
}

// Tags returns every tag in the static table, sorted, for callers that
// enumerate the registry itself (the content-codes response renders one
// entry per registered tag).
func Tags() []string {
	tags := make([]string, 0, len(tagTable))
	for tag := range tagTable {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
