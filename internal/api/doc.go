// SPDX-License-Identifier: GPL-2.0-or-later

/*
Package api implements the protocol handlers described by spec §4.9: each
handler populates a browse.Descriptor from the dispatch match and query
string, runs it through the browse/enumerate engine, and renders the
result as either a TLV document (the media-sharing protocol) or an XML
document (its RSP variant). Both document shapes share the fixed skeleton
spec §4.9 requires: a status block (errorcode, errorstring, records,
totalrecords) followed by the payload.

Server wires the two internal/dispatch tables (one per wire format) to
chi's outer HTTP router, and carries the collaborators every handler
needs: the catalog database, the browse engine, the artwork store, the
eventwait hub backing GET /update, and the out-of-scope transcoder
collaborator reached through internal/external.
*/
package api
