// SPDX-License-Identifier: GPL-2.0-or-later

package api

import (
	"encoding/xml"
	"net/http"
	"strconv"

	"github.com/owntone/go-libretune-server/internal/browse"
	"github.com/owntone/go-libretune-server/internal/dispatch"
)

// handleRSPInfo is the RSP analog of handleServerInfo: a flat status/info
// document rather than a listing.
func (s *Server) handleRSPInfo(w http.ResponseWriter, r *http.Request, _ dispatch.Params) {
	rspDocument(w, nil, 1, 1, func(enc *xml.Encoder) error {
		if err := writeXMLLeaf(enc, "runtimeinfo", s.LibraryName); err != nil {
			return err
		}
		return writeXMLLeaf(enc, "protoversion", "2.0")
	})
}

// handleRSPDatabase lists the single configured library as RSP's flat
// "db" listing, mirroring handleDatabases' avdb container.
func (s *Server) handleRSPDatabase(w http.ResponseWriter, r *http.Request, _ dispatch.Params) {
	itemCount, containerCount, err := s.counts(r.Context())
	if httpStatus, abort := transportStatus(err); abort {
		http.Error(w, err.Error(), httpStatus)
		return
	}

	rspDocument(w, err, 1, 1, func(enc *xml.Encoder) error {
		wrap := xml.StartElement{Name: xml.Name{Local: "items"}}
		if encErr := enc.EncodeToken(wrap); encErr != nil {
			return encErr
		}
		item := xml.StartElement{Name: xml.Name{Local: "item"}}
		if encErr := enc.EncodeToken(item); encErr != nil {
			return encErr
		}
		if encErr := writeXMLLeaf(enc, "name", s.LibraryName); encErr != nil {
			return encErr
		}
		if encErr := writeXMLLeaf(enc, "itemcount", strconv.Itoa(itemCount)); encErr != nil {
			return encErr
		}
		if encErr := writeXMLLeaf(enc, "containercount", strconv.Itoa(containerCount)); encErr != nil {
			return encErr
		}
		if encErr := enc.EncodeToken(item.End()); encErr != nil {
			return encErr
		}
		return enc.EncodeToken(wrap.End())
	})
}

// handleRSPPlaylist renders one playlist's items, mirroring
// handleContainerItems' apso listing.
func (s *Server) handleRSPPlaylist(w http.ResponseWriter, r *http.Request, params dispatch.Params) {
	plid, _ := strconv.ParseInt(params.Path["plid"], 10, 64)
	cur, total, err := s.runBrowse(r.Context(), browse.QueryPlaylistItems, params, plid)
	writeRSPListing(w, cur, total, err, writeXMLItems)
}

// handleRSPBrowse mirrors handleBrowse: a browse-type value listing
// (album/artist/genre/composer) rendered as flat <item>value</item>
// entries rather than TLV's typed minm fields.
func (s *Server) handleRSPBrowse(w http.ResponseWriter, r *http.Request, params dispatch.Params) {
	kind, ok := browseKinds[params.Path["browsetype"]]
	if !ok {
		http.NotFound(w, r)
		return
	}
	cur, total, err := s.runBrowse(r.Context(), kind.queryType, params, 0)
	writeRSPListing(w, cur, total, err, writeXMLBrowseValues)
}

// writeRSPListing renders a listing response, aborting early on a
// transport-level error and otherwise delegating to rspListingDocument so
// <records> reflects the rows render actually emits.
func writeRSPListing(w http.ResponseWriter, cur *browse.Cursor, total int, err error, render func(enc *xml.Encoder, cur *browse.Cursor) (int, error)) {
	if httpStatus, abort := transportStatus(err); abort {
		http.Error(w, err.Error(), httpStatus)
		return
	}

	if cur == nil {
		rspDocument(w, err, 0, total, nil)
		return
	}
	defer func() { _ = cur.Close() }()

	rspListingDocument(w, err, total, func(enc *xml.Encoder) (int, error) {
		return render(enc, cur)
	})
}

// handleRSPStream is RSP's dedicated streaming endpoint; item ids are a
// plain path segment here (unlike the dmap item endpoint's
// "{itemid}.{ext}" shape), so no extension-splitting is needed.
func (s *Server) handleRSPStream(w http.ResponseWriter, r *http.Request, params dispatch.Params) {
	itemID, err := strconv.ParseInt(params.Path["itemid"], 10, 64)
	if err != nil {
		http.Error(w, "malformed item id", http.StatusBadRequest)
		return
	}
	s.streamItem(w, r, itemID)
}
