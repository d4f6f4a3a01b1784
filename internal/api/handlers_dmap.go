// SPDX-License-Identifier: GPL-2.0-or-later

package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/owntone/go-libretune-server/internal/apperr"
	"github.com/owntone/go-libretune-server/internal/browse"
	"github.com/owntone/go-libretune-server/internal/dispatch"
	"github.com/owntone/go-libretune-server/internal/eventwait"
	"github.com/owntone/go-libretune-server/internal/logging"
	"github.com/owntone/go-libretune-server/internal/tlv"
)

// sessionCounter hands out media-sharing session ids. A process-local
// monotonic counter is sufficient: session ids only need to be unique for
// the lifetime of one server process, not across restarts.
var sessionCounter atomic.Int64

type browseKind struct {
	queryType browse.QueryType
	tag       string
}

var browseKinds = map[string]browseKind{
	"artist":   {browse.QueryBrowseArtists, "abar"},
	"album":    {browse.QueryBrowseAlbums, "abal"},
	"genre":    {browse.QueryBrowseGenres, "abgn"},
	"composer": {browse.QueryBrowseComposers, "abcp"},
}

func (s *Server) handleServerInfo(w http.ResponseWriter, r *http.Request, _ dispatch.Params) {
	b := tlv.NewBuilder()
	_ = b.PushContainer("msrv")
	code, msg := tlvStatus(nil)
	_ = b.PutInt("mstt", code)
	if msg != "" {
		_ = b.PutString("msts", msg)
	}
	_ = b.PutVersion("mpro", 2, 0)
	_ = b.PutString("minm", s.LibraryName)
	_ = b.PutByte("msau", 0) // no authentication
	_ = b.PutByte("mslr", 0) // login not required
	_ = b.PutByte("msal", 1)
	_ = b.PutByte("msup", 1)
	_ = b.PutByte("mspi", 1)
	_ = b.PutByte("msex", 1)
	_ = b.PutByte("msbr", 1)
	_ = b.PutByte("msqy", 1)
	_ = b.PutByte("msix", 1)
	_ = b.PutByte("msrs", 1)
	_ = b.PutInt("mstm", 1800)
	_ = b.PutInt("msdc", 1)
	_ = b.Pop()
	writeTLV(w, b)
}

func (s *Server) handleContentCodes(w http.ResponseWriter, r *http.Request, _ dispatch.Params) {
	b := tlv.NewBuilder()
	_ = b.PushContainer("mccr")
	code, _ := tlvStatus(nil)
	_ = b.PutInt("mstt", code)
	for _, tag := range tlv.Tags() {
		typ, _ := tlv.TagType(tag)
		_ = b.PushContainer("mdcl")
		_ = b.PutInt("mcnm", tagToUint32(tag))
		_ = b.PutString("mcna", tlv.RegisteredName(tag))
		_ = b.PutShort("mcty", uint16(typ))
		_ = b.Pop()
	}
	_ = b.Pop()
	writeTLV(w, b)
}

func tagToUint32(tag string) uint32 {
	var v uint32
	for i := 0; i < 4 && i < len(tag); i++ {
		v = v<<8 | uint32(tag[i])
	}
	return v
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, _ dispatch.Params) {
	sessionID := sessionCounter.Add(1)

	b := tlv.NewBuilder()
	_ = b.PushContainer("mlog")
	code, _ := tlvStatus(nil)
	_ = b.PutInt("mstt", code)
	_ = b.PutInt("mlid", uint32(sessionID))
	_ = b.Pop()
	writeTLV(w, b)
}

// handleUpdate implements GET /update: a long-poll that blocks until the
// catalog's server revision advances past the client's last-seen value,
// per spec §4.9/§6. A client that sends a websocket Upgrade request gets
// the optional push path instead (internal/eventwait), without changing
// the handler's long-poll behavior for everyone else.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request, _ dispatch.Params) {
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		if err := eventwait.ServeWebSocket(s.Updates, w, r); err != nil {
			logging.Error().Err(err).Msg("api: update websocket")
		}
		return
	}

	since := uint32(0)
	if v := r.URL.Query().Get("revision-number"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			since = uint32(n)
		}
	}

	rev := s.Updates.Wait(r.Context(), since)

	b := tlv.NewBuilder()
	_ = b.PushContainer("mupd")
	code, _ := tlvStatus(nil)
	_ = b.PutInt("mstt", code)
	_ = b.PutInt("musr", rev)
	_ = b.Pop()
	writeTLV(w, b)
}

func (s *Server) handleDatabases(w http.ResponseWriter, r *http.Request, _ dispatch.Params) {
	itemCount, containerCount, err := s.counts(r.Context())
	if _, abort := transportStatus(err); abort {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	b := tlv.NewBuilder()
	_ = b.PushContainer("avdb")
	code, msg := tlvStatus(err)
	_ = b.PutInt("mstt", code)
	if msg != "" {
		_ = b.PutString("msts", msg)
	}
	_ = b.PutInt("mtco", 1)
	_ = b.PutInt("mrco", 1)
	_ = b.PushContainer("mlcl")
	_ = b.PushContainer("mlit")
	_ = b.PutInt("miid", 1)
	_ = b.PutString("minm", s.LibraryName)
	_ = b.PutInt("mimc", uint32(itemCount))
	_ = b.PutInt("mctc", uint32(containerCount))
	_ = b.Pop()
	_ = b.Pop()
	_ = b.Pop()
	writeTLV(w, b)
}

func (s *Server) counts(ctx context.Context) (items, containers int, err error) {
	worker, werr := s.DB.NewWorker(ctx)
	if werr != nil {
		return 0, 0, apperr.New(apperr.Transient, werr)
	}
	defer func() { _ = worker.Close() }()

	if scanErr := worker.QueryRow(ctx, "SELECT COUNT(*) FROM items WHERE disabled = 0").Scan(&items); scanErr != nil {
		return 0, 0, apperr.New(apperr.Transient, scanErr)
	}
	if scanErr := worker.QueryRow(ctx, "SELECT COUNT(*) FROM playlists WHERE disabled = 0").Scan(&containers); scanErr != nil {
		return 0, 0, apperr.New(apperr.Transient, scanErr)
	}
	return items, containers, nil
}

func (s *Server) handleDatabaseItems(w http.ResponseWriter, r *http.Request, params dispatch.Params) {
	cur, total, err := s.runBrowse(r.Context(), browse.QueryItems, params, 0)
	s.writeDMAPListing(w, "adbs", cur, total, err, false)
}

func (s *Server) handleContainers(w http.ResponseWriter, r *http.Request, params dispatch.Params) {
	cur, total, err := s.runBrowse(r.Context(), browse.QueryPlaylists, params, 0)
	s.writeDMAPListing(w, "aply", cur, total, err, false)
}

func (s *Server) handleContainerItems(w http.ResponseWriter, r *http.Request, params dispatch.Params) {
	plid, _ := strconv.ParseInt(params.Path["plid"], 10, 64)
	cur, total, err := s.runBrowse(r.Context(), browse.QueryPlaylistItems, params, plid)
	s.writeDMAPListing(w, "apso", cur, total, err, false)
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request, params dispatch.Params) {
	kind, ok := browseKinds[params.Path["browsetype"]]
	if !ok {
		http.NotFound(w, r)
		return
	}
	cur, total, err := s.runBrowse(r.Context(), kind.queryType, params, 0)

	b := tlv.NewBuilder()
	_ = b.PushContainer("abro")
	code, msg := tlvStatus(err)
	_ = b.PutInt("mstt", code)
	if msg != "" {
		_ = b.PutString("msts", msg)
	}
	records := 0
	if cur != nil {
		_ = b.PutInt("mtco", uint32(total))
		_ = b.PushContainer(kind.tag)
		n, wErr := writeBrowseListing(b, cur)
		if wErr != nil {
			logging.Error().Err(wErr).Msg("api: render browse listing")
		}
		records = n
		_ = b.Pop()
		_ = cur.Close()
	} else {
		_ = b.PutInt("mtco", 0)
	}
	_ = b.PutInt("mrco", uint32(records))
	_ = b.Pop()
	writeTLV(w, b)
}

// writeDMAPListing renders a standard multi-row response: the named
// container, the status block, counts, and the mlcl/mlit listing. If cur
// is nil (a ClientMalformed predicate), the listing is simply omitted and
// the status block carries the error.
func (s *Server) writeDMAPListing(w http.ResponseWriter, container string, cur *browse.Cursor, total int, err error, zeroLength bool) {
	if httpStatus, abort := transportStatus(err); abort {
		http.Error(w, err.Error(), httpStatus)
		return
	}

	b := tlv.NewBuilder()
	_ = b.PushContainer(container)
	code, msg := tlvStatus(err)
	_ = b.PutInt("mstt", code)
	if msg != "" {
		_ = b.PutString("msts", msg)
	}
	_ = b.PutInt("mtco", uint32(total))

	if cur != nil {
		defer func() { _ = cur.Close() }()
		returned, wErr := writeListing(b, cur, zeroLength)
		if wErr != nil {
			logging.Error().Err(wErr).Msg("api: render listing")
		}
		_ = b.PutInt("mrco", uint32(returned))
	} else {
		_ = b.PutInt("mrco", 0)
	}
	_ = b.Pop()
	writeTLV(w, b)
}

func (s *Server) handleDatabaseItem(w http.ResponseWriter, r *http.Request, params dispatch.Params) {
	itemID, ok := parseItemIDSegment(params.Path["itemid"])
	if !ok {
		http.Error(w, "malformed item id", http.StatusBadRequest)
		return
	}
	s.streamItem(w, r, itemID)
}

// parseItemIDSegment splits a "{itemid}.{ext}" path segment, the shape
// spec §6 names for the dmap item endpoint; the extension is informative
// only (clients use it to pick a player), never consulted by the server.
func parseItemIDSegment(seg string) (int64, bool) {
	name := seg
	if i := strings.LastIndexByte(seg, '.'); i >= 0 {
		name = seg[:i]
	}
	id, err := strconv.ParseInt(name, 10, 64)
	return id, err == nil
}

// streamItem hands itemID to the transcoder and copies its stream to the
// response, per spec §4.9: "The stream handler hands the chosen item id to
// the transcoder (external)." A transcoder failure is class External and
// is reported as a 500-class transport error, not folded into a protocol
// envelope -- there is no TLV/XML document to carry it in once streaming
// has begun.
func (s *Server) streamItem(w http.ResponseWriter, r *http.Request, itemID int64) {
	if s.Transcoder == nil {
		http.Error(w, "streaming unavailable", http.StatusServiceUnavailable)
		return
	}

	stream, err := s.Transcoder.StreamItem(r.Context(), itemID, r.Header.Get("Range"))
	if err != nil {
		logging.Error().Err(err).Int64("item_id", itemID).Msg("api: transcoder stream failed")
		http.Error(w, "stream unavailable", http.StatusInternalServerError)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)

	buf := make([]byte, 32*1024)
	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}
		n, readErr := stream.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return
			}
		}
		if readErr != nil {
			return
		}
	}
}
