// SPDX-License-Identifier: GPL-2.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/owntone/go-libretune-server/internal/apperr"
	"github.com/owntone/go-libretune-server/internal/artwork"
	"github.com/owntone/go-libretune-server/internal/browse"
	"github.com/owntone/go-libretune-server/internal/database"
	"github.com/owntone/go-libretune-server/internal/dispatch"
	"github.com/owntone/go-libretune-server/internal/eventwait"
	"github.com/owntone/go-libretune-server/internal/external"
	"github.com/owntone/go-libretune-server/internal/logging"
)

// Server holds every collaborator a protocol handler needs and owns the
// two wire-format dispatch tables described by spec §4.8/§4.9: one for
// the media-sharing (TLV) URI family, one for its RSP (XML) variant.
type Server struct {
	DB         *database.DB
	Engine     *browse.Engine
	Artwork    *artwork.Store
	Updates    *eventwait.Hub
	Transcoder external.Transcoder

	LibraryName string

	dmap *dispatch.Table
	rsp  *dispatch.Table
}

// NewServer builds a Server and registers every route named in spec §6.
func NewServer(db *database.DB, engine *browse.Engine, art *artwork.Store, updates *eventwait.Hub, transcoder external.Transcoder, libraryName string) *Server {
	s := &Server{
		DB:          db,
		Engine:      engine,
		Artwork:     art,
		Updates:     updates,
		Transcoder:  transcoder,
		LibraryName: libraryName,
		dmap:        dispatch.NewTable(),
		rsp:         dispatch.NewTable(),
	}
	s.registerDMAPRoutes()
	s.registerRSPRoutes()
	return s
}

// Mount attaches both protocol families to r, beneath chi's outer routing
// (path prefix, method matching, the standard middleware chain already
// applied to r). Table.Dispatch does the protocol-level sub-dispatch from
// there -- the split the domain stack's wiring table describes.
func (s *Server) Mount(r chi.Router) {
	r.Get("/server-info", s.dispatchDMAP)
	r.Get("/content-codes", s.dispatchDMAP)
	r.Get("/login", s.dispatchDMAP)
	r.Get("/update", s.dispatchDMAP)
	r.Get("/databases", s.dispatchDMAP)
	r.Get("/databases/{dbid}/items", s.dispatchDMAP)
	r.Get("/databases/{dbid}/items/{itemid}", s.dispatchDMAP)
	r.Get("/databases/{dbid}/containers", s.dispatchDMAP)
	r.Get("/databases/{dbid}/containers/{plid}/items", s.dispatchDMAP)
	r.Get("/databases/{dbid}/browse/{browsetype}", s.dispatchDMAP)

	r.Get("/rsp/info", s.dispatchRSP)
	r.Get("/rsp/db", s.dispatchRSP)
	r.Get("/rsp/db/{plid}", s.dispatchRSP)
	r.Get("/rsp/db/{plid}/{browsetype}", s.dispatchRSP)
	r.Get("/rsp/stream/{itemid}", s.dispatchRSP)
}

// dispatchDMAP and dispatchRSP re-run the already chi-matched path through
// the hand-rolled segment matcher (internal/dispatch), which is what
// actually extracts wildcard captures and query variables for the
// handlers below -- chi's own {dbid}-style captures are not used directly
// so that both protocol families funnel through the one pattern/capture
// mechanism spec §4.8 specifies.
func (s *Server) dispatchDMAP(w http.ResponseWriter, r *http.Request) {
	if !s.dmap.Dispatch(w, r, r.URL.Path, r.URL.RawQuery) {
		http.NotFound(w, r)
	}
}

func (s *Server) dispatchRSP(w http.ResponseWriter, r *http.Request) {
	if !s.rsp.Dispatch(w, r, r.URL.Path, r.URL.RawQuery) {
		http.NotFound(w, r)
	}
}

// runBrowse checks out a worker handle, builds a descriptor from qt and
// params, and runs it through the browse engine. It is the one place
// every listing handler (items, playlists, playlist-items, browse-X)
// goes through.
func (s *Server) runBrowse(ctx context.Context, qt browse.QueryType, params dispatch.Params, plid int64) (*browse.Cursor, int, error) {
	worker, err := s.DB.NewWorker(ctx)
	if err != nil {
		return nil, 0, apperr.New(apperr.Transient, err)
	}
	defer func() {
		if cerr := worker.Close(); cerr != nil {
			logging.Error().Err(cerr).Msg("api: close worker")
		}
	}()

	qd := browse.NewDescriptor(qt)
	qd.PlaylistID = plid
	params.Query.ApplyTo(&qd)

	return s.Engine.Start(ctx, worker, qd)
}
