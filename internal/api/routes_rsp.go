// SPDX-License-Identifier: GPL-2.0-or-later

package api

// registerRSPRoutes builds the RSP URI pattern table from spec §6's
// `/rsp/*` endpoint list.
func (s *Server) registerRSPRoutes() {
	s.rsp.Add("rsp/info", s.handleRSPInfo)
	s.rsp.Add("rsp/db", s.handleRSPDatabase)
	s.rsp.Add("rsp/db/*plid", s.handleRSPPlaylist)
	s.rsp.Add("rsp/db/*plid/*browsetype", s.handleRSPBrowse)
	s.rsp.Add("rsp/stream/*itemid", s.handleRSPStream)
}
