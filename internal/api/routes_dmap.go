// SPDX-License-Identifier: GPL-2.0-or-later

package api

// registerDMAPRoutes builds the media-sharing URI pattern table from spec
// §6's endpoint list. Each pattern is matched against the path chi's Mount
// handed off, via internal/dispatch's segment matcher.
func (s *Server) registerDMAPRoutes() {
	s.dmap.Add("server-info", s.handleServerInfo)
	s.dmap.Add("content-codes", s.handleContentCodes)
	s.dmap.Add("login", s.handleLogin)
	s.dmap.Add("update", s.handleUpdate)
	s.dmap.Add("databases", s.handleDatabases)
	s.dmap.Add("databases/*dbid/items", s.handleDatabaseItems)
	s.dmap.Add("databases/*dbid/items/*itemid", s.handleDatabaseItem)
	s.dmap.Add("databases/*dbid/containers", s.handleContainers)
	s.dmap.Add("databases/*dbid/containers/*plid/items", s.handleContainerItems)
	s.dmap.Add("databases/*dbid/browse/*browsetype", s.handleBrowse)
}
