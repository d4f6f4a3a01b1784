// SPDX-License-Identifier: GPL-2.0-or-later

package dispatch

import "net/http"

// Handler is the capability object invoked on a matched route. It receives
// the path captures (e.g. {"id": "1", "type": "artist"}) extracted by the
// pattern and the parsed query-string variables.
type Handler func(w http.ResponseWriter, r *http.Request, params Params)

// Params is a matched route's combined path captures and recognized
// query-string variables.
type Params struct {
	Path  map[string]string
	Query QueryVars
}

// Route pairs a URI pattern with the handler invoked when it matches.
type Route struct {
	Pattern Pattern
	Handler Handler
}

// Table is an ordered list of (pattern, handler) pairs, scanned
// top-to-bottom with first-match-wins semantics, matching §4.8's "struct
// table of function pointers" design note.
type Table struct {
	routes []Route
}

// NewTable returns an empty dispatch table.
func NewTable() *Table {
	return &Table{}
}

// Add appends a route. Earlier Add calls take priority over later ones
// when patterns overlap.
func (t *Table) Add(pattern string, h Handler) {
	t.routes = append(t.routes, Route{Pattern: ParsePattern(pattern), Handler: h})
}

// Dispatch finds the first route whose pattern matches path and invokes
// its handler with the combined path captures and parsed query variables.
// It returns false if no route matched or the path exceeded the maximum
// segment count.
func (t *Table) Dispatch(w http.ResponseWriter, r *http.Request, path string, rawQuery string) bool {
	segs, ok := SplitPath(path)
	if !ok {
		return false
	}
	for _, route := range t.routes {
		vars, matched := route.Pattern.Match(segs)
		if !matched {
			continue
		}
		route.Handler(w, r, Params{Path: vars, Query: ParseQueryVars(rawQuery)})
		return true
	}
	return false
}
