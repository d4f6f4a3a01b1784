// SPDX-License-Identifier: GPL-2.0-or-later

package dispatch

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/owntone/go-libretune-server/internal/browse"
)

// ProjectionType is the "type" query-string variable: which field
// projection a browse/items response should use.
type ProjectionType string

const (
	ProjectionDefault ProjectionType = ""
	ProjectionFull    ProjectionType = "full"
	ProjectionBrowse  ProjectionType = "browse"
	ProjectionID      ProjectionType = "id"
)

// QueryVars is the fixed set of query-string variables recognized across
// handlers, per spec §4.8. Unknown query variables are ignored.
type QueryVars struct {
	Predicate   string // "query"
	Offset      int
	HasOffset   bool
	Limit       int
	HasLimit    bool
	Projection  ProjectionType // "type"
	MetaFields  []string       // "meta", comma-separated
	SessionID   string         // "session-id"
}

// ParseQueryVars extracts the recognized variables from a raw query
// string. Malformed numeric values are silently treated as absent rather
// than rejecting the request -- the browse engine's own defaults apply.
func ParseQueryVars(rawQuery string) QueryVars {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return QueryVars{}
	}

	var qv QueryVars
	qv.Predicate = values.Get("query")

	if s := values.Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			qv.Offset = n
			qv.HasOffset = true
		}
	}
	if s := values.Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			qv.Limit = n
			qv.HasLimit = true
		}
	}

	qv.Projection = ProjectionType(values.Get("type"))

	if s := values.Get("meta"); s != "" {
		for _, f := range strings.Split(s, ",") {
			if f = strings.TrimSpace(f); f != "" {
				qv.MetaFields = append(qv.MetaFields, f)
			}
		}
	}

	qv.SessionID = values.Get("session-id")

	return qv
}

// ApplyTo folds the recognized query variables into a browse.Descriptor:
// offset/limit become a Sub index range, type becomes the field
// projection, meta overrides the field list, query becomes the smart
// predicate.
func (qv QueryVars) ApplyTo(qd *browse.Descriptor) {
	if qv.Predicate != "" {
		qd.Predicate = qv.Predicate
	}
	if len(qv.MetaFields) > 0 {
		qd.MetaFields = qv.MetaFields
	}

	switch qv.Projection {
	case ProjectionFull:
		qd.Projection = browse.ProjFull
	case ProjectionBrowse:
		qd.Projection = browse.ProjBrowse
	case ProjectionID:
		qd.Projection = browse.ProjID
	}

	if qv.HasOffset || qv.HasLimit {
		qd.Index = browse.IndexSub
		low := qv.Offset
		high := browse.DefaultIndexHigh
		if qv.HasLimit {
			high = low + qv.Limit
		}
		qd.IndexLow = low
		qd.IndexHigh = high
	}

	if qv.SessionID != "" {
		if n, err := strconv.ParseInt(qv.SessionID, 10, 64); err == nil {
			qd.SessionID = n
		}
	}
}
