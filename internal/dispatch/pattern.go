// SPDX-License-Identifier: GPL-2.0-or-later

package dispatch

import "strings"

// maxSegments bounds a pattern (and a request path) at ten segments, per
// spec §4.8.
const maxSegments = 10

// wildcard matches any single path segment. A wildcard spelled "*name"
// additionally captures the matched segment under "name".
const wildcard = "*"

// Pattern is a sequence of up to ten path segments. A segment equal to "*"
// (optionally followed by a capture name, e.g. "*id") matches any single
// token. A pattern shorter than the request path never matches --
// spec §4.8's "NULL terminates the pattern and demands the request has no
// further segments" is simply the fact that Match requires equal lengths.
type Pattern struct {
	segments []string
}

// NewPattern builds a Pattern from literal/wildcard segments.
func NewPattern(segments ...string) Pattern {
	return Pattern{segments: segments}
}

// ParsePattern splits a slash-separated pattern string, e.g.
// "rsp/db/*id/browse/*type".
func ParsePattern(s string) Pattern {
	s = strings.Trim(s, "/")
	if s == "" {
		return Pattern{}
	}
	return Pattern{segments: strings.Split(s, "/")}
}

// Match reports whether path (already split into segments) matches p
// exactly: same length, every non-wildcard segment equal. Named wildcard
// segments are captured into vars.
func (p Pattern) Match(path []string) (vars map[string]string, ok bool) {
	if len(path) != len(p.segments) {
		return nil, false
	}
	for i, seg := range p.segments {
		if strings.HasPrefix(seg, wildcard) {
			if name := strings.TrimPrefix(seg, wildcard); name != "" {
				if vars == nil {
					vars = make(map[string]string)
				}
				vars[name] = path[i]
			}
			continue
		}
		if seg != path[i] {
			return nil, false
		}
	}
	return vars, true
}

// SplitPath turns a request path into segments, dropping the leading and
// trailing slash, and rejects paths deeper than maxSegments.
func SplitPath(path string) ([]string, bool) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, true
	}
	segs := strings.Split(path, "/")
	if len(segs) > maxSegments {
		return nil, false
	}
	return segs, true
}
