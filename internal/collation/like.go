// SPDX-License-Identifier: GPL-2.0-or-later

// Package collation implements the DAAP collation and custom LIKE operator
// described in spec §4.2, built on top of internal/unicode's fold/strip
// tables. Both are registered as DuckDB scalar functions by internal/database
// so the smart-query compiler and browse engine can reference them from SQL.
package collation

import (
	"errors"
	"unicode/utf8"

	libunicode "github.com/owntone/go-libretune-server/internal/unicode"
)

// MaxPatternBytes bounds the LIKE pattern length to prevent pathological
// backtracking, matching sqlite's SQLITE_MAX_LIKE_PATTERN_LENGTH default.
const MaxPatternBytes = 50000

const (
	matchOne = '_'
	matchAll = '%'
)

// ErrPatternTooLong is returned when a LIKE pattern exceeds MaxPatternBytes.
var ErrPatternTooLong = errors.New("collation: LIKE pattern too complex")

// ErrBadEscape is returned when a supplied ESCAPE argument is not exactly
// one code point.
var ErrBadEscape = errors.New("collation: ESCAPE expression must be a single character")

// Like reports whether subject matches pattern under the '%'/'_' wildcard
// grammar, comparing ordinary code points under fold+strip-simple. escape,
// if non-empty, must decode to exactly one code point and suppresses the
// wildcard meaning of the pattern code point that follows it.
func Like(pattern, subject, escape string) (bool, error) {
	if len(pattern) > MaxPatternBytes {
		return false, ErrPatternTooLong
	}

	var esc rune = -1
	if escape != "" {
		r, size := utf8.DecodeRuneInString(escape)
		if r == utf8.RuneError || size != len(escape) {
			return false, ErrBadEscape
		}
		esc = r
	}

	return likeCompare([]rune(pattern), []rune(subject), esc), nil
}

// likeCompare walks the pattern left to right. A bare '%' is handled by
// collapsing any run of '%'/'_' that immediately follows it (consuming one
// subject code point per '_'), then trying every suffix of the subject in
// turn -- this is the one place true recursion is unavoidable, because each
// candidate suffix spawns an independent match attempt. Per the design note,
// the recursion depth is bounded by the number of '%' wildcards remaining in
// the pattern, not by the subject length, since every recursive call
// consumes at least one pattern token after the '%'.
func likeCompare(pattern, subject []rune, esc rune) bool {
	pi, si := 0, 0
	prevEscape := false

	for pi < len(pattern) {
		pc := pattern[pi]
		pi++

		switch {
		case pc == matchAll && !prevEscape && pc != esc:
			for pi < len(pattern) && (pattern[pi] == matchAll || pattern[pi] == matchOne) {
				if pattern[pi] == matchOne {
					if si >= len(subject) {
						return false
					}
					si++
				}
				pi++
			}
			if pi >= len(pattern) {
				return true
			}
			for si < len(subject) {
				if likeCompare(pattern[pi:], subject[si:], esc) {
					return true
				}
				si++
			}
			return false

		case pc == matchOne && !prevEscape && pc != esc:
			if si >= len(subject) {
				return false
			}
			si++
			prevEscape = false

		case pc == esc && !prevEscape && esc >= 0:
			prevEscape = true

		default:
			if si >= len(subject) {
				return false
			}
			sc := subject[si]
			si++
			if libunicode.Fold(sc, libunicode.StripSimple) != libunicode.Fold(pc, libunicode.StripSimple) {
				return false
			}
			prevEscape = false
		}
	}

	return si == len(subject)
}
