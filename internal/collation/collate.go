// SPDX-License-Identifier: GPL-2.0-or-later

package collation

import (
	"strings"
	"unicode/utf8"

	libunicode "github.com/owntone/go-libretune-server/internal/unicode"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var foldCaser = cases.Fold()

// Compare implements the "DAAP" collation: two UTF-8 strings are ordered by
// their first code point's alphabetic-vs-not class (non-alphabetic sorts
// after alphabetic), then by a case-and-diacritic-insensitive comparison of
// the whole string. It returns a negative number, zero, or a positive number
// as a < b, a == b, or a > b, matching the sqlite3_create_collation contract.
func Compare(a, b string) int {
	lch, _ := utf8.DecodeRuneInString(a)
	rch, _ := utf8.DecodeRuneInString(b)

	lalpha := libunicode.IsAlpha(lch)
	ralpha := libunicode.IsAlpha(rch)

	if !lalpha && ralpha {
		return 1
	}
	if lalpha && !ralpha {
		return -1
	}

	return foldedCompare(a, b)
}

// foldedCompare compares a and b case- and normalization-insensitively: both
// sides are decomposed to NFD and Unicode case-folded before a byte
// comparison, mirroring the original collation's use of libunistring's
// u8_casecmp with UNINORM_NFD (a general-purpose call, unlike the hand-rolled
// tables LIKE uses on its hot path -- the collation is not evaluated nearly
// as often, so the heavier call is an acceptable trade for correctness
// across the full Unicode range).
func foldedCompare(a, b string) int {
	an := foldCaser.String(norm.NFD.String(a))
	bn := foldCaser.String(norm.NFD.String(b))
	return strings.Compare(an, bn)
}
