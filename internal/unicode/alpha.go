// SPDX-License-Identifier: GPL-2.0-or-later

package unicode

import stdunicode "unicode"

// isAlphaUnicode is the alphabetic test IsAlpha applies to every non-ASCII
// code point, Latin/Greek/Cyrillic included; it does not consult the fold
// tables. The collation only needs a binary alphabetic-vs-not
// classification for its tie-break rule, so the standard library's Unicode
// letter tables serve here.
func isAlphaUnicode(c rune) bool {
	return stdunicode.IsLetter(c)
}
