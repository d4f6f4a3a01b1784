// SPDX-License-Identifier: GPL-2.0-or-later

// Package dispatch implements the request dispatcher described in spec
// §4.8: an ordered table of URI segment patterns, matched top-to-bottom,
// first match wins, plus extraction of the small set of recognized
// query-string variables shared by every protocol handler.
package dispatch
