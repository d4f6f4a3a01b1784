// SPDX-License-Identifier: GPL-2.0-or-later

package api

import "github.com/owntone/go-libretune-server/internal/apperr"

// tlvStatus maps an error (or nil) to the media-sharing protocol's
// `mstt`/`msts` pair. The protocol reuses an HTTP-like status number
// inside a 200-OK transport response, per spec §6: "HTTP status 200
// carries a protocol error inside the TLV mstt+msts; transport-level
// 4xx/5xx are reserved for non-protocol failures."
func tlvStatus(err error) (code uint32, msg string) {
	if err == nil {
		return 200, ""
	}
	switch apperr.ClassOf(err) {
	case apperr.ClientMalformed:
		return 400, err.Error()
	case apperr.Transient:
		return 503, "kStoreBusy"
	default:
		return 500, err.Error()
	}
}

// rspStatusCode maps an error (or nil) to the RSP protocol's small integer
// errorcode, per spec §6's `<errorcode>N</errorcode>` shape. 0 means
// success; any non-zero value is a protocol-level failure, independent of
// transport status.
func rspStatusCode(err error) (code int, msg string) {
	if err == nil {
		return 0, ""
	}
	switch apperr.ClassOf(err) {
	case apperr.ClientMalformed:
		return 1, err.Error()
	case apperr.Transient:
		return 2, "store busy"
	default:
		return 3, err.Error()
	}
}

// transportStatus reports whether err should additionally abort the
// response with a transport-level HTTP status rather than being folded
// into the protocol envelope. Per spec §7, ProtocolFraming and Integrity
// are not the client's fault to retry around and are not safely
// recoverable into a well-formed reply; everything else renders as a
// normal (if error-carrying) document.
func transportStatus(err error) (httpStatus int, abort bool) {
	if err == nil {
		return 0, false
	}
	switch apperr.ClassOf(err) {
	case apperr.ProtocolFraming:
		return 400, true
	case apperr.Integrity:
		return 500, true
	default:
		return 0, false
	}
}
