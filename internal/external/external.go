// SPDX-License-Identifier: GPL-2.0-or-later

// Package external defines the thin contracts the core calls out through,
// per spec §6: the metadata scanner, the audio/video transcoder, and the
// media-rendering output subsystem all live outside this repository's
// scope. The core only needs to invoke them and tolerate their failure;
// it never implements their logic.
package external

import (
	"context"
	"io"
)

// Scanner is the out-of-scope metadata extraction subsystem. The core
// triggers a rescan but does not perform tag extraction itself.
type Scanner interface {
	Rescan(ctx context.Context) error
}

// Transcoder streams an item's audio/video bytes, transcoding on the fly
// if the requested range or format requires it. The core hands it an item
// id and an HTTP byte range and gets back a stream; it has no opinion on
// codecs or containers.
type Transcoder interface {
	StreamItem(ctx context.Context, itemID int64, rangeHeader string) (io.ReadCloser, error)
}

// Output is the media-rendering subsystem a playback session writes PCM
// frames to. The core only forwards buffers; it does not mix, resample, or
// time them.
type Output interface {
	WritePCM(ctx context.Context, buf []byte, rtpTime int64) error
}
