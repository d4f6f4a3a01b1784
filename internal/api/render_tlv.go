// SPDX-License-Identifier: GPL-2.0-or-later

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/owntone/go-libretune-server/internal/browse"
	"github.com/owntone/go-libretune-server/internal/logging"
	"github.com/owntone/go-libretune-server/internal/tlv"
)

// writeTLV finalizes b and writes it as the response body, per spec §6:
// HTTP status is always 200 for a well-formed document, even one carrying
// a protocol-level error in its status block.
func writeTLV(w http.ResponseWriter, b *tlv.Builder) {
	body, err := b.Bytes()
	if err != nil {
		logging.Error().Err(err).Msg("api: finalize tlv document")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/x-dmap-tagged")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// putField writes one cursor field into b, typed according to the tag's
// registration in the static tag table. An empty value is suppressed
// unless zeroLength asks to keep it and the tag is a string type; an empty
// value of any other type is always suppressed.
func putField(b *tlv.Builder, tag, value string, zeroLength bool) error {
	if tag == "" {
		return nil
	}
	typ, ok := tlv.TagType(tag)
	if !ok {
		return fmt.Errorf("api: tag %q not registered", tag)
	}
	if value == "" {
		if !zeroLength || typ != tlv.TypeString {
			return nil
		}
		return b.PutString(tag, "")
	}

	switch typ {
	case tlv.TypeString:
		return b.PutString(tag, value)
	case tlv.TypeByte:
		n, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return nil
		}
		return b.PutByte(tag, uint8(n))
	case tlv.TypeSignedByte:
		n, err := strconv.ParseInt(value, 10, 8)
		if err != nil {
			return nil
		}
		return b.PutSignedByte(tag, int8(n))
	case tlv.TypeShort:
		n, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return nil
		}
		return b.PutShort(tag, uint16(n))
	case tlv.TypeInt:
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return nil
		}
		return b.PutInt(tag, uint32(n))
	case tlv.TypeLong:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil
		}
		return b.PutLong(tag, n)
	case tlv.TypeDate:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil
		}
		return b.PutDate(tag, time.Unix(n, 0))
	default:
		return nil
	}
}

// writeListing renders the cursor's remaining rows as a repeated mlit
// container under an mlcl wrapper, the shape the media-sharing protocol
// uses for every multi-row payload (song listings, playlist listings,
// playlist-item listings). It returns the number of rows actually
// serialized, for the caller's mrco field.
func writeListing(b *tlv.Builder, cur *browse.Cursor, zeroLength bool) (int, error) {
	if err := b.PushContainer("mlcl"); err != nil {
		return 0, err
	}
	fields := cur.Fields()
	count := 0
	for cur.Next() {
		if err := b.PushContainer("mlit"); err != nil {
			return count, err
		}
		row := cur.Row()
		for i, f := range fields {
			if err := putField(b, f.Tag, row[i], zeroLength); err != nil {
				return count, err
			}
		}
		if err := b.Pop(); err != nil {
			return count, err
		}
		count++
	}
	return count, b.Pop()
}

// writeBrowseListing renders a browse-type cursor (a single unlabeled
// value column, as browse.Engine.Start builds it for browse query types)
// as a repeated mlit container
// each holding one minm (item-name) field -- the browse response's value
// listing. It returns the number of rows actually serialized.
func writeBrowseListing(b *tlv.Builder, cur *browse.Cursor) (int, error) {
	if err := b.PushContainer("mlcl"); err != nil {
		return 0, err
	}
	count := 0
	for cur.Next() {
		if err := b.PushContainer("mlit"); err != nil {
			return count, err
		}
		row := cur.Row()
		var value string
		if len(row) > 0 {
			value = row[0]
		}
		if err := putField(b, "minm", value, true); err != nil {
			return count, err
		}
		if err := b.Pop(); err != nil {
			return count, err
		}
		count++
	}
	return count, b.Pop()
}
