// SPDX-License-Identifier: GPL-2.0-or-later

package api

import (
	"bytes"
	"encoding/xml"
	"net/http"
	"strconv"

	"github.com/owntone/go-libretune-server/internal/browse"
	"github.com/owntone/go-libretune-server/internal/logging"
)

// rspDocument writes an RSP reply: the XML declaration, a <response>
// root holding the fixed status skeleton from spec §6, then whatever body
// writeBody emits. total is the reported totalrecords; records is the
// number of rows actually emitted.
func rspDocument(w http.ResponseWriter, err error, records, total int, writeBody func(enc *xml.Encoder) error) {
	code, msg := rspStatusCode(err)

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, writeErr := w.Write([]byte(xml.Header)); writeErr != nil {
		return
	}

	enc := xml.NewEncoder(w)
	root := xml.StartElement{Name: xml.Name{Local: "response"}}
	if encErr := enc.EncodeToken(root); encErr != nil {
		logging.Error().Err(encErr).Msg("api: encode rsp root")
		return
	}

	if encErr := writeXMLStatus(enc, code, msg, records, total); encErr != nil {
		logging.Error().Err(encErr).Msg("api: encode rsp status")
		return
	}

	if writeBody != nil {
		if encErr := writeBody(enc); encErr != nil {
			logging.Error().Err(encErr).Msg("api: encode rsp body")
			return
		}
	}

	if encErr := enc.EncodeToken(root.End()); encErr != nil {
		logging.Error().Err(encErr).Msg("api: close rsp root")
		return
	}
	_ = enc.Flush()
}

func writeXMLStatus(enc *xml.Encoder, code int, msg string, records, total int) error {
	start := xml.StartElement{Name: xml.Name{Local: "status"}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := writeXMLLeaf(enc, "errorcode", strconv.Itoa(code)); err != nil {
		return err
	}
	if msg != "" {
		if err := writeXMLLeaf(enc, "errorstring", msg); err != nil {
			return err
		}
	}
	if err := writeXMLLeaf(enc, "records", strconv.Itoa(records)); err != nil {
		return err
	}
	if err := writeXMLLeaf(enc, "totalrecords", strconv.Itoa(total)); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

func writeXMLLeaf(enc *xml.Encoder, name, value string) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if value != "" {
		if err := enc.EncodeToken(xml.CharData(value)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// writeXMLItems renders the cursor's remaining rows as <items><item>
// field-name/value pairs</item>...</items>, using each field's catalog
// column name as its element name. It returns the number of rows
// actually serialized.
func writeXMLItems(enc *xml.Encoder, cur *browse.Cursor) (int, error) {
	wrap := xml.StartElement{Name: xml.Name{Local: "items"}}
	if err := enc.EncodeToken(wrap); err != nil {
		return 0, err
	}
	fields := cur.Fields()
	count := 0
	for cur.Next() {
		item := xml.StartElement{Name: xml.Name{Local: "item"}}
		if err := enc.EncodeToken(item); err != nil {
			return count, err
		}
		row := cur.Row()
		for i, f := range fields {
			if row[i] == "" {
				continue
			}
			if err := writeXMLLeaf(enc, f.Column, row[i]); err != nil {
				return count, err
			}
		}
		if err := enc.EncodeToken(item.End()); err != nil {
			return count, err
		}
		count++
	}
	return count, enc.EncodeToken(wrap.End())
}

// writeXMLBrowseValues renders a browse-type cursor's single-value rows
// as <items><item>value</item>...</items>. It returns the number of rows
// actually serialized.
func writeXMLBrowseValues(enc *xml.Encoder, cur *browse.Cursor) (int, error) {
	wrap := xml.StartElement{Name: xml.Name{Local: "items"}}
	if err := enc.EncodeToken(wrap); err != nil {
		return 0, err
	}
	count := 0
	for cur.Next() {
		row := cur.Row()
		var value string
		if len(row) > 0 {
			value = row[0]
		}
		if err := writeXMLLeaf(enc, "item", value); err != nil {
			return count, err
		}
		count++
	}
	return count, enc.EncodeToken(wrap.End())
}

// rspListingDocument renders an RSP document whose <records> count is
// only known after the body is rendered (it depends on how many rows the
// cursor yields), but <records> must precede the body in document order.
// The body is rendered into memory first so its row count is available
// when the status block is written.
func rspListingDocument(w http.ResponseWriter, err error, total int, renderBody func(enc *xml.Encoder) (int, error)) {
	var buf bytes.Buffer
	bodyEnc := xml.NewEncoder(&buf)
	count, rErr := renderBody(bodyEnc)
	if rErr != nil {
		logging.Error().Err(rErr).Msg("api: render rsp listing body")
	}
	if flushErr := bodyEnc.Flush(); flushErr != nil {
		logging.Error().Err(flushErr).Msg("api: flush rsp listing body")
	}

	rspDocument(w, err, count, total, func(enc *xml.Encoder) error {
		if flushErr := enc.Flush(); flushErr != nil {
			return flushErr
		}
		_, writeErr := w.Write(buf.Bytes())
		return writeErr
	})
}
