// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package headerfile reads and writes the node's on-disk header cache:
// a flat file of fixed-size records, each the exact on-wire encoding of
// a "headers" message payload carrying 2000 headers. Keeping the
// record size fixed lets startup skip
// straight to the network fallback point without parsing the whole
// file as a stream of variable-length messages.
package headerfile

import (
	"bytes"
	"errors"
	"io"

	"github.com/mbucca/btcnode/wire"
)

// BatchSize is the number of headers per on-disk record.
const BatchSize = 2000

// RecordSize is the exact byte length of one record: a 3-byte varint
// count prefix (2000 needs the 0xfd encoding) followed by 2000 headers,
// each 80 bytes plus a 1-byte zero transaction count.
const RecordSize = 3 + BatchSize*(wire.BlockHeaderLen+1)

// ErrTruncatedRecord is returned when the remaining bytes in the file
// don't add up to a whole record.
var ErrTruncatedRecord = errors.New("headerfile: truncated trailing record")

// WriteBatches writes as many complete BatchSize-header records as fit
// in headers, in order. It returns the number of headers actually
// written, which is always a multiple of BatchSize; callers should hold
// back any remainder until a further header makes a full batch.
func WriteBatches(w io.Writer, headers []*wire.BlockHeader) (int, error) {
	written := 0
	for written+BatchSize <= len(headers) {
		batch := &wire.MsgHeaders{Headers: headers[written : written+BatchSize]}
		var buf bytes.Buffer
		if err := batch.Marshal(&buf); err != nil {
			return written, err
		}
		if buf.Len() != RecordSize {
			return written, errors.New("headerfile: unexpected record size")
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return written, err
		}
		written += BatchSize
	}
	return written, nil
}

// ReadAll reads every complete record from r and returns the headers in
// order. A non-empty, incomplete trailing record is reported as
// ErrTruncatedRecord rather than silently dropped.
func ReadAll(r io.Reader) ([]*wire.BlockHeader, error) {
	var out []*wire.BlockHeader
	record := make([]byte, RecordSize)

	for {
		n, err := io.ReadFull(r, record)
		switch {
		case err == io.EOF:
			return out, nil
		case err == io.ErrUnexpectedEOF:
			_ = n
			return out, ErrTruncatedRecord
		case err != nil:
			return out, err
		}

		var msg wire.MsgHeaders
		if err := msg.Unmarshal(bytes.NewReader(record)); err != nil {
			return out, err
		}
		out = append(out, msg.Headers...)
	}
}
