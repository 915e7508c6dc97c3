// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package headerfile

import (
	"bytes"
	"testing"
	"time"

	"github.com/mbucca/btcnode/chainhash"
	"github.com/mbucca/btcnode/wire"
)

func sampleHeaders(n int) []*wire.BlockHeader {
	headers := make([]*wire.BlockHeader, n)
	prev := chainhash.Hash{}
	for i := range headers {
		h := &wire.BlockHeader{
			Version:    1,
			PrevBlock:  prev,
			MerkleRoot: chainhash.Hash{},
			Timestamp:  time.Unix(1532420489+int64(i), 0),
			Bits:       0x20ffffff,
			Nonce:      uint32(i),
		}
		headers[i] = h
		prev = h.BlockHash()
	}
	return headers
}

func TestRecordSizeIsFixed(t *testing.T) {
	const want = 162003
	if RecordSize != want {
		t.Fatalf("RecordSize = %d, want %d", RecordSize, want)
	}
}

func TestWriteReadRoundTripExactBatch(t *testing.T) {
	headers := sampleHeaders(BatchSize)

	var buf bytes.Buffer
	n, err := WriteBatches(&buf, headers)
	if err != nil {
		t.Fatalf("WriteBatches: %v", err)
	}
	if n != BatchSize {
		t.Fatalf("wrote %d headers, want %d", n, BatchSize)
	}
	if buf.Len() != RecordSize {
		t.Fatalf("file size = %d, want %d", buf.Len(), RecordSize)
	}

	got, err := ReadAll(&buf)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != BatchSize {
		t.Fatalf("read %d headers, want %d", len(got), BatchSize)
	}
	for i := range headers {
		if got[i].BlockHash() != headers[i].BlockHash() {
			t.Fatalf("header %d mismatch after round trip", i)
		}
	}
}

func TestWriteBatchesHoldsBackPartialBatch(t *testing.T) {
	headers := sampleHeaders(BatchSize + 7)

	var buf bytes.Buffer
	n, err := WriteBatches(&buf, headers)
	if err != nil {
		t.Fatalf("WriteBatches: %v", err)
	}
	if n != BatchSize {
		t.Fatalf("wrote %d headers, want exactly one full batch (%d)", n, BatchSize)
	}
	if buf.Len() != RecordSize {
		t.Fatalf("file size = %d, want exactly one record (%d)", buf.Len(), RecordSize)
	}
}

func TestReadAllRejectsTruncatedTrailingRecord(t *testing.T) {
	headers := sampleHeaders(BatchSize)
	var buf bytes.Buffer
	if _, err := WriteBatches(&buf, headers); err != nil {
		t.Fatal(err)
	}

	truncated := bytes.NewReader(buf.Bytes()[:RecordSize-10])
	if _, err := ReadAll(truncated); err != ErrTruncatedRecord {
		t.Fatalf("expected ErrTruncatedRecord, got %v", err)
	}
}
