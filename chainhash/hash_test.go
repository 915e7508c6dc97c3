// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestHashRoundTrip(t *testing.T) {
	data := []byte("a testnet block header")
	h := DoubleHashH(data)

	s := h.String()
	h2, err := NewHashFromStr(s)
	if err != nil {
		t.Fatalf("NewHashFromStr: %v", err)
	}
	if !h.IsEqual(h2) {
		t.Fatalf("round trip mismatch: %v != %v", h, h2)
	}
}

func TestDoubleHashChecksum(t *testing.T) {
	payload := []byte{}
	sum := DoubleHashB(payload)
	// The empty-payload checksum is a well-known constant.
	got := hex.EncodeToString(sum[:4])
	want := "5df6e0e2"
	if got != want {
		t.Fatalf("empty payload checksum = %s, want %s", got, want)
	}
}

func TestNewHashBadLength(t *testing.T) {
	_, err := NewHash([]byte{1, 2, 3})
	if err == nil {
		t.Fatal("expected error for short hash")
	}
}

func TestSetBytesRoundTrip(t *testing.T) {
	var h Hash
	raw := bytes.Repeat([]byte{0xAB}, HashSize)
	if err := h.SetBytes(raw); err != nil {
		t.Fatalf("SetBytes: %v", err)
	}
	if !bytes.Equal(h.CloneBytes(), raw) {
		t.Fatal("CloneBytes mismatch")
	}
}
