// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestVarIntRoundTrip(t *testing.T) {
	tests := []struct {
		val  uint64
		want string
	}{
		{0, "00"},
		{0xfc, "fc"},
		{0xfd, "fdfd00"},
		{505, "fdf901"},
		{0xffff, "fdffff"},
		{0x10000, "fe00000100"},
		{100000, "fea0860100"},
		{0xffffffff, "feffffffff"},
		{0x100000000, "ff0000000001000000"},
		{5000000000, "ff00f2052a01000000"},
	}

	for _, tc := range tests {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, tc.val); err != nil {
			t.Fatalf("WriteVarInt(%d): %v", tc.val, err)
		}
		if got := hex.EncodeToString(buf.Bytes()); got != tc.want {
			t.Errorf("WriteVarInt(%d) = %s, want %s", tc.val, got, tc.want)
		}

		got, err := ReadVarInt(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("ReadVarInt(%d): %v", tc.val, err)
		}
		if got != tc.val {
			t.Errorf("round trip %d: got %d\n%s", tc.val, got, spew.Sdump(got))
		}
	}
}

func TestVarBytesRoundTrip(t *testing.T) {
	want := []byte("a variable length script")
	var buf bytes.Buffer
	if err := WriteVarBytes(&buf, want); err != nil {
		t.Fatalf("WriteVarBytes: %v", err)
	}
	got, err := ReadVarBytes(&buf, 1<<20, "script")
	if err != nil {
		t.Fatalf("ReadVarBytes: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("round trip mismatch:\n%s", spew.Sdump(got, want))
	}
}

func TestReadVarBytesTooLarge(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteVarInt(&buf, 100)
	if _, err := ReadVarBytes(&buf, 10, "script"); err == nil {
		t.Fatal("expected error for oversized var bytes")
	}
}
