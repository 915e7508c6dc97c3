// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"
	"time"

	"github.com/mbucca/btcnode/chainhash"
)

func sampleHeader() *BlockHeader {
	return &BlockHeader{
		Version:    1,
		PrevBlock:  chainhash.Hash{0x01},
		MerkleRoot: chainhash.Hash{0x02},
		Timestamp:  time.Unix(1532420489, 0),
		Bits:       0x1d00ffff,
		Nonce:      12345,
	}
}

func TestBlockHeaderRoundTrip(t *testing.T) {
	h := sampleHeader()
	var buf bytes.Buffer
	if err := h.Marshal(&buf); err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if buf.Len() != BlockHeaderLen {
		t.Fatalf("serialized header length = %d, want %d", buf.Len(), BlockHeaderLen)
	}

	var h2 BlockHeader
	if err := h2.Unmarshal(&buf); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if h2 != *h {
		t.Fatalf("round trip mismatch: got %+v, want %+v", h2, *h)
	}
}

func TestMessageFramingChecksum(t *testing.T) {
	msg := &MsgVerAck{}
	var buf bytes.Buffer
	if err := WriteMessage(&buf, msg, TestNet3); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	hdr, err := ReadMessageHeader(&buf, TestNet3)
	if err != nil {
		t.Fatalf("ReadMessageHeader: %v", err)
	}
	if hdr.Command != CmdVerAck {
		t.Fatalf("command = %q, want %q", hdr.Command, CmdVerAck)
	}
	if hdr.Length != 0 {
		t.Fatalf("length = %d, want 0", hdr.Length)
	}
	if hdr.Checksum != emptyChecksum {
		t.Fatalf("checksum = %x, want %x", hdr.Checksum, emptyChecksum)
	}
}

// TestMessageFramingWireMagicBytes pins the exact bytes the magic
// serializes to: a frame must start 0B 11 09 07 for real testnet3
// peers to accept it.
func TestMessageFramingWireMagicBytes(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, &MsgVerAck{}, TestNet3); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	want := []byte{0x0b, 0x11, 0x09, 0x07}
	if !bytes.Equal(buf.Bytes()[:4], want) {
		t.Fatalf("wire magic bytes = %x, want %x", buf.Bytes()[:4], want)
	}
}

func TestReadMessageHeaderWrongMagic(t *testing.T) {
	msg := &MsgVerAck{}
	var buf bytes.Buffer
	if err := WriteMessage(&buf, msg, TestNet3); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	if _, err := ReadMessageHeader(&buf, 0xdeadbeef); err == nil {
		t.Fatal("expected magic mismatch error")
	}
}

func TestTxRoundTripAndCoinbase(t *testing.T) {
	tx := NewMsgTx(1)
	tx.AddTxIn(&TxIn{
		PreviousOutPoint: OutPoint{Hash: chainhash.Hash{}, Index: CoinbaseIndex},
		SignatureScript:  []byte{0x03, 0x01, 0x02, 0x03},
		Sequence:         MaxTxInSequenceNum,
	})
	tx.AddTxOut(&TxOut{Value: 5000000000, PkScript: []byte{0x76, 0xa9, 0x14}})

	if !tx.IsCoinBase() {
		t.Fatal("expected coinbase tx")
	}

	var buf bytes.Buffer
	if err := tx.Marshal(&buf); err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var tx2 MsgTx
	if err := tx2.Unmarshal(&buf); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if tx2.TxHash() != tx.TxHash() {
		t.Fatalf("round trip hash mismatch")
	}
}

// TestCoinbaseRequiresBothConditions pins the AND semantics of coinbase
// detection: a synthetic input with only one of the two coinbase
// conditions must NOT be classified as coinbase.
func TestCoinbaseRequiresBothConditions(t *testing.T) {
	zeroHash := chainhash.Hash{}
	nonZeroHash := chainhash.Hash{0x01}

	onlyIndex := &TxIn{PreviousOutPoint: OutPoint{Hash: nonZeroHash, Index: CoinbaseIndex}}
	if onlyIndex.IsCoinBase() {
		t.Fatal("input with non-zero hash must not be coinbase")
	}

	onlyHash := &TxIn{PreviousOutPoint: OutPoint{Hash: zeroHash, Index: 0}}
	if onlyHash.IsCoinBase() {
		t.Fatal("input with non-0xFFFFFFFF index must not be coinbase")
	}

	both := &TxIn{PreviousOutPoint: OutPoint{Hash: zeroHash, Index: CoinbaseIndex}}
	if !both.IsCoinBase() {
		t.Fatal("input with both conditions must be coinbase")
	}
}

func TestMerkleRootOddLeaves(t *testing.T) {
	h1 := chainhash.HashH([]byte("a"))
	h2 := chainhash.HashH([]byte("b"))
	h3 := chainhash.HashH([]byte("c"))

	root := MerkleRoot([]chainhash.Hash{h1, h2, h3})

	// Manually duplicate the last leaf and recompute to confirm the
	// odd-level rule.
	var buf1 [64]byte
	copy(buf1[0:32], h1[:])
	copy(buf1[32:64], h2[:])
	parent1 := chainhash.DoubleHashH(buf1[:])

	var buf2 [64]byte
	copy(buf2[0:32], h3[:])
	copy(buf2[32:64], h3[:])
	parent2 := chainhash.DoubleHashH(buf2[:])

	var top [64]byte
	copy(top[0:32], parent1[:])
	copy(top[32:64], parent2[:])
	want := chainhash.DoubleHashH(top[:])

	if root != want {
		t.Fatalf("merkle root = %x, want %x", root, want)
	}
}
