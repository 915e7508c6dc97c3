// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"time"

	"github.com/mbucca/btcnode/chainhash"
)

// BlockHeaderLen is the number of bytes in a serialized block header.
const BlockHeaderLen = 80

// BlockHeader holds metadata identifying a block. Once
// constructed it is treated as immutable.
type BlockHeader struct {
	Version    int32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  time.Time
	Bits       uint32
	Nonce      uint32
}

// BlockHash returns the double-SHA256 of the serialized header, which is
// its identity.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	var buf bytes.Buffer
	_ = h.Marshal(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// Marshal writes the 80-byte on-wire encoding of the header to w.
func (h *BlockHeader) Marshal(w io.Writer) error {
	if err := writeElement(w, leOrder, h.Version); err != nil {
		return err
	}
	if err := writeHash(w, &h.PrevBlock); err != nil {
		return err
	}
	if err := writeHash(w, &h.MerkleRoot); err != nil {
		return err
	}
	if err := writeElement(w, leOrder, uint32(h.Timestamp.Unix())); err != nil {
		return err
	}
	if err := writeElement(w, leOrder, h.Bits); err != nil {
		return err
	}
	return writeElement(w, leOrder, h.Nonce)
}

// Unmarshal reads the 80-byte on-wire encoding of a header from r.
func (h *BlockHeader) Unmarshal(r io.Reader) error {
	if err := readElement(r, leOrder, &h.Version); err != nil {
		return err
	}
	if err := readHash(r, &h.PrevBlock); err != nil {
		return err
	}
	if err := readHash(r, &h.MerkleRoot); err != nil {
		return err
	}
	var ts uint32
	if err := readElement(r, leOrder, &ts); err != nil {
		return err
	}
	h.Timestamp = time.Unix(int64(ts), 0)
	if err := readElement(r, leOrder, &h.Bits); err != nil {
		return err
	}
	return readElement(r, leOrder, &h.Nonce)
}
