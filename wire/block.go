// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/mbucca/btcnode/chainhash"
)

// MsgBlock implements the Message interface and represents a bitcoin
// block.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx
}

// Command returns the protocol command string for a block message.
func (msg *MsgBlock) Command() string { return CmdBlock }

// Marshal writes the block to w: header, then a compact-size tx count,
// then each transaction in order.
func (msg *MsgBlock) Marshal(w io.Writer) error {
	if err := msg.Header.Marshal(w); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.Transactions))); err != nil {
		return err
	}
	for _, tx := range msg.Transactions {
		if err := tx.Marshal(w); err != nil {
			return err
		}
	}
	return nil
}

// Unmarshal reads a block from r.
func (msg *MsgBlock) Unmarshal(r io.Reader) error {
	if err := msg.Header.Unmarshal(r); err != nil {
		return err
	}
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	msg.Transactions = make([]*MsgTx, count)
	for i := range msg.Transactions {
		tx := new(MsgTx)
		if err := tx.Unmarshal(r); err != nil {
			return err
		}
		msg.Transactions[i] = tx
	}
	return nil
}

// BlockHash returns the double-SHA256 hash of the block's header.
func (msg *MsgBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}

// SerializeSize returns the total serialized size of the block in bytes.
func (msg *MsgBlock) SerializeSize() int {
	var buf bytes.Buffer
	_ = msg.Marshal(&buf)
	return buf.Len()
}

// MerkleRoot computes the merkle root of the block's transaction hashes,
// duplicating the last hash at odd-sized levels.
func (msg *MsgBlock) MerkleRoot() chainhash.Hash {
	hashes := make([]chainhash.Hash, len(msg.Transactions))
	for i, tx := range msg.Transactions {
		hashes[i] = tx.TxHash()
	}
	return MerkleRoot(hashes)
}

// MerkleRoot computes the merkle root over leaves, duplicating the final
// leaf of any odd-sized level before pairing.
func MerkleRoot(leaves []chainhash.Hash) chainhash.Hash {
	if len(leaves) == 0 {
		return chainhash.Hash{}
	}
	level := make([]chainhash.Hash, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]chainhash.Hash, len(level)/2)
		for i := 0; i < len(next); i++ {
			var buf [64]byte
			copy(buf[0:32], level[2*i][:])
			copy(buf[32:64], level[2*i+1][:])
			next[i] = chainhash.DoubleHashH(buf[:])
		}
		level = next
	}
	return level[0]
}
