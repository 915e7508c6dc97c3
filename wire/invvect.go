// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/mbucca/btcnode/chainhash"
)

// InvType represents the allowed types of inventory vectors.
type InvType uint32

// Inventory vector types used by the node.
const (
	InvTypeError InvType = 0
	InvTypeTx    InvType = 1
	InvTypeBlock InvType = 2
)

func (t InvType) String() string {
	switch t {
	case InvTypeTx:
		return "MSG_TX"
	case InvTypeBlock:
		return "MSG_BLOCK"
	default:
		return "ERROR"
	}
}

// InvVect defines a bitcoin inventory vector which is used to describe
// data, as specified by the Type field, that a peer wants, has, or does
// not have to another peer.
type InvVect struct {
	Type InvType
	Hash chainhash.Hash
}

// NewInvVect returns a new InvVect using the provided type and hash.
func NewInvVect(typ InvType, hash *chainhash.Hash) *InvVect {
	return &InvVect{Type: typ, Hash: *hash}
}

func (iv *InvVect) marshal(w io.Writer) error {
	if err := writeElement(w, leOrder, uint32(iv.Type)); err != nil {
		return err
	}
	return writeHash(w, &iv.Hash)
}

func (iv *InvVect) unmarshal(r io.Reader) error {
	var t uint32
	if err := readElement(r, leOrder, &t); err != nil {
		return err
	}
	iv.Type = InvType(t)
	return readHash(r, &iv.Hash)
}
