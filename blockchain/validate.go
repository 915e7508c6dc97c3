// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"errors"

	"github.com/mbucca/btcnode/wire"
)

// ErrMerkleRootMismatch is returned when a block's transactions don't
// hash up to the merkle root its header advertises.
var ErrMerkleRootMismatch = errors.New("blockchain: merkle root mismatch")

// ErrBlockTooLarge is returned when a block's serialized size exceeds
// the 1 MiB limit.
var ErrBlockTooLarge = errors.New("blockchain: serialized size exceeds 1 MiB")

// ValidateBlock checks the three conditions a downloaded block must
// satisfy before it is accepted: the header's proof of work, the
// merkle root over its transactions, and its total serialized size.
func ValidateBlock(block *wire.MsgBlock) error {
	if err := CheckProofOfWork(&block.Header); err != nil {
		return err
	}
	if block.MerkleRoot() != block.Header.MerkleRoot {
		return ErrMerkleRootMismatch
	}
	if block.SerializeSize() > wire.MaxBlockPayload {
		return ErrBlockTooLarge
	}
	return nil
}
