// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"github.com/mbucca/btcnode/chainhash"
)

// TxProofOfInclusion builds a merkle authentication path for txHash
// within the block identified by blockHash and verifies it re-hashes up
// to that block's merkle root. It
// reports false, with no error, when the block is unknown or the
// transaction isn't one of its own.
func (w *Wallet) TxProofOfInclusion(blockHash, txHash chainhash.Hash) (bool, error) {
	block, ok := w.chain.SearchBlock(blockHash)
	if !ok {
		return false, nil
	}

	path, ok := MerkleProofOfInclusion(block, txHash)
	if !ok {
		return false, nil
	}
	return VerifyMerkleProof(txHash, path, block.Header.MerkleRoot), nil
}
