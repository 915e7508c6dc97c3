// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"github.com/mbucca/btcnode/chainhash"
	"github.com/mbucca/btcnode/wire"
)

// MerkleStep is one step of an authentication path: the sibling hash to
// combine with the hash under consideration, and whether the sibling
// belongs on the left.
type MerkleStep struct {
	Sibling chainhash.Hash
	OnLeft  bool
}

// merkleLevels builds every level of the tree bottom-up, leaves first,
// duplicating the final hash of any odd-sized level exactly as
// wire.MerkleRoot does.
func merkleLevels(leaves []chainhash.Hash) [][]chainhash.Hash {
	level := make([]chainhash.Hash, len(leaves))
	copy(level, leaves)

	levels := [][]chainhash.Hash{level}
	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
			levels[len(levels)-1] = level
		}
		next := make([]chainhash.Hash, len(level)/2)
		for i := range next {
			var buf [64]byte
			copy(buf[0:32], level[2*i][:])
			copy(buf[32:64], level[2*i+1][:])
			next[i] = chainhash.DoubleHashH(buf[:])
		}
		levels = append(levels, next)
		level = next
	}
	return levels
}

// MerkleProofOfInclusion builds the authentication path for txHash
// within block, or reports false if txHash is not one of the block's
// transactions.
func MerkleProofOfInclusion(block *wire.MsgBlock, txHash chainhash.Hash) ([]MerkleStep, bool) {
	leaves := make([]chainhash.Hash, len(block.Transactions))
	index := -1
	for i, tx := range block.Transactions {
		leaves[i] = tx.TxHash()
		if leaves[i] == txHash {
			index = i
		}
	}
	if index == -1 {
		return nil, false
	}

	levels := merkleLevels(leaves)

	var path []MerkleStep
	for l := 0; l < len(levels)-1; l++ {
		level := levels[l]
		if index%2 == 0 {
			path = append(path, MerkleStep{Sibling: level[index+1], OnLeft: false})
		} else {
			path = append(path, MerkleStep{Sibling: level[index-1], OnLeft: true})
		}
		index /= 2
	}
	return path, true
}

// VerifyMerkleProof re-hashes txHash up through path and reports whether
// the result equals root.
func VerifyMerkleProof(txHash chainhash.Hash, path []MerkleStep, root chainhash.Hash) bool {
	current := txHash
	for _, step := range path {
		var buf [64]byte
		if step.OnLeft {
			copy(buf[0:32], step.Sibling[:])
			copy(buf[32:64], current[:])
		} else {
			copy(buf[0:32], current[:])
			copy(buf[32:64], step.Sibling[:])
		}
		current = chainhash.DoubleHashH(buf[:])
	}
	return current == root
}
