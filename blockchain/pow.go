// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"errors"
	"math/big"

	"github.com/decred/dcrd/blockchain/standalone/v2"

	"github.com/mbucca/btcnode/chainhash"
	"github.com/mbucca/btcnode/wire"
)

// ErrInvalidHeader is returned when a header fails proof-of-work
// validation.
var ErrInvalidHeader = errors.New("invalid header: proof of work check failed")

// CheckProofOfWork reports whether header's hash meets the target implied
// by its Bits field. The compact-to-target conversion is delegated to
// the standalone consensus package; the hash-vs-target comparison is
// done directly since that package's entry point is keyed to its own
// chainhash type.
func CheckProofOfWork(header *wire.BlockHeader) error {
	// CompactToBig reads bit 0x00800000 as a sign flag; a difficulty
	// target is always unsigned, so that bit is treated as the top bit of
	// a 24-bit mantissa instead: it is cleared for the conversion and its
	// weight (0x800000 at the same exponent) is added back afterwards.
	target := standalone.CompactToBig(header.Bits &^ 0x00800000)
	if header.Bits&0x00800000 != 0 {
		high := standalone.CompactToBig(header.Bits&0xff000000 | 0x00400000)
		target.Add(target, high.Lsh(high, 1))
	}
	if target.Sign() <= 0 {
		return ErrInvalidHeader
	}

	hash := header.BlockHash()
	hashNum := hashToBig(hash)
	if hashNum.Cmp(target) > 0 {
		return ErrInvalidHeader
	}
	return nil
}

// hashToBig interprets a hash as a big-endian unsigned integer, reversing
// the internal little-endian byte order used for hashing and display.
func hashToBig(hash chainhash.Hash) *big.Int {
	var reversed chainhash.Hash
	for i := 0; i < chainhash.HashSize; i++ {
		reversed[i] = hash[chainhash.HashSize-1-i]
	}
	return new(big.Int).SetBytes(reversed[:])
}
