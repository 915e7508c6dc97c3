// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"
	"time"

	"github.com/mbucca/btcnode/chainhash"
	"github.com/mbucca/btcnode/wire"
)

func headerWithBits(bits uint32) *wire.BlockHeader {
	h := &wire.BlockHeader{
		Version:    1,
		PrevBlock:  chainhash.Hash{},
		MerkleRoot: chainhash.Hash{},
		Timestamp:  time.Unix(1532420489, 0),
		Bits:       bits,
		Nonce:      0,
	}
	return h
}

func TestCheckProofOfWorkEasyTargetPasses(t *testing.T) {
	h := headerWithBits(0x20ffffff)
	if err := CheckProofOfWork(h); err != nil {
		t.Fatalf("expected easy target to pass PoW check, got %v", err)
	}
}

func TestCheckProofOfWorkHardTargetFails(t *testing.T) {
	h := headerWithBits(0x10ffffff)
	if err := CheckProofOfWork(h); err == nil {
		t.Fatal("expected hard target to fail PoW check")
	}
}
