// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/mbucca/btcnode/wire"
)

func coinbaseTx() *wire.MsgTx {
	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: wire.CoinbaseIndex},
		SignatureScript:  []byte{0x03, 0x01, 0x02, 0x03},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(&wire.TxOut{Value: 5000000000, PkScript: []byte{0x00}})
	return tx
}

func blockWithOneTx() *wire.MsgBlock {
	tx := coinbaseTx()
	block := &wire.MsgBlock{
		Header: wire.BlockHeader{
			Version: 1,
			Bits:    0x20ffffff,
		},
		Transactions: []*wire.MsgTx{tx},
	}
	block.Header.MerkleRoot = block.MerkleRoot()
	return block
}

func TestValidateBlockAcceptsWellFormedBlock(t *testing.T) {
	block := blockWithOneTx()
	if err := ValidateBlock(block); err != nil {
		t.Fatalf("ValidateBlock: %v", err)
	}
}

func TestValidateBlockRejectsBadProofOfWork(t *testing.T) {
	block := blockWithOneTx()
	block.Header.Bits = 0x10ffffff
	if err := ValidateBlock(block); err != ErrInvalidHeader {
		t.Fatalf("expected ErrInvalidHeader, got %v", err)
	}
}

func TestValidateBlockRejectsMerkleMismatch(t *testing.T) {
	block := blockWithOneTx()
	block.Transactions = append(block.Transactions, coinbaseTx())
	if err := ValidateBlock(block); err != ErrMerkleRootMismatch {
		t.Fatalf("expected ErrMerkleRootMismatch, got %v", err)
	}
}
