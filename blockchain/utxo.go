// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "github.com/mbucca/btcnode/wire"
import "github.com/mbucca/btcnode/chainhash"

// UtxoOutput is one unspent output belonging to a transaction.
type UtxoOutput struct {
	Output      *wire.TxOut
	OutputIndex uint32
}

// UtxoMap maps a transaction hash to the list of its outputs that remain
// unspent.
type UtxoMap map[chainhash.Hash][]UtxoOutput

// ApplyBlockToUTXO applies every transaction in block to utxo, in block
// order. For each non-coinbase transaction, consumed outpoints are
// removed before the transaction's own outputs are added; the coinbase
// transaction only adds outputs. The function is shared by the IBD
// loader and the live block handler.
func ApplyBlockToUTXO(block *wire.MsgBlock, utxo UtxoMap) {
	for _, tx := range block.Transactions {
		if !tx.IsCoinBase() {
			consume(tx, utxo)
		}
		produce(tx, utxo)
	}
}

func consume(tx *wire.MsgTx, utxo UtxoMap) {
	for _, in := range tx.TxIn {
		hash := in.PreviousOutPoint.Hash
		entries, ok := utxo[hash]
		if !ok {
			continue
		}
		remaining := entries[:0]
		for _, e := range entries {
			if e.OutputIndex != in.PreviousOutPoint.Index {
				remaining = append(remaining, e)
			}
		}
		if len(remaining) == 0 {
			// Nothing left to spend under this hash; drop the entry.
			delete(utxo, hash)
		} else {
			utxo[hash] = remaining
		}
	}
}

func produce(tx *wire.MsgTx, utxo UtxoMap) {
	hash := tx.TxHash()
	entries := make([]UtxoOutput, 0, len(tx.TxOut))
	for i, out := range tx.TxOut {
		entries = append(entries, UtxoOutput{Output: out, OutputIndex: uint32(i)})
	}
	utxo[hash] = append(utxo[hash], entries...)
}
