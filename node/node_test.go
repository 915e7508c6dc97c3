// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"testing"
	"time"

	"github.com/mbucca/btcnode/blockchain"
	"github.com/mbucca/btcnode/chaincfg"
	"github.com/mbucca/btcnode/log"
	"github.com/mbucca/btcnode/txscript"
	"github.com/mbucca/btcnode/wire"
)

const (
	testWIF     = "cMoBjaYS6EraKLNqrNN8DvN93Nnt6pJNfWkYM8pUufYQB5EVZ7SR"
	testAddress = "mnEvYsxexfDEkCx2YLEfzhjrwKKcyAhMqV"
)

func fundAccount(t *testing.T, chain *blockchain.Chain, addr string, value int64) {
	t.Helper()
	genesis, _ := chain.HeaderAt(0)
	header := &wire.BlockHeader{
		Version:    1,
		PrevBlock:  genesis.BlockHash(),
		MerkleRoot: genesis.MerkleRoot,
		Timestamp:  time.Unix(1532420489, 0),
		Bits:       0x20ffffff,
		Nonce:      1,
	}

	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		t.Fatalf("PayToAddrScript: %v", err)
	}
	coinbase := wire.NewMsgTx(1)
	coinbase.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: wire.CoinbaseIndex},
		SignatureScript:  []byte{0x03, 0x01, 0x02, 0x03},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	coinbase.AddTxOut(&wire.TxOut{Value: value, PkScript: script})

	block := &wire.MsgBlock{Header: *header, Transactions: []*wire.MsgTx{coinbase}}
	block.Header.MerkleRoot = block.MerkleRoot()

	if _, err := chain.AppendHeader(&block.Header); err != nil {
		t.Fatalf("AppendHeader: %v", err)
	}
	if err := chain.InsertBlock(block); err != nil {
		t.Fatalf("InsertBlock: %v", err)
	}
}

func TestMakeAndBroadcastTransactionWithNoPeersStillRecordsPending(t *testing.T) {
	chain := blockchain.NewChain(chaincfg.TestNet3Params())
	fundAccount(t, chain, testAddress, 5000000000)

	n := New(chain, nil)
	if _, err := n.AddAccount(testWIF, testAddress); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}

	tx, err := n.MakeAndBroadcastTransaction("mrQQebH69Uxitq6kaUgQ4e4gMeobZxHC3M", 1000, 10)
	if err != nil {
		t.Fatalf("MakeAndBroadcastTransaction: %v", err)
	}

	pending := n.Wallet.Current().Pending()
	if len(pending) != 1 || pending[0].TxHash() != tx.TxHash() {
		t.Fatal("expected the built transaction to be recorded pending despite no peers to broadcast to")
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	chain := blockchain.NewChain(chaincfg.TestNet3Params())
	n := New(chain, nil)

	n.Shutdown()
	n.Shutdown() // must not panic on a second call

	select {
	case <-n.ShutdownSignal():
	default:
		t.Fatal("expected the shutdown signal to be closed")
	}
}

func TestAddAccountFiresUIEvent(t *testing.T) {
	chain := blockchain.NewChain(chaincfg.TestNet3Params())
	sender := log.NewUIEventSender(4)
	n := New(chain, sender)

	if _, err := n.AddAccount(testWIF, testAddress); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}

	select {
	case evt := <-sender.Events():
		if evt.Kind != log.EventAccountAdded {
			t.Fatalf("event kind = %s, want %s", evt.Kind, log.EventAccountAdded)
		}
	default:
		t.Fatal("expected an AccountAdded event on the UI sink")
	}
}
