// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package node ties the chain store, wallet, and peer pool together
// into the steady-state object the rest of the program drives: it
// starts a peer.Loop worker for every connection, answers the
// operations the (out-of-core) UI/CLI adapters need, and owns the
// single shutdown signal that unwinds every worker. The wallet holds
// a reference to the same *blockchain.Chain the node does, so the two
// always observe one view of the chain.
package node

import (
	"github.com/mbucca/btcnode/blockchain"
	"github.com/mbucca/btcnode/chainhash"
	"github.com/mbucca/btcnode/internal/corenode"
	"github.com/mbucca/btcnode/log"
	"github.com/mbucca/btcnode/peer"
	"github.com/mbucca/btcnode/wallet"
	"github.com/mbucca/btcnode/wire"
)

// Node bundles the chain, wallet, and peer pool behind the operations
// the rest of the program (server, CLI/UI adapters) calls into.
type Node struct {
	Chain    *blockchain.Chain
	Wallet   *wallet.Wallet
	Pool     *peer.Pool
	Handlers *peer.Handlers
	UIEvents *log.UIEventSender

	shutdown chan struct{}
}

// New builds a Node around an already-downloaded chain (IBD must have
// completed first). uiEvents may be nil; events are then dropped.
func New(chain *blockchain.Chain, uiEvents *log.UIEventSender) *Node {
	w := wallet.New(chain)
	n := &Node{
		Chain:    chain,
		Wallet:   w,
		Pool:     peer.NewPool(),
		UIEvents: uiEvents,
		shutdown: make(chan struct{}),
	}
	n.Handlers = &peer.Handlers{
		Chain:  chain,
		Wallet: w,
		Pool:   n.Pool,
		SeenTx: peer.NewSeenTxFilter(),
		UI:     uiEvents,
	}
	return n
}

// AdoptPool replaces n's empty pool with one already populated by the
// handshake fan-out and/or IBD (both of which run before steady state
// begins and need their own *peer.Pool to hand peers between stages),
// and starts a Loop worker for every peer already in it.
func (n *Node) AdoptPool(pool *peer.Pool) {
	n.Pool = pool
	n.Handlers.Pool = pool
	for _, p := range pool.ActivePeers() {
		n.runLoop(p)
	}
}

// AddConnection registers a freshly handshaked peer (inbound, via the
// server's reverse handshake, or outbound) and starts its steady-state
// worker.
func (n *Node) AddConnection(p *peer.Peer) {
	n.Pool.Add(p)
	n.runLoop(p)
}

func (n *Node) runLoop(p *peer.Peer) {
	go peer.Loop(p, n.Handlers, n.shutdown)
}

// Shutdown sets the shared cancellation flag and closes every active
// peer, dropping its outbound queue, which unwinds every Loop worker
// within one message boundary.
func (n *Node) Shutdown() {
	select {
	case <-n.shutdown:
	default:
		close(n.shutdown)
		for _, p := range n.Pool.ActivePeers() {
			p.Close()
		}
	}
}

// ShutdownSignal exposes the cancellation channel for collaborators
// (the server, IBD's context) that need to observe it too.
func (n *Node) ShutdownSignal() <-chan struct{} {
	return n.shutdown
}

// BroadcastTx announces tx's hash to every connected peer via inv; the
// tx body itself is only ever sent later, in response to a getdata.
func (n *Node) BroadcastTx(tx *wire.MsgTx) error {
	hash := tx.TxHash()
	inv := &wire.MsgInv{}
	inv.AddInvVect(wire.NewInvVect(wire.InvTypeTx, &hash))
	return n.Pool.Broadcast(inv)
}

// MakeAndBroadcastTransaction builds, signs, records, and announces a
// payment from the wallet's active account. A broadcast
// failure (e.g. no peers) does not undo the transaction: it stays
// pending and will be offered again the next time a peer asks for it
// via getdata. Broadcast is best-effort fan-out.
func (n *Node) MakeAndBroadcastTransaction(toAddress string, amount, fee int64) (*wire.MsgTx, error) {
	tx, err := n.Wallet.MakeTransaction(toAddress, amount, fee)
	if err != nil {
		n.UIEvents.Send(log.UIEvent{Kind: log.EventMakeTransactionStatus, Message: err.Error()})
		return nil, err
	}

	if err := n.BroadcastTx(tx); err != nil {
		log.Logger(log.SubsystemWllt).Warnf("broadcasting tx %s: %v", tx.TxHash(), err)
	}

	n.UIEvents.Send(log.UIEvent{Kind: log.EventShowPendingTransaction, Message: tx.TxHash().String()})
	return tx, nil
}

// MerkleProofOfInclusion delegates to the wallet.
func (n *Node) MerkleProofOfInclusion(blockHash, txHash chainhash.Hash) (bool, error) {
	ok, err := n.Wallet.TxProofOfInclusion(blockHash, txHash)
	if err != nil {
		return false, corenode.Wrap(corenode.Other, err)
	}
	return ok, nil
}

// AddAccount delegates to the wallet and fires the matching UI event.
func (n *Node) AddAccount(wif, address string) (*wallet.Account, error) {
	acct, err := n.Wallet.AddAccount(wif, address)
	if err != nil {
		return nil, err
	}
	if err := n.Wallet.RefreshUTXOs(acct); err != nil {
		return nil, err
	}
	n.UIEvents.Send(log.UIEvent{Kind: log.EventAccountAdded, Message: acct.Address})
	return acct, nil
}
