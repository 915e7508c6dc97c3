// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"sync"

	"github.com/mbucca/btcnode/blockchain"
	"github.com/mbucca/btcnode/chainhash"
	"github.com/mbucca/btcnode/log"
	"github.com/mbucca/btcnode/wallet"
	"github.com/mbucca/btcnode/wire"
)

// lastNHeaders is how far back the header-not-included check scans.
// Deliberately shallow; a deeper reorg would re-append.
const lastNHeaders = 10

// Handlers bundles the shared state the dispatch table mutates. UI may
// be nil; events are then dropped.
type Handlers struct {
	Chain  *blockchain.Chain
	Wallet *wallet.Wallet
	Pool   *Pool
	SeenTx *seenTxSet
	UI     *log.UIEventSender
}

// seenTxSetCapacity bounds how many tx hashes the "seen" dedupe set
// remembers before evicting the oldest.
const seenTxSetCapacity = 100000

// seenTxSet is a capacity-bounded, mutex-guarded set of transaction
// hashes already announced via inv. FIFO eviction keeps memory flat
// without remembering every hash forever.
type seenTxSet struct {
	mu       sync.Mutex
	seen     map[chainhash.Hash]struct{}
	order    []chainhash.Hash
	capacity int
}

// NewSeenTxSet builds a seenTxSet that remembers at most capacity
// hashes, evicting the oldest once full.
func NewSeenTxSet(capacity int) *seenTxSet {
	return &seenTxSet{seen: make(map[chainhash.Hash]struct{}, capacity), capacity: capacity}
}

// NewSeenTxFilter is the constructor peer loops actually call,
// preconfigured to seenTxSetCapacity entries.
func NewSeenTxFilter() *seenTxSet {
	return NewSeenTxSet(seenTxSetCapacity)
}

// Contains reports whether hash was already recorded.
func (s *seenTxSet) Contains(hash chainhash.Hash) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[hash]
	return ok
}

// Add records hash, evicting the oldest entry first if the set is at
// capacity.
func (s *seenTxSet) Add(hash chainhash.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[hash]; ok {
		return
	}
	if len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.seen, oldest)
	}
	s.seen[hash] = struct{}{}
	s.order = append(s.order, hash)
}

// Loop runs p's steady-state read/dispatch/write cycle until the
// connection fails or done is closed. Each connected peer
// gets its own goroutine running this.
func Loop(p *Peer, h *Handlers, done <-chan struct{}) {
	writerDone := make(chan struct{})
	go func() {
		p.writerLoop(done)
		close(writerDone)
	}()
	defer func() {
		p.Close()
		<-writerDone
	}()

	logger := log.Logger(log.SubsystemPeer)

	for {
		select {
		case <-done:
			return
		default:
		}

		msg, err := p.ReadMessage()
		if err != nil {
			logger.Warnf("peer %s: read error: %v", p.Addr, err)
			return
		}
		if msg == nil {
			// Unrecognized command: ignore, log only.
			continue
		}

		if err := dispatch(p, h, msg); err != nil {
			logger.Warnf("peer %s: handler error for %s: %v", p.Addr, msg.Command(), err)
			return
		}
	}
}

func dispatch(p *Peer, h *Handlers, msg wire.Message) error {
	switch m := msg.(type) {
	case *wire.MsgHeaders:
		return handleHeaders(p, h, m)
	case *wire.MsgBlock:
		return handleBlock(p, h, m)
	case *wire.MsgInv:
		return handleInv(p, h, m)
	case *wire.MsgGetData:
		return handleGetData(p, h, m)
	case *wire.MsgGetHeaders:
		return handleGetHeaders(p, h, m)
	case *wire.MsgTx:
		return handleTx(p, h, m)
	case *wire.MsgPing:
		return p.Enqueue(&wire.MsgPong{Nonce: m.Nonce})
	default:
		// Unrecognized or uninteresting commands are ignored.
		return nil
	}
}

func handleHeaders(p *Peer, h *Handlers, m *wire.MsgHeaders) error {
	for _, header := range m.Headers {
		if err := blockchain.CheckProofOfWork(header); err != nil {
			continue
		}
		hash := header.BlockHash()
		notIncluded := !h.Chain.IsInLastN(hash, lastNHeaders)
		if _, err := h.Chain.AppendHeader(header); err != nil {
			continue
		}
		if notIncluded {
			inv := &wire.MsgGetData{}
			inv.AddInvVect(wire.NewInvVect(wire.InvTypeBlock, &hash))
			if err := p.Enqueue(inv); err != nil {
				return err
			}
		}
	}
	return nil
}

func handleBlock(p *Peer, h *Handlers, m *wire.MsgBlock) error {
	if err := blockchain.ValidateBlock(m); err != nil {
		// Validation failures are ignored in steady state rather than
		// killing the connection: only I/O and decode errors
		// are fatal to a peer's worker.
		log.Logger(log.SubsystemPeer).Warnf("peer %s: invalid block %s: %v", p.Addr, m.BlockHash(), err)
		return nil
	}
	hash := m.BlockHash()
	if !h.Chain.IsInLastN(hash, lastNHeaders) {
		if _, ok := h.Chain.HeightOf(hash); !ok {
			if _, err := h.Chain.AppendHeader(&m.Header); err != nil {
				return err
			}
		}
	}
	if err := h.Chain.InsertBlock(m); err != nil {
		return err
	}
	h.UI.Send(log.UIEvent{Kind: log.EventAddBlock, Message: hash.String()})
	if h.Wallet != nil {
		for _, tx := range h.Wallet.ReconcilePendingWithBlock(m) {
			h.UI.Send(log.UIEvent{
				Kind:    log.EventShowConfirmedTransaction,
				Message: tx.TxHash().String(),
			})
		}
	}
	return nil
}

func handleInv(p *Peer, h *Handlers, m *wire.MsgInv) error {
	var getData wire.MsgGetData
	for _, inv := range m.InvList {
		if inv.Type != wire.InvTypeTx {
			continue
		}
		if h.SeenTx.Contains(inv.Hash) {
			continue
		}
		h.SeenTx.Add(inv.Hash)
		getData.AddInvVect(inv)
	}
	if len(getData.InvList) == 0 {
		return nil
	}
	return p.Enqueue(&getData)
}

func handleGetData(p *Peer, h *Handlers, m *wire.MsgGetData) error {
	var notFound wire.MsgNotFound
	for _, inv := range m.InvList {
		switch inv.Type {
		case wire.InvTypeTx:
			var tx *wire.MsgTx
			ok := false
			if h.Wallet != nil {
				tx, ok = h.Wallet.FindPendingTx(inv.Hash)
			}
			if !ok {
				notFound.AddInvVect(inv)
				continue
			}
			if err := p.Enqueue(tx); err != nil {
				return err
			}
		case wire.InvTypeBlock:
			block, ok := h.Chain.SearchBlock(inv.Hash)
			if !ok {
				notFound.AddInvVect(inv)
				continue
			}
			if err := p.Enqueue(block); err != nil {
				return err
			}
		}
	}
	if len(notFound.InvList) > 0 {
		return p.Enqueue(&notFound)
	}
	return nil
}

func handleGetHeaders(p *Peer, h *Handlers, m *wire.MsgGetHeaders) error {
	locator := chainhash.Hash{}
	found := false
	for _, hash := range m.BlockLocatorHashes {
		if _, _, ok := h.Chain.SearchHeader(hash); ok {
			locator = hash
			found = true
			break
		}
	}
	if !found {
		genesis, _ := h.Chain.HeaderAt(0)
		locator = genesis.BlockHash()
	}

	headers := h.Chain.HeadersAfter(locator, wire.MaxHeadersPerMsg)
	reply := &wire.MsgHeaders{}
	for _, hdr := range headers {
		if m.HashStop != (chainhash.Hash{}) && hdr.BlockHash() == m.HashStop {
			reply.AddBlockHeader(hdr)
			break
		}
		reply.AddBlockHeader(hdr)
	}
	return p.Enqueue(reply)
}

func handleTx(p *Peer, h *Handlers, m *wire.MsgTx) error {
	if h.Wallet == nil {
		return nil
	}
	h.Wallet.ObserveIncomingTx(m)
	return nil
}
