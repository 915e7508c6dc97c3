// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockchain holds the node's view of the chain: the header
// vector, the downloaded blocks, and the UTXO set derived from them.
//
// Chain groups these three stores behind their own sync.RWMutex rather
// than one big lock so that a header append never blocks a UTXO lookup.
// Callers that need more than one lock at a time must acquire them in
// this order: headers, then blocks, then utxo. The peer pool lock (held
// by the connection-management layer) is always acquired before any
// Chain lock, and the account locks (held by the wallet layer) only
// after, so the full system order is: pool -> headers -> blocks -> utxo
// -> accounts -> per-account.
package blockchain

import (
	"errors"
	"sync"

	"github.com/mbucca/btcnode/chaincfg"
	"github.com/mbucca/btcnode/chainhash"
	"github.com/mbucca/btcnode/wire"
)

// ErrUnknownHeader is returned when a block arrives for a header the
// chain has not seen, or a height/hash lookup misses.
var ErrUnknownHeader = errors.New("blockchain: unknown header")

// ErrDuplicateHeader is returned by AppendHeader when the header is
// already present, identified by hash.
var ErrDuplicateHeader = errors.New("blockchain: duplicate header")

// Chain is the node's mutable view of the best chain it knows about.
// It never reorgs: headers and blocks are only ever appended;
// competing branches are out of scope.
type Chain struct {
	params *chaincfg.Params

	headersMu    sync.RWMutex
	headers      []wire.BlockHeader
	heightByHash map[chainhash.Hash]int32

	blocksMu sync.RWMutex
	blocks   map[chainhash.Hash]*wire.MsgBlock

	utxoMu sync.RWMutex
	utxo   UtxoMap
}

// NewChain builds a Chain seeded with params' genesis header at height 0.
func NewChain(params *chaincfg.Params) *Chain {
	c := &Chain{
		params:       params,
		heightByHash: make(map[chainhash.Hash]int32),
		blocks:       make(map[chainhash.Hash]*wire.MsgBlock),
		utxo:         make(UtxoMap),
	}
	genesis := *params.GenesisBlock
	c.headers = append(c.headers, genesis)
	c.heightByHash[params.GenesisHash] = 0
	return c
}

// AppendHeader validates header's proof of work and appends it at the
// next height. It does not check that header links to the current tip;
// that is the caller's responsibility (the peer/ibd layer, which knows
// which locator it requested headers against).
func (c *Chain) AppendHeader(header *wire.BlockHeader) (int32, error) {
	if err := CheckProofOfWork(header); err != nil {
		return 0, err
	}

	hash := header.BlockHash()

	c.headersMu.Lock()
	defer c.headersMu.Unlock()

	if _, ok := c.heightByHash[hash]; ok {
		return 0, ErrDuplicateHeader
	}
	height := int32(len(c.headers))
	c.headers = append(c.headers, *header)
	c.heightByHash[hash] = height
	return height, nil
}

// AppendHeaders appends each header in order, stopping at the first
// duplicate or invalid header. It returns the number successfully
// appended and the error that stopped it, if any.
func (c *Chain) AppendHeaders(headers []*wire.BlockHeader) (int, error) {
	for i, h := range headers {
		if _, err := c.AppendHeader(h); err != nil {
			return i, err
		}
	}
	return len(headers), nil
}

// HeightOf returns the height of the header identified by hash.
func (c *Chain) HeightOf(hash chainhash.Hash) (int32, bool) {
	c.headersMu.RLock()
	defer c.headersMu.RUnlock()
	height, ok := c.heightByHash[hash]
	return height, ok
}

// HeaderAt returns a copy of the header at height, if within range.
func (c *Chain) HeaderAt(height int32) (wire.BlockHeader, bool) {
	c.headersMu.RLock()
	defer c.headersMu.RUnlock()
	if height < 0 || int(height) >= len(c.headers) {
		return wire.BlockHeader{}, false
	}
	return c.headers[height], true
}

// SearchHeader returns the header identified by hash and its height.
func (c *Chain) SearchHeader(hash chainhash.Hash) (wire.BlockHeader, int32, bool) {
	c.headersMu.RLock()
	defer c.headersMu.RUnlock()
	height, ok := c.heightByHash[hash]
	if !ok {
		return wire.BlockHeader{}, 0, false
	}
	return c.headers[height], height, true
}

// HeaderCount returns the number of headers known, including genesis.
func (c *Chain) HeaderCount() int32 {
	c.headersMu.RLock()
	defer c.headersMu.RUnlock()
	return int32(len(c.headers))
}

// TipHash returns the hash of the highest known header.
func (c *Chain) TipHash() chainhash.Hash {
	c.headersMu.RLock()
	defer c.headersMu.RUnlock()
	tip := c.headers[len(c.headers)-1]
	return tip.BlockHash()
}

// HeadersAfter returns up to limit headers starting immediately after
// locator, for answering a getheaders request. It returns nil if
// locator is not a known header.
func (c *Chain) HeadersAfter(locator chainhash.Hash, limit int) []*wire.BlockHeader {
	c.headersMu.RLock()
	defer c.headersMu.RUnlock()

	start, ok := c.heightByHash[locator]
	if !ok {
		return nil
	}

	var out []*wire.BlockHeader
	for h := start + 1; h < int32(len(c.headers)) && len(out) < limit; h++ {
		header := c.headers[h]
		out = append(out, &header)
	}
	return out
}

// IsInLastN reports whether hash is among the last n headers of the
// chain. The block handler's duplicate check only ever scans the last
// 10 headers, not the whole chain.
func (c *Chain) IsInLastN(hash chainhash.Hash, n int) bool {
	c.headersMu.RLock()
	defer c.headersMu.RUnlock()

	start := len(c.headers) - n
	if start < 0 {
		start = 0
	}
	for i := start; i < len(c.headers); i++ {
		if c.headers[i].BlockHash() == hash {
			return true
		}
	}
	return false
}

// InsertBlock records a fully downloaded block and folds its
// transactions into the UTXO set. The block's header must already be
// known; blocks are only ever requested for known headers. Re-inserting
// a block already present is a no-op, so a retransmitted block can
// never consume the same outputs twice.
func (c *Chain) InsertBlock(block *wire.MsgBlock) error {
	hash := block.Header.BlockHash()
	if _, ok := c.HeightOf(hash); !ok {
		return ErrUnknownHeader
	}

	c.blocksMu.Lock()
	if _, ok := c.blocks[hash]; ok {
		c.blocksMu.Unlock()
		return nil
	}
	c.blocks[hash] = block
	c.blocksMu.Unlock()

	c.utxoMu.Lock()
	ApplyBlockToUTXO(block, c.utxo)
	c.utxoMu.Unlock()

	return nil
}

// SearchBlock returns the block identified by hash, if downloaded.
func (c *Chain) SearchBlock(hash chainhash.Hash) (*wire.MsgBlock, bool) {
	c.blocksMu.RLock()
	defer c.blocksMu.RUnlock()
	block, ok := c.blocks[hash]
	return block, ok
}

// BlockCount returns the number of blocks downloaded so far.
func (c *Chain) BlockCount() int {
	c.blocksMu.RLock()
	defer c.blocksMu.RUnlock()
	return len(c.blocks)
}

// UTXOSnapshot returns a shallow copy of the whole UTXO map, for
// callers (the wallet layer) that need to scan every entry to build a
// per-account view. The per-tx slices are copied; the TxOut pointers
// inside are shared and must be treated as read-only.
func (c *Chain) UTXOSnapshot() UtxoMap {
	c.utxoMu.RLock()
	defer c.utxoMu.RUnlock()

	snap := make(UtxoMap, len(c.utxo))
	for txHash, entries := range c.utxo {
		cp := make([]UtxoOutput, len(entries))
		copy(cp, entries)
		snap[txHash] = cp
	}
	return snap
}

// ReplaceUTXOSet overwrites the chain's whole UTXO map with utxo. It
// exists for startup only, to seed a freshly created Chain from the
// goleveldb restart snapshot before any peer worker
// has a chance to read or write it; callers must not use it once the
// node has started accepting connections.
func (c *Chain) ReplaceUTXOSet(utxo UtxoMap) {
	c.utxoMu.Lock()
	defer c.utxoMu.Unlock()
	c.utxo = utxo
}

// Params returns the network parameters the chain was built with.
func (c *Chain) Params() *chaincfg.Params {
	return c.params
}
