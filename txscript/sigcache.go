// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2020 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"crypto/rand"
	"encoding/binary"
	"sync"

	"github.com/dchest/siphash"

	"github.com/mbucca/btcnode/chainhash"
	"github.com/mbucca/btcnode/wire"
)

const shortTxHashKeySize = 16

// sigCacheEntry is one entry of SigCache, keyed by the sighash of the
// signature it validates.
type sigCacheEntry struct {
	sig         []byte
	pubKey      []byte
	shortTxHash uint64
}

// SigCache implements a signature verification cache with randomized
// entry eviction. Wallet validation checks each signed input; the cache
// avoids re-validating the same signature twice, e.g. across a getdata
// retransmit.
type SigCache struct {
	mu             sync.RWMutex
	validSigs      map[chainhash.Hash]sigCacheEntry
	maxEntries     uint
	shortTxHashKey [shortTxHashKeySize]byte
}

// NewSigCache creates a SigCache bounded to maxEntries entries.
func NewSigCache(maxEntries uint) (*SigCache, error) {
	var key [shortTxHashKeySize]byte
	if _, err := rand.Read(key[:]); err != nil {
		return nil, err
	}
	return &SigCache{
		validSigs:      make(map[chainhash.Hash]sigCacheEntry, maxEntries),
		maxEntries:     maxEntries,
		shortTxHashKey: key,
	}, nil
}

// Exists reports whether sig/pubKey is already known-valid for sigHash.
func (s *SigCache) Exists(sigHash chainhash.Hash, sig, pubKey []byte) bool {
	s.mu.RLock()
	entry, ok := s.validSigs[sigHash]
	s.mu.RUnlock()
	return ok && string(entry.pubKey) == string(pubKey) && string(entry.sig) == string(sig)
}

// Add records sig/pubKey as valid for sigHash, evicting a random entry if
// the cache is full.
func (s *SigCache) Add(sigHash chainhash.Hash, sig, pubKey []byte, tx *wire.MsgTx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxEntries == 0 {
		return
	}
	if uint(len(s.validSigs)+1) > s.maxEntries {
		for k := range s.validSigs {
			delete(s.validSigs, k)
			break
		}
	}
	s.validSigs[sigHash] = sigCacheEntry{
		sig:         sig,
		pubKey:      pubKey,
		shortTxHash: s.shortTxHash(tx),
	}
}

func (s *SigCache) shortTxHash(tx *wire.MsgTx) uint64 {
	k0 := binary.LittleEndian.Uint64(s.shortTxHashKey[0:8])
	k1 := binary.LittleEndian.Uint64(s.shortTxHashKey[8:16])
	h := tx.TxHash()
	return siphash.Hash(k0, k1, h[:])
}

// EvictBlock removes every cache entry belonging to a transaction in
// block; once a transaction is confirmed its signatures are no longer
// useful to re-verify.
func (s *SigCache) EvictBlock(block *wire.MsgBlock) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.validSigs) == 0 {
		return
	}
	inBlock := make(map[uint64]struct{}, len(block.Transactions))
	for _, tx := range block.Transactions {
		inBlock[s.shortTxHash(tx)] = struct{}{}
	}
	for k, v := range s.validSigs {
		if _, ok := inBlock[v.shortTxHash]; ok {
			delete(s.validSigs, k)
		}
	}
}
