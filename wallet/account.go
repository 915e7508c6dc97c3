// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wallet holds per-account UTXO views, unsigned transaction
// construction and signing, pending/confirmed accounting, and merkle
// proof of inclusion.
package wallet

import (
	"sync"

	"github.com/mbucca/btcnode/address"
	"github.com/mbucca/btcnode/blockchain"
	"github.com/mbucca/btcnode/chainhash"
	"github.com/mbucca/btcnode/internal/corenode"
	"github.com/mbucca/btcnode/txscript"
	"github.com/mbucca/btcnode/wire"
)

// Account holds one key pair plus its view into the chain's UTXO set.
type Account struct {
	WIF     string
	PrivKey []byte
	Address string

	mu        sync.RWMutex
	pending   []*wire.MsgTx
	confirmed []*wire.MsgTx
	utxos     []AccountUTXO
}

// Pending returns a copy of the account's pending transaction list.
func (a *Account) Pending() []*wire.MsgTx {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*wire.MsgTx, len(a.pending))
	copy(out, a.pending)
	return out
}

// Confirmed returns a copy of the account's confirmed transaction list.
func (a *Account) Confirmed() []*wire.MsgTx {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*wire.MsgTx, len(a.confirmed))
	copy(out, a.confirmed)
	return out
}

// addPendingIfNew appends tx to the pending list unless a transaction
// with the same hash is already pending or confirmed.
func (a *Account) addPendingIfNew(tx *wire.MsgTx) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	hash := tx.TxHash()
	for _, t := range a.pending {
		if t.TxHash() == hash {
			return false
		}
	}
	for _, t := range a.confirmed {
		if t.TxHash() == hash {
			return false
		}
	}
	a.pending = append(a.pending, tx)
	return true
}

// confirmIfPending moves tx from pending to confirmed if it's present
// there; a transaction lives in exactly one of {pending, confirmed}.
// It reports whether a move happened.
func (a *Account) confirmIfPending(hash chainhash.Hash) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, t := range a.pending {
		if t.TxHash() == hash {
			a.pending = append(a.pending[:i], a.pending[i+1:]...)
			a.confirmed = append(a.confirmed, t)
			return true
		}
	}
	return false
}

func (a *Account) findPending(hash chainhash.Hash) (*wire.MsgTx, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, t := range a.pending {
		if t.TxHash() == hash {
			return t, true
		}
	}
	return nil, false
}

// sigCacheSize bounds the wallet's signature verification cache.
const sigCacheSize = 1000

// Wallet groups every account known to this node, plus the chain it
// reads UTXOs and blocks from.
type Wallet struct {
	chain    *blockchain.Chain
	sigCache *txscript.SigCache

	mu       sync.RWMutex
	accounts []*Account
	current  int
}

// New returns a wallet with no accounts, backed by chain.
func New(chain *blockchain.Chain) *Wallet {
	sc, err := txscript.NewSigCache(sigCacheSize)
	if err != nil {
		sc = nil
	}
	return &Wallet{chain: chain, sigCache: sc}
}

// AddAccount validates wif against address, derives the pubkey from
// the private key, and checks it hashes to address before accepting
// the account.
func (w *Wallet) AddAccount(wif, wantAddress string) (*Account, error) {
	privKey, err := address.WIFDecode(wif)
	if err != nil {
		return nil, err
	}
	derived, err := address.AddressFromPrivKey(privKey)
	if err != nil {
		return nil, err
	}
	if derived != wantAddress {
		return nil, corenode.New(corenode.Arguments, "address does not match the private key")
	}

	acct := &Account{WIF: wif, PrivKey: privKey, Address: wantAddress}

	w.mu.Lock()
	w.accounts = append(w.accounts, acct)
	w.current = len(w.accounts) - 1
	w.mu.Unlock()

	return acct, nil
}

// ChangeAccount selects the account at index as the active account.
func (w *Wallet) ChangeAccount(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if index < 0 || index >= len(w.accounts) {
		return corenode.New(corenode.Arguments, "account index out of range")
	}
	w.current = index
	return nil
}

// Current returns the active account, or nil if none exist.
func (w *Wallet) Current() *Account {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if len(w.accounts) == 0 {
		return nil
	}
	return w.accounts[w.current]
}

// Accounts returns every account known to the wallet.
func (w *Wallet) Accounts() []*Account {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Account, len(w.accounts))
	copy(out, w.accounts)
	return out
}

// GetTransactions returns the active account's pending and confirmed
// transaction lists.
func (w *Wallet) GetTransactions() (pending, confirmed []*wire.MsgTx) {
	acct := w.Current()
	if acct == nil {
		return nil, nil
	}
	return acct.Pending(), acct.Confirmed()
}

// SearchBlock delegates to the chain store.
func (w *Wallet) SearchBlock(hash chainhash.Hash) (*wire.MsgBlock, bool) {
	return w.chain.SearchBlock(hash)
}

// SearchHeader delegates to the chain store.
func (w *Wallet) SearchHeader(hash chainhash.Hash) (wire.BlockHeader, int32, bool) {
	return w.chain.SearchHeader(hash)
}

// FindPendingTx searches every account's pending list for hash (used
// to answer a getdata request for a tx).
func (w *Wallet) FindPendingTx(hash chainhash.Hash) (*wire.MsgTx, bool) {
	for _, acct := range w.Accounts() {
		if tx, ok := acct.findPending(hash); ok {
			return tx, true
		}
	}
	return nil, false
}

// ReconcilePendingWithBlock moves any pending transaction that appears
// in block to confirmed, for every account, and returns the
// transactions that moved so the caller can report them.
func (w *Wallet) ReconcilePendingWithBlock(block *wire.MsgBlock) []*wire.MsgTx {
	if w.sigCache != nil {
		w.sigCache.EvictBlock(block)
	}
	accounts := w.Accounts()
	var confirmed []*wire.MsgTx
	for _, tx := range block.Transactions {
		hash := tx.TxHash()
		moved := false
		for _, acct := range accounts {
			if acct.confirmIfPending(hash) {
				moved = true
			}
		}
		if moved {
			confirmed = append(confirmed, tx)
		}
	}
	return confirmed
}

// ObserveIncomingTx records tx as pending for every account whose
// address matches one of its outputs.
func (w *Wallet) ObserveIncomingTx(tx *wire.MsgTx) {
	accounts := w.Accounts()
	for _, out := range tx.TxOut {
		hash, err := txscript.ExtractPubKeyHash(out.PkScript)
		if err != nil {
			continue
		}
		for _, acct := range accounts {
			acctHash, err := address.PubKeyHashFromAddress(acct.Address)
			if err != nil {
				continue
			}
			if string(acctHash) == string(hash) {
				acct.addPendingIfNew(tx)
			}
		}
	}
}
