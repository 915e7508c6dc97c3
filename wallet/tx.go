// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/mbucca/btcnode/address"
	"github.com/mbucca/btcnode/chainhash"
	"github.com/mbucca/btcnode/internal/corenode"
	"github.com/mbucca/btcnode/txscript"
	"github.com/mbucca/btcnode/wire"
)

// AccountUTXO is one unspent output this account can spend: the owning
// transaction's hash, its output index, and the output itself.
type AccountUTXO struct {
	TxHash chainhash.Hash
	Index  uint32
	Output *wire.TxOut
}

// RefreshUTXOs rebuilds acct's view of the global UTXO set by scanning
// snap for outputs whose pk_script hashes to acct's address. The result is
// ordered by (tx hash, output index) so repeated calls over an unchanged
// snapshot pick the same spending order.
func (w *Wallet) RefreshUTXOs(acct *Account) error {
	pubKeyHash, err := address.PubKeyHashFromAddress(acct.Address)
	if err != nil {
		return err
	}

	snap := w.chain.UTXOSnapshot()
	var owned []AccountUTXO
	for txHash, entries := range snap {
		for _, e := range entries {
			hash, err := txscript.ExtractPubKeyHash(e.Output.PkScript)
			if err != nil || !bytes.Equal(hash, pubKeyHash) {
				continue
			}
			owned = append(owned, AccountUTXO{TxHash: txHash, Index: e.OutputIndex, Output: e.Output})
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].TxHash != owned[j].TxHash {
			return bytes.Compare(owned[i].TxHash[:], owned[j].TxHash[:]) < 0
		}
		return owned[i].Index < owned[j].Index
	})

	acct.mu.Lock()
	acct.utxos = owned
	acct.mu.Unlock()
	return nil
}

// Balance sums the value of every UTXO currently recorded for the
// account.
func (a *Account) Balance() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var total int64
	for _, u := range a.utxos {
		total += u.Output.Value
	}
	return total
}

// hasBalance reports whether the account's balance strictly exceeds
// value. The comparison is intentionally strict: a transaction whose
// total exactly equals the balance is rejected.
func (a *Account) hasBalance(value int64) bool {
	return a.Balance() > value
}

// selectUTXOs picks UTXOs in the account's recorded order until their
// sum exceeds value, or reports false if the whole set doesn't.
func (a *Account) selectUTXOs(value int64) ([]AccountUTXO, int64, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var selected []AccountUTXO
	var sum int64
	for _, u := range a.utxos {
		selected = append(selected, u)
		sum += u.Output.Value
		if sum > value {
			return selected, sum, true
		}
	}
	return nil, 0, false
}

// ErrInsufficientBalance is returned by MakeTransaction when the
// account's UTXOs don't add up to more than amount+fee.
var ErrInsufficientBalance = corenode.New(corenode.Arguments, "insufficient balance")

// MakeTransaction builds, signs, and validates an unsigned P2PKH
// transaction paying amount to toAddress with fee satoshis left for the
// miner, spending the active account's UTXOs and returning any change
// to the account itself. On success the transaction is
// recorded in the account's pending list; the caller is responsible for
// broadcasting an inv for its hash (the tx message itself is only sent
// later, in response to a getdata).
func (w *Wallet) MakeTransaction(toAddress string, amount, fee int64) (*wire.MsgTx, error) {
	acct := w.Current()
	if acct == nil {
		return nil, corenode.New(corenode.Arguments, "no account selected")
	}
	if err := address.ValidateAddress(toAddress); err != nil {
		return nil, err
	}
	if amount <= 0 || fee < 0 {
		return nil, corenode.New(corenode.Arguments, "amount and fee must be positive")
	}

	if err := w.RefreshUTXOs(acct); err != nil {
		return nil, err
	}
	if !acct.hasBalance(amount + fee) {
		return nil, ErrInsufficientBalance
	}

	spend, total, ok := acct.selectUTXOs(amount + fee)
	if !ok {
		return nil, ErrInsufficientBalance
	}

	tx, err := buildUnsignedTx(acct.Address, toAddress, amount, fee, total, spend)
	if err != nil {
		return nil, err
	}
	if err := signTx(tx, acct.PrivKey, spend); err != nil {
		return nil, err
	}
	if err := validateTx(tx, spend, w.sigCache); err != nil {
		return nil, err
	}

	acct.addPendingIfNew(tx)
	return tx, nil
}

func buildUnsignedTx(changeAddress, toAddress string, amount, fee, total int64, spend []AccountUTXO) (*wire.MsgTx, error) {
	tx := wire.NewMsgTx(1)
	for _, u := range spend {
		tx.AddTxIn(&wire.TxIn{
			PreviousOutPoint: wire.OutPoint{Hash: u.TxHash, Index: u.Index},
			Sequence:         wire.MaxTxInSequenceNum,
		})
	}

	toScript, err := txscript.PayToAddrScript(toAddress)
	if err != nil {
		return nil, err
	}
	tx.AddTxOut(&wire.TxOut{Value: amount, PkScript: toScript})

	changeScript, err := txscript.PayToAddrScript(changeAddress)
	if err != nil {
		return nil, err
	}
	tx.AddTxOut(&wire.TxOut{Value: total - amount - fee, PkScript: changeScript})

	return tx, nil
}

// signatureHash computes the hash a P2PKH input's signature is taken
// over: a copy of tx with every input's script emptied except inIndex,
// which is set to prevPkScript, followed by SIGHASH_ALL encoded little-
// endian, single-SHA256'd. Note this is a single hash, not the
// double-SHA256 used for transaction/block identity.
func signatureHash(tx *wire.MsgTx, inIndex int, prevPkScript []byte) []byte {
	copyTx := *tx
	copyTx.TxIn = make([]*wire.TxIn, len(tx.TxIn))
	for i, in := range tx.TxIn {
		cp := *in
		if i == inIndex {
			cp.SignatureScript = prevPkScript
		} else {
			cp.SignatureScript = nil
		}
		copyTx.TxIn[i] = &cp
	}

	var buf bytes.Buffer
	_ = copyTx.Marshal(&buf)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(address.SigHashAll))
	return chainhash.HashB(buf.Bytes())
}

func signTx(tx *wire.MsgTx, privKey []byte, spend []AccountUTXO) error {
	pubKey, err := address.PubKeyFromPrivKey(privKey)
	if err != nil {
		return err
	}
	for i, u := range spend {
		sigHash := signatureHash(tx, i, u.Output.PkScript)
		sig, err := address.Sign(sigHash, privKey)
		if err != nil {
			return err
		}
		tx.TxIn[i].SignatureScript = txscript.SignatureScript(sig, pubKey)
	}
	return nil
}

func validateTx(tx *wire.MsgTx, spend []AccountUTXO, cache *txscript.SigCache) error {
	for i, u := range spend {
		sigHash := signatureHash(tx, i, u.Output.PkScript)
		if err := txscript.VerifyP2PKHCached(tx.TxIn[i].SignatureScript, u.Output.PkScript, sigHash, cache, tx); err != nil {
			return err
		}
	}
	return nil
}
