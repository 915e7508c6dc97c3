// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txscript implements the P2PKH script template, a minimal
// execution engine for it, and a signature-verification cache. Full
// script execution beyond P2PKH is explicitly out of scope.
package txscript

import (
	"bytes"
	"errors"

	"github.com/mbucca/btcnode/address"
	"github.com/mbucca/btcnode/chainhash"
	"github.com/mbucca/btcnode/wire"
)

// Opcodes used by the P2PKH template.
const (
	OpDup         = 0x76
	OpHash160     = 0xa9
	OpData20      = 0x14
	OpEqualVerify = 0x88
	OpCheckSig    = 0xac
)

// P2PKHScriptLen is the fixed length of a P2PKH pk_script.
const P2PKHScriptLen = 25

// Errors returned by script construction/execution.
var (
	ErrNotP2PKH        = errors.New("not a standard P2PKH script")
	ErrScriptExecution = errors.New("script execution failed")
)

// PayToAddrScript builds the canonical 25-byte P2PKH pk_script for
// addr: OP_DUP OP_HASH160 <20> <pubkey-hash> OP_EQUALVERIFY
// OP_CHECKSIG.
func PayToAddrScript(addr string) ([]byte, error) {
	hash, err := address.PubKeyHashFromAddress(addr)
	if err != nil {
		return nil, err
	}
	return payToPubKeyHashScript(hash), nil
}

func payToPubKeyHashScript(pubKeyHash []byte) []byte {
	script := make([]byte, 0, P2PKHScriptLen)
	script = append(script, OpDup, OpHash160, OpData20)
	script = append(script, pubKeyHash...)
	script = append(script, OpEqualVerify, OpCheckSig)
	return script
}

// ExtractPubKeyHash returns the 20-byte pubkey hash embedded in a P2PKH
// pk_script, or ErrNotP2PKH if script does not match the template.
func ExtractPubKeyHash(script []byte) ([]byte, error) {
	if len(script) != P2PKHScriptLen ||
		script[0] != OpDup || script[1] != OpHash160 || script[2] != OpData20 ||
		script[23] != OpEqualVerify || script[24] != OpCheckSig {
		return nil, ErrNotP2PKH
	}
	return script[3:23], nil
}

// SignatureScript builds the scriptSig attached to a P2PKH input:
// <sig||hashType><compressed pubkey>.
func SignatureScript(sig []byte, pubKey []byte) []byte {
	out := make([]byte, 0, 1+len(sig)+1+len(pubKey))
	out = append(out, byte(len(sig)))
	out = append(out, sig...)
	out = append(out, byte(len(pubKey)))
	out = append(out, pubKey...)
	return out
}

// parseSignatureScript splits a P2PKH scriptSig into its signature (with
// trailing sighash byte) and public key components.
func parseSignatureScript(script []byte) (sig, pubKey []byte, err error) {
	if len(script) < 2 {
		return nil, nil, ErrScriptExecution
	}
	sigLen := int(script[0])
	if 1+sigLen >= len(script) {
		return nil, nil, ErrScriptExecution
	}
	sig = script[1 : 1+sigLen]
	rest := script[1+sigLen:]
	if len(rest) < 1 {
		return nil, nil, ErrScriptExecution
	}
	pubKeyLen := int(rest[0])
	if 1+pubKeyLen != len(rest) {
		return nil, nil, ErrScriptExecution
	}
	pubKey = rest[1:]
	return sig, pubKey, nil
}

// VerifyP2PKH runs the P2PKH script (scriptSig followed by the referenced
// previous pk_script) against sigHash, as required to validate a
// newly-signed transaction.
func VerifyP2PKH(scriptSig, prevPkScript, sigHash []byte) error {
	pubKeyHash, err := ExtractPubKeyHash(prevPkScript)
	if err != nil {
		return err
	}
	sig, pubKey, err := parseSignatureScript(scriptSig)
	if err != nil {
		return err
	}

	// OP_DUP OP_HASH160 <pubKeyHash> OP_EQUALVERIFY: the pushed pubkey
	// must hash to the pubKeyHash embedded in the previous output.
	if !bytes.Equal(address.Hash160(pubKey), pubKeyHash) {
		return ErrScriptExecution
	}

	// OP_CHECKSIG: the signature must verify against the pushed pubkey.
	ok, err := address.Verify(sigHash, sig, pubKey)
	if err != nil {
		return err
	}
	if !ok {
		return ErrScriptExecution
	}
	return nil
}

// VerifyP2PKHCached is VerifyP2PKH with a known-valid signature cache
// consulted first and updated on success. cache may be nil, in which
// case every call verifies from scratch.
func VerifyP2PKHCached(scriptSig, prevPkScript, sigHash []byte, cache *SigCache, tx *wire.MsgTx) error {
	if cache == nil {
		return VerifyP2PKH(scriptSig, prevPkScript, sigHash)
	}
	sig, pubKey, err := parseSignatureScript(scriptSig)
	if err != nil {
		return err
	}
	var key chainhash.Hash
	copy(key[:], sigHash)
	if cache.Exists(key, sig, pubKey) {
		return nil
	}
	if err := VerifyP2PKH(scriptSig, prevPkScript, sigHash); err != nil {
		return err
	}
	cache.Add(key, sig, pubKey, tx)
	return nil
}
