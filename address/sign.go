// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address

import (
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// SigHashAll is the only sighash type the wallet produces.
const SigHashAll = 0x00000001

// ErrSignatureError is returned when signing or verification fails for a
// reason other than a malformed key.
var ErrSignatureError = errors.New("signature error")

// Sign produces a DER-encoded ECDSA signature over msgHash with the
// SIGHASH_ALL type byte appended, as required when attaching a P2PKH
// scriptSig.
func Sign(msgHash []byte, privKey []byte) ([]byte, error) {
	if len(msgHash) != 32 {
		return nil, ErrSignatureError
	}
	priv := secp256k1.PrivKeyFromBytes(privKey)
	sig := ecdsa.Sign(priv, msgHash)
	der := sig.Serialize()
	out := make([]byte, 0, len(der)+1)
	out = append(out, der...)
	out = append(out, byte(SigHashAll&0xff))
	return out, nil
}

// Verify checks a DER-encoded ECDSA signature (with its trailing sighash
// type byte, which is stripped before verification) over msgHash for the
// given serialized public key.
func Verify(msgHash []byte, sigWithHashType []byte, pubKey []byte) (bool, error) {
	if len(sigWithHashType) < 1 {
		return false, ErrSignatureError
	}
	der := sigWithHashType[:len(sigWithHashType)-1]

	sig, err := ecdsa.ParseDERSignature(der)
	if err != nil {
		return false, ErrSignatureError
	}
	pub, err := secp256k1.ParsePubKey(pubKey)
	if err != nil {
		return false, ErrSignatureError
	}
	return sig.Verify(msgHash, pub), nil
}
