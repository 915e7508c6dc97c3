// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package address implements WIF decoding, Base58Check, and P2PKH address
// derivation for testnet Bitcoin.
package address

import (
	"bytes"
	"crypto/sha256"
	"errors"

	"github.com/EXCCoin/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/ripemd160"

	"github.com/mbucca/btcnode/chainhash"
)

// TestNetAddrID is the version byte prefixing a testnet P2PKH address.
const TestNetAddrID = 0x6f

// TestNetWIFID is the version byte prefixing a testnet WIF private key.
const TestNetWIFID = 0xef

const (
	privKeyBytesLen = 32
	cksumBytesLen   = 4
	addressLen      = 34

	// wifUncompressedLen and wifCompressedLen are the two legal decoded
	// lengths of a WIF string: 1 netID + 32 key [+ 1
	// compression flag] + 4 checksum.
	wifUncompressedLen = 1 + privKeyBytesLen + cksumBytesLen
	wifCompressedLen   = wifUncompressedLen + 1
)

// Errors returned by this package.
var (
	ErrInvalidWifLength = errors.New("invalid wif length")
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrInvalidAddress   = errors.New("invalid address")
)

// Hash160 computes RIPEMD160(SHA256(b)), the pubkey-hash function used by
// P2PKH addresses.
func Hash160(b []byte) []byte {
	sum := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}

func checksum(b []byte) []byte {
	return chainhash.DoubleHashB(b)[:cksumBytesLen]
}

// base58CheckEncode appends a version byte and checksum, then Base58
// encodes the result.
func base58CheckEncode(version byte, payload []byte) string {
	buf := make([]byte, 0, 1+len(payload)+cksumBytesLen)
	buf = append(buf, version)
	buf = append(buf, payload...)
	buf = append(buf, checksum(buf)...)
	return base58.Encode(buf)
}

// base58CheckDecode reverses base58CheckEncode, validating the checksum.
func base58CheckDecode(s string) (version byte, payload []byte, err error) {
	decoded := base58.Decode(s)
	if len(decoded) < 1+cksumBytesLen {
		return 0, nil, ErrInvalidAddress
	}
	body := decoded[:len(decoded)-cksumBytesLen]
	sum := decoded[len(decoded)-cksumBytesLen:]
	if !bytes.Equal(checksum(body), sum) {
		return 0, nil, ErrChecksumMismatch
	}
	return body[0], body[1:], nil
}

// WIFDecode decodes a Wallet Import Format string into the raw 32-byte
// private key it encodes.
func WIFDecode(wif string) ([]byte, error) {
	decoded := base58.Decode(wif)

	switch len(decoded) {
	case wifCompressedLen, wifUncompressedLen:
	default:
		return nil, ErrInvalidWifLength
	}

	tosumLen := len(decoded) - cksumBytesLen
	tosum := decoded[:tosumLen]
	sum := checksum(tosum)
	if !bytes.Equal(sum, decoded[tosumLen:]) {
		return nil, ErrChecksumMismatch
	}

	privKey := decoded[1 : 1+privKeyBytesLen]

	out := make([]byte, privKeyBytesLen)
	copy(out, privKey)
	return out, nil
}

// WIFEncode encodes a 32-byte testnet private key as a compressed WIF
// string.
func WIFEncode(privKey []byte) (string, error) {
	if len(privKey) != privKeyBytesLen {
		return "", ErrInvalidWifLength
	}
	payload := make([]byte, 0, privKeyBytesLen+1)
	payload = append(payload, privKey...)
	payload = append(payload, 0x01) // compressed flag
	return base58CheckEncode(TestNetWIFID, payload), nil
}

// AddressFromPrivKey derives the compressed-pubkey P2PKH testnet address
// for a raw 32-byte private key.
func AddressFromPrivKey(privKey []byte) (string, error) {
	if len(privKey) != privKeyBytesLen {
		return "", ErrInvalidWifLength
	}
	priv := secp256k1.PrivKeyFromBytes(privKey)
	return AddressFromPubKey(priv.PubKey().SerializeCompressed())
}

// PubKeyFromPrivKey derives the serialized compressed public key for a
// raw 32-byte private key.
func PubKeyFromPrivKey(privKey []byte) ([]byte, error) {
	if len(privKey) != privKeyBytesLen {
		return nil, ErrInvalidWifLength
	}
	priv := secp256k1.PrivKeyFromBytes(privKey)
	return priv.PubKey().SerializeCompressed(), nil
}

// AddressFromPubKey derives the P2PKH testnet address for a serialized
// public key (compressed or uncompressed).
func AddressFromPubKey(pubKey []byte) (string, error) {
	hash := Hash160(pubKey)
	return base58CheckEncode(TestNetAddrID, hash), nil
}

// PubKeyHashFromAddress decodes a P2PKH address into its 20-byte pubkey
// hash.
func PubKeyHashFromAddress(addr string) ([]byte, error) {
	if err := ValidateAddress(addr); err != nil {
		return nil, err
	}
	version, payload, err := base58CheckDecode(addr)
	if err != nil {
		return nil, err
	}
	if version != TestNetAddrID {
		return nil, ErrInvalidAddress
	}
	if len(payload) != ripemd160.Size {
		return nil, ErrInvalidAddress
	}
	return payload, nil
}

// ValidateAddress reports whether addr has the correct length and a valid
// Base58Check encoding.
func ValidateAddress(addr string) error {
	if len(addr) != addressLen {
		return ErrInvalidAddress
	}
	_, payload, err := base58CheckDecode(addr)
	if err != nil {
		return err
	}
	if len(payload) != ripemd160.Size {
		return ErrInvalidAddress
	}
	return nil
}
