// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the network parameters for testnet Bitcoin:
// magic bytes, default port, genesis header/hash, and address/WIF
// version bytes.
package chaincfg

import (
	"time"

	"github.com/mbucca/btcnode/chainhash"
	"github.com/mbucca/btcnode/wire"
)

// Params groups the network-identifying constants the node needs.
type Params struct {
	Name          string
	Net           uint32
	DefaultPort   string
	PubKeyHashID  byte
	PrivateKeyID  byte
	GenesisBlock  *wire.BlockHeader
	GenesisHash   chainhash.Hash
	PowLimitBits  uint32
}

// TestNet3Params returns the parameters for testnet Bitcoin: on-wire
// magic bytes 0x0B 0x11 0x09 0x07, default port 18333, address version
// byte 0x6F.
func TestNet3Params() *Params {
	genesis := &wire.BlockHeader{
		Version:    1,
		PrevBlock:  chainhash.Hash{},
		MerkleRoot: genesisMerkleRoot,
		Timestamp:  time.Unix(1296688602, 0),
		Bits:       0x1d00ffff,
		Nonce:      414098458,
	}

	return &Params{
		Name:         "testnet3",
		Net:          wire.TestNet3,
		DefaultPort:  "18333",
		PubKeyHashID: 0x6f,
		PrivateKeyID: 0xef,
		GenesisBlock: genesis,
		GenesisHash:  genesis.BlockHash(),
		PowLimitBits: 0x1d00ffff,
	}
}

// genesisMerkleRoot is the well-known merkle root of the single coinbase
// transaction in the testnet3 genesis block.
var genesisMerkleRoot = mustHash("4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b")

func mustHash(s string) chainhash.Hash {
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		panic(err)
	}
	return *h
}
