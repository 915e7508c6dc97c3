// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"encoding/hex"
	"testing"

	"github.com/mbucca/btcnode/chainhash"
	"github.com/mbucca/btcnode/wire"
)

// Five testnet tx hashes, already given in the little-endian wire byte
// order wire.MerkleRoot expects.
var testnetTxHashesLE = []string{
	"3bec0ba7b6a530a33d6f5cec64947ca2bc9c7f15dc7b73a33311203a7c53e629",
	"c03c2aa43ba796a6d381106416acd7b8dc5f8305de3cbf4c659b2bf8bfed0f18",
	"bf0175a17bc77f372657f52c67ea5a18f5b3b0fd04e93a8146fe19b484cb3245",
	"aa87fefe302d1cd0634cb1e73f4371f9786787e4968bf87868f397801489a325",
	"2d1293d2e0d5a018feddf157931e2842a650acfbf5606867cc78adbe5293c1f6",
}

func decodeLEHash(t *testing.T, s string) chainhash.Hash {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != chainhash.HashSize {
		t.Fatalf("bad hex fixture %q: %v", s, err)
	}
	var h chainhash.Hash
	copy(h[:], b)
	return h
}

// proofFromLeaves exercises the same level construction
// MerkleProofOfInclusion uses, directly against a leaf list, since these
// fixture hashes aren't real transaction identities to wrap in a block.
func proofFromLeaves(leaves []chainhash.Hash, target chainhash.Hash) ([]MerkleStep, bool) {
	index := -1
	for i, h := range leaves {
		if h == target {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, false
	}
	levels := merkleLevels(leaves)
	var path []MerkleStep
	for l := 0; l < len(levels)-1; l++ {
		level := levels[l]
		if index%2 == 0 {
			path = append(path, MerkleStep{Sibling: level[index+1], OnLeft: false})
		} else {
			path = append(path, MerkleStep{Sibling: level[index-1], OnLeft: true})
		}
		index /= 2
	}
	return path, true
}

func TestMerkleProofRoundTrip(t *testing.T) {
	hashes := make([]chainhash.Hash, len(testnetTxHashesLE))
	for i, s := range testnetTxHashesLE {
		hashes[i] = decodeLEHash(t, s)
	}

	root := wire.MerkleRoot(hashes)
	const wantRoot = "708b03e15c9fd82a7ad28c96f62c1b227dedd221da839a456befb7a81b7569bc"
	if got := hex.EncodeToString(root[:]); got != wantRoot {
		t.Fatalf("merkle root = %s, want %s", got, wantRoot)
	}
	for i, target := range hashes {
		path, ok := proofFromLeaves(hashes, target)
		if !ok {
			t.Fatalf("leaf %d: expected to find proof", i)
		}
		if !VerifyMerkleProof(target, path, root) {
			t.Fatalf("leaf %d: proof failed to verify", i)
		}
	}
}

func TestMerkleProofOfInclusionFromBlock(t *testing.T) {
	tx1 := wire.NewMsgTx(1)
	tx1.AddTxOut(&wire.TxOut{Value: 1, PkScript: []byte{0x01}})
	tx2 := wire.NewMsgTx(1)
	tx2.AddTxOut(&wire.TxOut{Value: 2, PkScript: []byte{0x02}})
	tx3 := wire.NewMsgTx(1)
	tx3.AddTxOut(&wire.TxOut{Value: 3, PkScript: []byte{0x03}})

	block := &wire.MsgBlock{Transactions: []*wire.MsgTx{tx1, tx2, tx3}}
	block.Header.MerkleRoot = block.MerkleRoot()

	for _, tx := range block.Transactions {
		path, ok := MerkleProofOfInclusion(block, tx.TxHash())
		if !ok {
			t.Fatalf("expected to find tx %s in block", tx.TxHash())
		}
		if !VerifyMerkleProof(tx.TxHash(), path, block.Header.MerkleRoot) {
			t.Fatalf("proof for tx %s failed to verify", tx.TxHash())
		}
	}

	var missing chainhash.Hash
	missing[0] = 0xff
	if _, ok := MerkleProofOfInclusion(block, missing); ok {
		t.Fatal("expected missing tx to report not found")
	}
}
