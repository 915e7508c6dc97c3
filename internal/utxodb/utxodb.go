// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package utxodb persists a snapshot of the UTXO set to a goleveldb
// database so a restart can skip re-deriving it from every downloaded
// block. It is purely a cold-start optimization: the
// in-memory map built by blockchain.ApplyBlockToUTXO remains the single
// source of truth while the node runs, and a missing database simply
// means the next run starts from an empty UTXO map and rebuilds it
// during IBD. A stale database is loaded as it is; nothing here checks
// it against the chain.
package utxodb

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"

	"github.com/mbucca/btcnode/blockchain"
	"github.com/mbucca/btcnode/chainhash"
	"github.com/mbucca/btcnode/wire"
)

// Store wraps a goleveldb handle keyed by transaction hash.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if necessary) the snapshot database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot overwrites the database with utxo. It is meant to be
// called once at clean shutdown.
func (s *Store) SaveSnapshot(utxo blockchain.UtxoMap) error {
	batch := new(leveldb.Batch)

	iter := s.db.NewIterator(nil, nil)
	for iter.Next() {
		batch.Delete(cloneKey(iter))
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return err
	}

	for txHash, entries := range utxo {
		key := make([]byte, chainhash.HashSize)
		copy(key, txHash[:])
		value, err := encodeEntries(entries)
		if err != nil {
			return err
		}
		batch.Put(key, value)
	}

	return s.db.Write(batch, nil)
}

// LoadSnapshot reads the whole database back into a UtxoMap.
func (s *Store) LoadSnapshot() (blockchain.UtxoMap, error) {
	utxo := make(blockchain.UtxoMap)

	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	for iter.Next() {
		var txHash chainhash.Hash
		copy(txHash[:], iter.Key())

		entries, err := decodeEntries(iter.Value())
		if err != nil {
			return nil, err
		}
		utxo[txHash] = entries
	}
	return utxo, iter.Error()
}

func cloneKey(iter iterator.Iterator) []byte {
	key := iter.Key()
	out := make([]byte, len(key))
	copy(out, key)
	return out
}

// encodeEntries serializes a transaction's unspent outputs as a varint
// count followed by, per entry, its output index and a standard TxOut
// encoding (value plus length-prefixed pk_script).
func encodeEntries(entries []blockchain.UtxoOutput) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteVarInt(&buf, uint64(len(entries))); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := wire.WriteVarInt(&buf, uint64(e.OutputIndex)); err != nil {
			return nil, err
		}
		if err := writeTxOut(&buf, e.Output); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func decodeEntries(data []byte) ([]blockchain.UtxoOutput, error) {
	r := bytes.NewReader(data)
	count, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	entries := make([]blockchain.UtxoOutput, count)
	for i := range entries {
		index, err := wire.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		out, err := readTxOut(r)
		if err != nil {
			return nil, err
		}
		entries[i] = blockchain.UtxoOutput{Output: out, OutputIndex: uint32(index)}
	}
	return entries, nil
}

func writeTxOut(w io.Writer, out *wire.TxOut) error {
	if err := binary.Write(w, binary.LittleEndian, out.Value); err != nil {
		return err
	}
	return wire.WriteVarBytes(w, out.PkScript)
}

func readTxOut(r io.Reader) (*wire.TxOut, error) {
	out := new(wire.TxOut)
	if err := binary.Read(r, binary.LittleEndian, &out.Value); err != nil {
		return nil, err
	}
	script, err := wire.ReadVarBytes(r, wire.MaxBlockPayload, "pk script")
	if err != nil {
		return nil, err
	}
	out.PkScript = script
	return out, nil
}
