// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/mbucca/btcnode/chainhash"
)

// CoinbaseIndex is the outpoint index that, together with an all-zero
// outpoint hash, identifies a coinbase input.
const CoinbaseIndex = 0xffffffff

// MaxTxInSequenceNum is the default (final) sequence number.
const MaxTxInSequenceNum uint32 = 0xffffffff

// OutPoint defines a bitcoin data type that is used to track previous
// transaction outputs.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new bitcoin transaction outpoint.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{Hash: *hash, Index: index}
}

func (o *OutPoint) marshal(w io.Writer) error {
	if err := writeHash(w, &o.Hash); err != nil {
		return err
	}
	return writeElement(w, leOrder, o.Index)
}

func (o *OutPoint) unmarshal(r io.Reader) error {
	if err := readHash(r, &o.Hash); err != nil {
		return err
	}
	return readElement(r, leOrder, &o.Index)
}

// TxIn defines a bitcoin transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32

	// The coinbase input's height prefix is parsed out of
	// SignatureScript lazily by the blockchain package, not stored here.
}

// IsCoinBase reports whether in is the single coinbase input of a
// transaction: the outpoint hash is all-zero AND the index is
// CoinbaseIndex. Both conditions are required.
func (in *TxIn) IsCoinBase() bool {
	return in.PreviousOutPoint.Index == CoinbaseIndex &&
		in.PreviousOutPoint.Hash == (chainhash.Hash{})
}

func (in *TxIn) marshal(w io.Writer) error {
	if err := in.PreviousOutPoint.marshal(w); err != nil {
		return err
	}
	if err := WriteVarBytes(w, in.SignatureScript); err != nil {
		return err
	}
	return writeElement(w, leOrder, in.Sequence)
}

func (in *TxIn) unmarshal(r io.Reader) error {
	if err := in.PreviousOutPoint.unmarshal(r); err != nil {
		return err
	}
	script, err := ReadVarBytes(r, MaxBlockPayload, "signature script")
	if err != nil {
		return err
	}
	in.SignatureScript = script
	return readElement(r, leOrder, &in.Sequence)
}

// TxOut defines a bitcoin transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

func (out *TxOut) marshal(w io.Writer) error {
	if err := writeElement(w, leOrder, out.Value); err != nil {
		return err
	}
	return WriteVarBytes(w, out.PkScript)
}

func (out *TxOut) unmarshal(r io.Reader) error {
	if err := readElement(r, leOrder, &out.Value); err != nil {
		return err
	}
	script, err := ReadVarBytes(r, MaxBlockPayload, "pk script")
	if err != nil {
		return err
	}
	out.PkScript = script
	return nil
}

// MsgTx implements the Message interface and represents a bitcoin
// transaction.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// NewMsgTx returns a new transaction message with the given version.
func NewMsgTx(version int32) *MsgTx {
	return &MsgTx{Version: version}
}

// AddTxIn adds an input to the transaction.
func (msg *MsgTx) AddTxIn(ti *TxIn) { msg.TxIn = append(msg.TxIn, ti) }

// AddTxOut adds an output to the transaction.
func (msg *MsgTx) AddTxOut(to *TxOut) { msg.TxOut = append(msg.TxOut, to) }

// IsCoinBase determines whether this transaction's sole input matches the
// coinbase pattern: exactly one input, with the coinbase outpoint.
func (msg *MsgTx) IsCoinBase() bool {
	return len(msg.TxIn) == 1 && msg.TxIn[0].IsCoinBase()
}

// TxHash generates the double-SHA256 hash of the serialized transaction,
// which is its identity.
func (msg *MsgTx) TxHash() chainhash.Hash {
	var buf bytes.Buffer
	_ = msg.Marshal(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// Command returns the protocol command string for a tx message.
func (msg *MsgTx) Command() string { return CmdTx }

// Marshal writes the transaction to w in the standard wire encoding.
func (msg *MsgTx) Marshal(w io.Writer) error {
	if err := writeElement(w, leOrder, msg.Version); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := ti.marshal(w); err != nil {
			return err
		}
	}
	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := to.marshal(w); err != nil {
			return err
		}
	}
	return writeElement(w, leOrder, msg.LockTime)
}

// Unmarshal reads a transaction from r in the standard wire encoding.
func (msg *MsgTx) Unmarshal(r io.Reader) error {
	if err := readElement(r, leOrder, &msg.Version); err != nil {
		return err
	}
	inCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	msg.TxIn = make([]*TxIn, inCount)
	for i := range msg.TxIn {
		ti := new(TxIn)
		if err := ti.unmarshal(r); err != nil {
			return err
		}
		msg.TxIn[i] = ti
	}
	outCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	msg.TxOut = make([]*TxOut, outCount)
	for i := range msg.TxOut {
		to := new(TxOut)
		if err := to.unmarshal(r); err != nil {
			return err
		}
		msg.TxOut[i] = to
	}
	return readElement(r, leOrder, &msg.LockTime)
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction.
func (msg *MsgTx) SerializeSize() int {
	var buf bytes.Buffer
	_ = msg.Marshal(&buf)
	return buf.Len()
}
