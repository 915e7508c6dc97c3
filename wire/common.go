// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire implements the bit-exact testnet Bitcoin peer-to-peer wire
// protocol: compact-size integers, the 24-byte message header, and the
// marshal/unmarshal pair for every message payload used by the node.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/mbucca/btcnode/chainhash"
)

// ErrKind classifies codec failures per the node's error taxonomy.
type ErrKind int

// Recognized error kinds.
const (
	ErrUnmarshal ErrKind = iota
)

// MessageError is returned by every unmarshal routine when the input bytes
// are short or a field is out of range. Marshalling is total and never
// returns this type.
type MessageError struct {
	Kind        ErrKind
	Func        string
	Description string
}

func (e *MessageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Func, e.Description)
}

func messageError(f, desc string) *MessageError {
	return &MessageError{Kind: ErrUnmarshal, Func: f, Description: desc}
}

// TestNet3 is the Bitcoin testnet3 network-identifying magic. The
// frame header serializes it little-endian, so the bytes that hit the
// wire are 0x0B 0x11 0x09 0x07.
const TestNet3 uint32 = 0x0709110b

// Protocol-level constants.
const (
	// ProtocolVersion is the latest protocol version this implementation
	// supports and the default to use when initiating connections.
	ProtocolVersion uint32 = 70015

	// CommandSize is the fixed size in bytes of a message command field.
	CommandSize = 12

	// MaxBlockPayload is the maximum allowed serialized size of a block.
	MaxBlockPayload = 1024 * 1024

	// MaxInvPerMsg and MaxHeadersPerMsg bound a single inv/headers message.
	MaxInvPerMsg     = 50000
	MaxHeadersPerMsg = 2000

	// MessageHeaderSize is the 24-byte fixed framing header size.
	MessageHeaderSize = 4 + CommandSize + 4 + 4
)

// Command strings, padded to CommandSize with NUL bytes on the wire.
const (
	CmdVersion     = "version"
	CmdVerAck      = "verack"
	CmdHeaders     = "headers"
	CmdGetHeaders  = "getheaders"
	CmdInv         = "inv"
	CmdGetData     = "getdata"
	CmdNotFound    = "notfound"
	CmdBlock       = "block"
	CmdTx          = "tx"
	CmdPing        = "ping"
	CmdPong        = "pong"
	CmdSendHeaders = "sendheaders"
)

// -----------------------------------------------------------------------
// Compact-size integers.
// -----------------------------------------------------------------------

// VarIntSerializeSize returns the number of bytes it would take to
// serialize val as a compact-size integer.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= 0xffff:
		return 3
	case val <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// WriteVarInt serializes val as a compact-size integer to w.
func WriteVarInt(w io.Writer, val uint64) error {
	switch {
	case val < 0xfd:
		_, err := w.Write([]byte{byte(val)})
		return err
	case val <= 0xffff:
		buf := make([]byte, 3)
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:], uint16(val))
		_, err := w.Write(buf)
		return err
	case val <= 0xffffffff:
		buf := make([]byte, 5)
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:], uint32(val))
		_, err := w.Write(buf)
		return err
	default:
		buf := make([]byte, 9)
		buf[0] = 0xff
		binary.LittleEndian.PutUint64(buf[1:], val)
		_, err := w.Write(buf)
		return err
	}
}

// ReadVarInt reads a compact-size integer from r.
func ReadVarInt(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, messageError("ReadVarInt", err.Error())
	}

	switch prefix[0] {
	case 0xff:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, messageError("ReadVarInt", err.Error())
		}
		return binary.LittleEndian.Uint64(b[:]), nil
	case 0xfe:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, messageError("ReadVarInt", err.Error())
		}
		return uint64(binary.LittleEndian.Uint32(b[:])), nil
	case 0xfd:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, messageError("ReadVarInt", err.Error())
		}
		return uint64(binary.LittleEndian.Uint16(b[:])), nil
	default:
		return uint64(prefix[0]), nil
	}
}

// ReadVarBytes reads a compact-size length prefix followed by that many
// bytes, rejecting lengths that exceed maxAllowed as malformed input.
func ReadVarBytes(r io.Reader, maxAllowed uint64, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > maxAllowed {
		return nil, messageError("ReadVarBytes",
			fmt.Sprintf("%s is larger than the max allowed size [count %d, max %d]",
				fieldName, count, maxAllowed))
	}

	buf := make([]byte, count)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, messageError("ReadVarBytes", err.Error())
	}
	return buf, nil
}

// WriteVarBytes writes a compact-size length prefix followed by b.
func WriteVarBytes(w io.Writer, b []byte) error {
	if err := WriteVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadVarString reads a compact-size-prefixed string (used for user_agent).
func ReadVarString(r io.Reader) (string, error) {
	b, err := ReadVarBytes(r, 1<<16, "var string")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteVarString writes a compact-size-prefixed string.
func WriteVarString(w io.Writer, s string) error {
	return WriteVarBytes(w, []byte(s))
}

// -----------------------------------------------------------------------
// Fixed-width helpers.
// -----------------------------------------------------------------------

var leOrder = binary.LittleEndian
var beOrder = binary.BigEndian

func writeElement(w io.Writer, order binary.ByteOrder, v interface{}) error {
	return binary.Write(w, order, v)
}

func readElement(r io.Reader, order binary.ByteOrder, v interface{}) error {
	if err := binary.Read(r, order, v); err != nil {
		return messageError("readElement", err.Error())
	}
	return nil
}

// readHash reads a 32-byte chainhash.Hash in on-wire (non-reversed) order.
func readHash(r io.Reader, h *chainhash.Hash) error {
	_, err := io.ReadFull(r, h[:])
	if err != nil {
		return messageError("readHash", err.Error())
	}
	return nil
}

func writeHash(w io.Writer, h *chainhash.Hash) error {
	_, err := w.Write(h[:])
	return err
}
