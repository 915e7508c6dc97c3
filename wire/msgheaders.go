// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/mbucca/btcnode/chainhash"
)

// MsgHeaders implements the Message interface and represents a batch of
// up to MaxHeadersPerMsg block headers sent in response to getheaders.
type MsgHeaders struct {
	Headers []*BlockHeader
}

// AddBlockHeader adds a new block header to the message.
func (msg *MsgHeaders) AddBlockHeader(h *BlockHeader) {
	msg.Headers = append(msg.Headers, h)
}

// Command returns the protocol command string for a headers message.
func (msg *MsgHeaders) Command() string { return CmdHeaders }

// Marshal writes the headers message to w. Each header is on-wire encoded
// followed by a zero tx-count byte, matching the standard headers message
// txn_count field (always 0 for this message).
func (msg *MsgHeaders) Marshal(w io.Writer) error {
	if err := WriteVarInt(w, uint64(len(msg.Headers))); err != nil {
		return err
	}
	for _, h := range msg.Headers {
		if err := h.Marshal(w); err != nil {
			return err
		}
		if err := WriteVarInt(w, 0); err != nil {
			return err
		}
	}
	return nil
}

// Unmarshal reads a headers message from r.
func (msg *MsgHeaders) Unmarshal(r io.Reader) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxHeadersPerMsg {
		return messageError("MsgHeaders.Unmarshal", "too many headers in message")
	}
	msg.Headers = make([]*BlockHeader, count)
	for i := range msg.Headers {
		h := new(BlockHeader)
		if err := h.Unmarshal(r); err != nil {
			return err
		}
		txCount, err := ReadVarInt(r)
		if err != nil {
			return err
		}
		if txCount != 0 {
			return messageError("MsgHeaders.Unmarshal", "header tx count must be zero")
		}
		msg.Headers[i] = h
	}
	return nil
}

// MaxBlockLocatorsPerMsg is the maximum number of locator hashes a
// single getheaders message may carry.
const MaxBlockLocatorsPerMsg = 500

// MsgGetHeaders implements the Message interface and represents a header
// locator request. The node only ever sends a single-hash locator,
// not an exponentially spaced one.
type MsgGetHeaders struct {
	ProtocolVersion    uint32
	BlockLocatorHashes []chainhash.Hash
	HashStop           chainhash.Hash
}

// Command returns the protocol command string for a getheaders message.
func (msg *MsgGetHeaders) Command() string { return CmdGetHeaders }

// Marshal writes the getheaders payload to w.
func (msg *MsgGetHeaders) Marshal(w io.Writer) error {
	if err := writeElement(w, leOrder, msg.ProtocolVersion); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.BlockLocatorHashes))); err != nil {
		return err
	}
	for i := range msg.BlockLocatorHashes {
		if err := writeHash(w, &msg.BlockLocatorHashes[i]); err != nil {
			return err
		}
	}
	return writeHash(w, &msg.HashStop)
}

// Unmarshal reads a getheaders payload from r.
func (msg *MsgGetHeaders) Unmarshal(r io.Reader) error {
	if err := readElement(r, leOrder, &msg.ProtocolVersion); err != nil {
		return err
	}
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxBlockLocatorsPerMsg {
		return messageError("MsgGetHeaders.Unmarshal", "too many block locator hashes")
	}
	msg.BlockLocatorHashes = make([]chainhash.Hash, count)
	for i := range msg.BlockLocatorHashes {
		if err := readHash(r, &msg.BlockLocatorHashes[i]); err != nil {
			return err
		}
	}
	return readHash(r, &msg.HashStop)
}
