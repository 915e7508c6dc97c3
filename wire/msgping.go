// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgPing implements the Message interface and is used to measure
// round-trip latency; replied to with an identical-nonce pong.
type MsgPing struct {
	Nonce uint64
}

// Command returns the protocol command string for a ping message.
func (msg *MsgPing) Command() string { return CmdPing }

// Marshal writes the ping payload to w.
func (msg *MsgPing) Marshal(w io.Writer) error { return writeElement(w, leOrder, msg.Nonce) }

// Unmarshal reads a ping payload from r.
func (msg *MsgPing) Unmarshal(r io.Reader) error { return readElement(r, leOrder, &msg.Nonce) }

// MsgPong implements the Message interface and echoes the nonce of the
// ping it answers.
type MsgPong struct {
	Nonce uint64
}

// Command returns the protocol command string for a pong message.
func (msg *MsgPong) Command() string { return CmdPong }

// Marshal writes the pong payload to w.
func (msg *MsgPong) Marshal(w io.Writer) error { return writeElement(w, leOrder, msg.Nonce) }

// Unmarshal reads a pong payload from r.
func (msg *MsgPong) Unmarshal(r io.Reader) error { return readElement(r, leOrder, &msg.Nonce) }
