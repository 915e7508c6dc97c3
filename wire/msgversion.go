// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
	"net"
)

// NetAddress is the (services, ip, port) triple embedded in a version
// payload. The IP is stored as IPv4-mapped IPv6 (::ffff:a.b.c.d) and the
// ip/port fields are big-endian on the wire, unlike every other
// multi-byte field in the protocol.
type NetAddress struct {
	Services uint64
	IP       net.IP
	Port     uint16
}

func (na *NetAddress) marshal(w io.Writer) error {
	if err := writeElement(w, leOrder, na.Services); err != nil {
		return err
	}
	var ip [16]byte
	if v4 := na.IP.To4(); v4 != nil {
		copy(ip[10:12], []byte{0xff, 0xff})
		copy(ip[12:16], v4)
	} else if v6 := na.IP.To16(); v6 != nil {
		copy(ip[:], v6)
	}
	if _, err := w.Write(ip[:]); err != nil {
		return err
	}
	return writeElement(w, beOrder, na.Port)
}

func (na *NetAddress) unmarshal(r io.Reader) error {
	if err := readElement(r, leOrder, &na.Services); err != nil {
		return err
	}
	var ip [16]byte
	if _, err := io.ReadFull(r, ip[:]); err != nil {
		return messageError("NetAddress.unmarshal", err.Error())
	}
	na.IP = net.IP(ip[:]).To16()
	return readElement(r, beOrder, &na.Port)
}

// MsgVersion implements the Message interface and represents the initial
// handshake message exchanged by every pair of peers.
type MsgVersion struct {
	ProtocolVersion int32
	Services        uint64
	Timestamp       int64
	AddrRecv        NetAddress
	AddrFrom        NetAddress
	Nonce           uint64
	UserAgent       string
	StartHeight     int32
	Relay           bool
}

// NewMsgVersion returns a version message populated with the provided
// values and default services/relay flags appropriate for this node.
func NewMsgVersion(recv, from NetAddress, nonce uint64, startHeight int32) *MsgVersion {
	return &MsgVersion{
		ProtocolVersion: int32(ProtocolVersion),
		Services:        0,
		AddrRecv:        recv,
		AddrFrom:        from,
		Nonce:           nonce,
		UserAgent:       "/btcnode:0.1.0/",
		StartHeight:     startHeight,
		Relay:           true,
	}
}

// Command returns the protocol command string for a version message.
func (msg *MsgVersion) Command() string { return CmdVersion }

// Marshal writes the version payload to w.
func (msg *MsgVersion) Marshal(w io.Writer) error {
	if err := writeElement(w, leOrder, msg.ProtocolVersion); err != nil {
		return err
	}
	if err := writeElement(w, leOrder, msg.Services); err != nil {
		return err
	}
	if err := writeElement(w, leOrder, msg.Timestamp); err != nil {
		return err
	}
	if err := msg.AddrRecv.marshal(w); err != nil {
		return err
	}
	if err := msg.AddrFrom.marshal(w); err != nil {
		return err
	}
	if err := writeElement(w, leOrder, msg.Nonce); err != nil {
		return err
	}
	if err := WriteVarString(w, msg.UserAgent); err != nil {
		return err
	}
	if err := writeElement(w, leOrder, msg.StartHeight); err != nil {
		return err
	}
	var relay byte
	if msg.Relay {
		relay = 1
	}
	_, err := w.Write([]byte{relay})
	return err
}

// Unmarshal reads a version payload from r.
func (msg *MsgVersion) Unmarshal(r io.Reader) error {
	if err := readElement(r, leOrder, &msg.ProtocolVersion); err != nil {
		return err
	}
	if err := readElement(r, leOrder, &msg.Services); err != nil {
		return err
	}
	if err := readElement(r, leOrder, &msg.Timestamp); err != nil {
		return err
	}
	if err := msg.AddrRecv.unmarshal(r); err != nil {
		return err
	}
	if err := msg.AddrFrom.unmarshal(r); err != nil {
		return err
	}
	if err := readElement(r, leOrder, &msg.Nonce); err != nil {
		return err
	}
	ua, err := ReadVarString(r)
	if err != nil {
		return err
	}
	msg.UserAgent = ua
	if err := readElement(r, leOrder, &msg.StartHeight); err != nil {
		return err
	}
	var relay [1]byte
	if _, err := io.ReadFull(r, relay[:]); err != nil {
		return messageError("MsgVersion.Unmarshal", err.Error())
	}
	msg.Relay = relay[0] != 0
	return nil
}

// MsgVerAck implements the Message interface for the empty-payload verack
// message.
type MsgVerAck struct{}

// Command returns the protocol command string for a verack message.
func (msg *MsgVerAck) Command() string { return CmdVerAck }

// Marshal writes nothing: verack carries no payload.
func (msg *MsgVerAck) Marshal(w io.Writer) error { return nil }

// Unmarshal reads nothing: verack carries no payload.
func (msg *MsgVerAck) Unmarshal(r io.Reader) error { return nil }

// MsgSendHeaders implements the Message interface for the empty-payload
// sendheaders message.
type MsgSendHeaders struct{}

// Command returns the protocol command string for a sendheaders message.
func (msg *MsgSendHeaders) Command() string { return CmdSendHeaders }

// Marshal writes nothing: sendheaders carries no payload.
func (msg *MsgSendHeaders) Marshal(w io.Writer) error { return nil }

// Unmarshal reads nothing: sendheaders carries no payload.
func (msg *MsgSendHeaders) Unmarshal(r io.Reader) error { return nil }
