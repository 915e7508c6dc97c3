// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"crypto/rand"
	"encoding/binary"
	"net"
	"time"

	"github.com/mbucca/btcnode/internal/corenode"
	"github.com/mbucca/btcnode/wire"
)

// HandshakeParams carries the fields the local version message
// advertises.
type HandshakeParams struct {
	Magic           uint32
	ProtocolVersion uint32
	UserAgent       string
	StartHeight     int32
	OutboundBuf     int
}

func randomNonce() uint64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// DialAndHandshake connects to addr with timeout, then performs the
// client-side version/verack/sendheaders exchange.
func DialAndHandshake(addr string, timeout time.Duration, p HandshakeParams) (*Peer, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, corenode.Wrap(corenode.Socket, err)
	}

	peer := New(conn, p.Magic, p.OutboundBuf)
	if err := clientHandshake(peer, p); err != nil {
		conn.Close()
		return nil, err
	}
	return peer, nil
}

func clientHandshake(peer *Peer, p HandshakeParams) error {
	ours := wire.NewMsgVersion(wire.NetAddress{}, wire.NetAddress{}, randomNonce(), p.StartHeight)
	ours.ProtocolVersion = int32(p.ProtocolVersion)
	ours.Timestamp = time.Now().Unix()
	if p.UserAgent != "" {
		ours.UserAgent = p.UserAgent
	}

	if err := peer.WriteMessage(ours); err != nil {
		return corenode.WrapMsg(corenode.Handshake, "write version", err)
	}

	msg, err := peer.ReadMessage()
	if err != nil {
		return corenode.WrapMsg(corenode.Handshake, "read version", err)
	}
	theirs, ok := msg.(*wire.MsgVersion)
	if !ok {
		return corenode.New(corenode.Handshake, "expected version message")
	}
	peer.Services = theirs.Services
	peer.ProtocolVersion = theirs.ProtocolVersion
	peer.UserAgent = theirs.UserAgent
	peer.StartHeight = theirs.StartHeight

	if err := peer.WriteMessage(&wire.MsgVerAck{}); err != nil {
		return corenode.WrapMsg(corenode.Handshake, "write verack", err)
	}
	msg, err = peer.ReadMessage()
	if err != nil {
		return corenode.WrapMsg(corenode.Handshake, "read verack", err)
	}
	if _, ok := msg.(*wire.MsgVerAck); !ok {
		return corenode.New(corenode.Handshake, "expected verack message")
	}

	if err := peer.WriteMessage(&wire.MsgSendHeaders{}); err != nil {
		return corenode.WrapMsg(corenode.Handshake, "write sendheaders", err)
	}
	return nil
}

// AcceptAndHandshake performs the reverse handshake for an inbound
// connection accepted by the server: read their version,
// write ours, exchange verack.
func AcceptAndHandshake(conn net.Conn, p HandshakeParams) (*Peer, error) {
	peer := New(conn, p.Magic, p.OutboundBuf)

	msg, err := peer.ReadMessage()
	if err != nil {
		return nil, corenode.WrapMsg(corenode.Handshake, "read version", err)
	}
	theirs, ok := msg.(*wire.MsgVersion)
	if !ok {
		return nil, corenode.New(corenode.Handshake, "expected version message")
	}
	peer.Services = theirs.Services
	peer.ProtocolVersion = theirs.ProtocolVersion
	peer.UserAgent = theirs.UserAgent
	peer.StartHeight = theirs.StartHeight

	ours := wire.NewMsgVersion(wire.NetAddress{}, wire.NetAddress{}, randomNonce(), p.StartHeight)
	ours.ProtocolVersion = int32(p.ProtocolVersion)
	ours.Timestamp = time.Now().Unix()
	if p.UserAgent != "" {
		ours.UserAgent = p.UserAgent
	}
	if err := peer.WriteMessage(ours); err != nil {
		return nil, corenode.WrapMsg(corenode.Handshake, "write version", err)
	}

	if err := peer.WriteMessage(&wire.MsgVerAck{}); err != nil {
		return nil, corenode.WrapMsg(corenode.Handshake, "write verack", err)
	}
	msg, err = peer.ReadMessage()
	if err != nil {
		return nil, corenode.WrapMsg(corenode.Handshake, "read verack", err)
	}
	if _, ok := msg.(*wire.MsgVerAck); !ok {
		return nil, corenode.New(corenode.Handshake, "expected verack message")
	}

	return peer, nil
}
