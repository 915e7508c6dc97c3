// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"net"
	"testing"
	"time"

	"github.com/mbucca/btcnode/wire"
)

// fakeConn adapts a net.Pipe half with a fixed RemoteAddr, since
// net.Pipe's endpoints report "pipe" for both ends.
type fakeConn struct {
	net.Conn
	addr string
}

func (f fakeConn) RemoteAddr() net.Addr { return fakeAddr(f.addr) }

type fakeAddr string

func (a fakeAddr) Network() string { return "tcp" }
func (a fakeAddr) String() string  { return string(a) }

func TestClientAndServerHandshakeSucceed(t *testing.T) {
	clientConn, serverConn := net.Pipe()

	params := HandshakeParams{
		Magic:           wire.TestNet3,
		ProtocolVersion: wire.ProtocolVersion,
		UserAgent:       "/btcnode:test/",
		StartHeight:     0,
		OutboundBuf:     16,
	}

	serverDone := make(chan *Peer, 1)
	serverErr := make(chan error, 1)
	go func() {
		p, err := AcceptAndHandshake(fakeConn{serverConn, "server:0"}, params)
		serverDone <- p
		serverErr <- err
	}()

	clientPeer, err := handshakeOverConn(fakeConn{clientConn, "client:0"}, params)
	if err != nil {
		t.Fatalf("client handshake: %v", err)
	}

	serverPeer := <-serverDone
	if err := <-serverErr; err != nil {
		t.Fatalf("server handshake: %v", err)
	}

	if clientPeer.ProtocolVersion != int32(wire.ProtocolVersion) {
		t.Fatalf("client saw protocol version %d", clientPeer.ProtocolVersion)
	}
	if serverPeer.UserAgent != "/btcnode:test/" {
		t.Fatalf("server saw user agent %q", serverPeer.UserAgent)
	}
}

// handshakeOverConn runs the client-side handshake on an already
// connected net.Conn, mirroring DialAndHandshake without the dial step.
func handshakeOverConn(conn net.Conn, p HandshakeParams) (*Peer, error) {
	peer := New(conn, p.Magic, p.OutboundBuf)
	if err := clientHandshake(peer, p); err != nil {
		return nil, err
	}
	return peer, nil
}

func TestDialAndHandshakeTimesOutOnUnreachableAddr(t *testing.T) {
	_, err := DialAndHandshake("10.255.255.1:18333", 50*time.Millisecond, HandshakeParams{
		Magic: wire.TestNet3, OutboundBuf: 1,
	})
	if err == nil {
		t.Fatal("expected dial to an unreachable address to fail")
	}
}
