// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"testing"
	"time"

	"github.com/mbucca/btcnode/blockchain"
	"github.com/mbucca/btcnode/chaincfg"
	"github.com/mbucca/btcnode/peer"
	"github.com/mbucca/btcnode/wallet"
	"github.com/mbucca/btcnode/wire"
)

func testHandlers() *peer.Handlers {
	chain := blockchain.NewChain(chaincfg.TestNet3Params())
	return &peer.Handlers{
		Chain:  chain,
		Wallet: wallet.New(chain),
		Pool:   peer.NewPool(),
		SeenTx: peer.NewSeenTxSet(1000),
	}
}

func TestServerAcceptsAndHandshakesInboundConnection(t *testing.T) {
	shutdown := make(chan struct{})
	defer close(shutdown)

	pool := peer.NewPool()
	params := peer.HandshakeParams{
		Magic:           wire.TestNet3,
		ProtocolVersion: wire.ProtocolVersion,
		UserAgent:       "/btcnode:test/",
		OutboundBuf:     16,
	}

	srv, err := Listen("127.0.0.1:0", pool, testHandlers(), params, 10, shutdown)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	clientPeer, err := peer.DialAndHandshake(srv.listener.Addr().String(), time.Second, params)
	if err != nil {
		t.Fatalf("client handshake: %v", err)
	}
	defer clientPeer.Close()

	deadline := time.Now().Add(time.Second)
	for pool.ActiveCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("server never registered the inbound peer with the pool")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestServerStopsAcceptingAfterMaxConnections(t *testing.T) {
	shutdown := make(chan struct{})

	pool := peer.NewPool()
	params := peer.HandshakeParams{
		Magic:           wire.TestNet3,
		ProtocolVersion: wire.ProtocolVersion,
		OutboundBuf:     16,
	}

	srv, err := Listen("127.0.0.1:0", pool, testHandlers(), params, 1, shutdown)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	addr := srv.listener.Addr().String()

	first, err := peer.DialAndHandshake(addr, time.Second, params)
	if err != nil {
		t.Fatalf("first client handshake: %v", err)
	}
	defer first.Close()

	// The second connection pushes accepted above maxConns (1); the
	// server closes its listener in response, so this dial either gets
	// rejected outright or the handshake itself never completes.
	second, err := peer.DialAndHandshake(addr, time.Second, params)
	if err == nil {
		second.Close()
	}

	// The accept loop has already returned on its own (max connections
	// exceeded); closing shutdown only needs to unblock the watcher
	// goroutine so Wait returns.
	close(shutdown)

	done := make(chan struct{})
	go func() {
		srv.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop accepting after exceeding max_connections_to_server")
	}
}

func TestServerShutdownUnblocksAcceptLoop(t *testing.T) {
	shutdown := make(chan struct{})
	pool := peer.NewPool()
	params := peer.HandshakeParams{Magic: wire.TestNet3, OutboundBuf: 16}

	srv, err := Listen("127.0.0.1:0", pool, testHandlers(), params, 10, shutdown)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	close(shutdown)

	done := make(chan struct{})
	go func() {
		srv.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("server did not stop within a second of shutdown closing")
	}
}
