// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"net"
	"testing"

	"github.com/mbucca/btcnode/wire"
)

func peerPair(t *testing.T) (*Peer, *Peer) {
	t.Helper()
	c1, c2 := net.Pipe()
	return New(c1, wire.TestNet3, 16), New(c2, wire.TestNet3, 16)
}

func TestPoolTakeReturnsAddedPeerOnce(t *testing.T) {
	pool := NewPool()
	p, _ := peerPair(t)
	pool.Add(p)

	if pool.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", pool.Len())
	}

	got, ok := pool.TryTake()
	if !ok || got != p {
		t.Fatalf("TryTake() = %v, %v", got, ok)
	}
	if _, ok := pool.TryTake(); ok {
		t.Fatal("expected pool to be empty after single Take")
	}
	if pool.ActiveCount() != 1 {
		t.Fatalf("ActiveCount() = %d, want 1 (still active after Take)", pool.ActiveCount())
	}
}

func TestPoolDiscardRemovesFromActiveSet(t *testing.T) {
	pool := NewPool()
	p, _ := peerPair(t)
	pool.Add(p)

	pool.Discard(p)
	if pool.ActiveCount() != 0 {
		t.Fatalf("ActiveCount() = %d, want 0 after Discard", pool.ActiveCount())
	}
}

func TestPoolBroadcastFailsWithNoActivePeers(t *testing.T) {
	pool := NewPool()
	if err := pool.Broadcast(nil); err == nil {
		t.Fatal("expected Broadcast to fail with no active peers")
	}
}
