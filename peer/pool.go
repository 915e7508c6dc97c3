// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"sync"

	"github.com/mbucca/btcnode/internal/corenode"
	"github.com/mbucca/btcnode/wire"
)

// Pool is the shared pool of live peer connections produced by the
// handshake fan-out and consumed by IBD workers and the steady-state
// broadcast API. Peers popped
// via Take are not returned automatically: once a worker has consumed
// one for an IBD stage, it owns it until that stage's work is done or
// the connection fails; Active still lists it for broadcast purposes.
type Pool struct {
	mu       sync.Mutex
	queue    []*Peer
	active   map[*Peer]struct{}
	notEmpty chan struct{}
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{
		active:   make(map[*Peer]struct{}),
		notEmpty: make(chan struct{}, 1),
	}
}

// Add registers a newly handshaked peer: it becomes available both to
// Take (IBD consumption) and to the active set Broadcast writes to
// on every broadcast.
func (pl *Pool) Add(p *Peer) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.queue = append(pl.queue, p)
	pl.active[p] = struct{}{}
	pl.signal()
}

func (pl *Pool) signal() {
	select {
	case pl.notEmpty <- struct{}{}:
	default:
	}
}

// Take pops the next available peer, blocking until one exists or done
// is closed. It returns ErrNoPeers once every registered peer has been
// discarded (nothing can ever be taken again), and ErrPoolClosed if
// done closes while waiting.
func (pl *Pool) Take(done <-chan struct{}) (*Peer, error) {
	for {
		pl.mu.Lock()
		if len(pl.queue) > 0 {
			p := pl.queue[0]
			pl.queue = pl.queue[1:]
			pl.mu.Unlock()
			return p, nil
		}
		if len(pl.active) == 0 {
			pl.mu.Unlock()
			return nil, ErrNoPeers
		}
		pl.mu.Unlock()

		select {
		case <-pl.notEmpty:
			continue
		case <-done:
			return nil, ErrPoolClosed
		}
	}
}

// TryTake pops a peer without blocking; it reports false if none are
// queued right now.
func (pl *Pool) TryTake() (*Peer, bool) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	if len(pl.queue) == 0 {
		return nil, false
	}
	p := pl.queue[0]
	pl.queue = pl.queue[1:]
	return p, true
}

// Discard removes p from the active set (e.g. on an unrecoverable I/O
// error) without returning it to the take queue. Waiting Takers are
// woken so they can notice an emptied pool.
func (pl *Pool) Discard(p *Peer) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	delete(pl.active, p)
	p.Close()
	pl.signal()
}

// Len reports the number of peers currently waiting to be taken.
func (pl *Pool) Len() int {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return len(pl.queue)
}

// ActiveCount reports the number of peers registered, taken or not.
func (pl *Pool) ActiveCount() int {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return len(pl.active)
}

// ActivePeers returns every peer currently registered in the active
// set, whether or not it's sitting in the take queue. Used once, at
// steady-state startup, to spin up a Loop worker for every connection
// the handshake fan-out and IBD already made.
func (pl *Pool) ActivePeers() []*Peer {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	out := make([]*Peer, 0, len(pl.active))
	for p := range pl.active {
		out = append(out, p)
	}
	return out
}

// Broadcast queues msg for delivery to every active peer.
// It tolerates individual failures but reports ErrBroadcastFailed if
// every peer's queue rejected the message.
func (pl *Pool) Broadcast(msg wire.Message) error {
	pl.mu.Lock()
	peers := make([]*Peer, 0, len(pl.active))
	for p := range pl.active {
		peers = append(peers, p)
	}
	pl.mu.Unlock()

	if len(peers) == 0 {
		return corenode.New(corenode.Channel, "broadcast: no active peers")
	}

	delivered := 0
	for _, p := range peers {
		if err := p.Enqueue(msg); err == nil {
			delivered++
		}
	}
	if delivered == 0 {
		return corenode.New(corenode.Channel, "broadcast: all peer queues closed")
	}
	return nil
}

// ErrPoolClosed is returned by Take when the pool shuts down while a
// caller is waiting for a peer.
var ErrPoolClosed = corenode.New(corenode.Channel, "peer pool closed")

// ErrNoPeers is returned by Take when every registered peer has been
// discarded; no amount of waiting can produce another.
var ErrNoPeers = corenode.New(corenode.Channel, "no live peers")
