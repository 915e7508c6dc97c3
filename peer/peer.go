// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peer implements the per-connection message multiplexing loop
// and the client/reverse handshake: a framed
// read/write loop over a TCP socket, dispatching inbound commands to
// handlers that mutate the shared chain, UTXO, and account state.
package peer

import (
	"bufio"
	"net"
	"sync"
	"time"

	"github.com/mbucca/btcnode/internal/corenode"
	"github.com/mbucca/btcnode/wire"
)

// blockReadTimeout is the only read deadline the protocol ever applies,
// set just before reading a block message during IBD.
const blockReadTimeout = 2 * time.Second

// Peer wraps one live TCP connection plus the channel used to queue
// outbound messages for its write side.
type Peer struct {
	Addr string

	conn  net.Conn
	r     *bufio.Reader
	magic uint32

	outMu    sync.Mutex
	outbound chan wire.Message
	closed   bool

	Services        uint64
	ProtocolVersion int32
	UserAgent       string
	StartHeight     int32
}

// New wraps conn as a handshaked peer. outboundBuf sizes the write
// queue; callers should pass a generous capacity rather than rely on
// blocking back-pressure.
func New(conn net.Conn, magic uint32, outboundBuf int) *Peer {
	return &Peer{
		Addr:     conn.RemoteAddr().String(),
		conn:     conn,
		r:        bufio.NewReaderSize(conn, wire.MaxBlockPayload),
		magic:    magic,
		outbound: make(chan wire.Message, outboundBuf),
	}
}

// WriteMessage writes msg directly to the socket, bypassing the
// outbound queue. Used for directed request/response exchanges (the
// handshake, and IBD's header/block fetch loops) where the caller
// needs to know the write actually happened before reading a reply.
func (p *Peer) WriteMessage(msg wire.Message) error {
	if err := wire.WriteMessage(p.conn, msg, p.magic); err != nil {
		return corenode.Wrap(corenode.Write, err)
	}
	return nil
}

// ReadMessage blocks for the next framed message on the socket.
func (p *Peer) ReadMessage() (wire.Message, error) {
	hdr, err := wire.ReadMessageHeader(p.r, p.magic)
	if err != nil {
		return nil, corenode.Wrap(corenode.Read, err)
	}
	payload, err := wire.ReadMessagePayload(p.r, hdr)
	if err != nil {
		return nil, corenode.Wrap(corenode.Read, err)
	}
	msg, err := wire.UnmarshalPayload(hdr.Command, payload)
	if err != nil {
		return nil, corenode.Wrap(corenode.Unmarshal, err)
	}
	// An unrecognized command decodes to (nil, nil); the caller treats a
	// nil message as "ignore, log only" rather than an error.
	return msg, nil
}

// ReadMessageWithBlockTimeout is ReadMessage with the 2-second deadline
// applied only immediately before reading a block message.
func (p *Peer) ReadMessageWithBlockTimeout() (wire.Message, error) {
	if err := p.conn.SetReadDeadline(time.Now().Add(blockReadTimeout)); err != nil {
		return nil, corenode.Wrap(corenode.Socket, err)
	}
	defer p.conn.SetReadDeadline(time.Time{})
	return p.ReadMessage()
}

// Enqueue queues msg for the write side of the steady-state loop
// (Loop) to send; it never blocks: the message is dropped, with an
// error, when the peer has already been torn down or its queue is full.
func (p *Peer) Enqueue(msg wire.Message) error {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	if p.closed {
		return corenode.New(corenode.Channel, "enqueue on closed peer")
	}
	select {
	case p.outbound <- msg:
		return nil
	default:
		return corenode.New(corenode.Channel, "outbound queue full")
	}
}

// Close tears down the connection and the outbound queue. Safe to call
// more than once.
func (p *Peer) Close() error {
	p.outMu.Lock()
	if p.closed {
		p.outMu.Unlock()
		return nil
	}
	p.closed = true
	close(p.outbound)
	p.outMu.Unlock()
	return p.conn.Close()
}

// writerLoop drains the outbound queue to the socket until it's
// closed or ctx is done; it is run as its own goroutine by Loop.
func (p *Peer) writerLoop(done <-chan struct{}) {
	for {
		select {
		case msg, ok := <-p.outbound:
			if !ok {
				return
			}
			if err := p.WriteMessage(msg); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
