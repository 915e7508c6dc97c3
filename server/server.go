// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package server accepts inbound peer connections, performs the
// reverse handshake, and hands each resulting socket to the peer
// loop: a listener goroutine that can be told to stop, plus a
// per-process cap on connections accepted.
//
// Go's net.Listener has no non-blocking mode; the idiomatic stand-in
// for a poll-and-check-shutdown accept loop is a blocking Accept
// unblocked by closing the listener, so that is what Shutdown does
// here instead of polling. The contract is unchanged: stop when told,
// or once the connection cap is exceeded.
package server

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/mbucca/btcnode/internal/corenode"
	"github.com/mbucca/btcnode/log"
	"github.com/mbucca/btcnode/peer"
)

// Server listens on one TCP address and folds every accepted,
// handshaked connection into pool, starting a peer.Loop worker for it.
type Server struct {
	listener net.Listener
	pool     *peer.Pool
	handlers *peer.Handlers
	params   peer.HandshakeParams
	maxConns int32

	shutdown <-chan struct{}
	wg       sync.WaitGroup
	accepted int32
}

// Listen binds addr and starts accepting connections in the
// background. shutdown is the node-wide cancellation signal; closing
// it, or exceeding maxConns accepted connections, stops the accept
// loop.
func Listen(addr string, pool *peer.Pool, handlers *peer.Handlers, params peer.HandshakeParams, maxConns int, shutdown <-chan struct{}) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, corenode.Wrap(corenode.Socket, err)
	}

	s := &Server{
		listener: ln,
		pool:     pool,
		handlers: handlers,
		params:   params,
		maxConns: int32(maxConns),
		shutdown: shutdown,
	}

	s.wg.Add(1)
	go s.watchShutdown()
	s.wg.Add(1)
	go s.acceptLoop()
	return s, nil
}

// watchShutdown closes the listener once shutdown fires, unblocking
// the goroutine sitting in Accept.
func (s *Server) watchShutdown() {
	defer s.wg.Done()
	<-s.shutdown
	s.listener.Close()
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	logger := log.Logger(log.SubsystemSrvr)
	logger.Infof("listening for incoming connections on %s", s.listener.Addr())

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				logger.Info("stopped listening for incoming connections")
			default:
				logger.Warnf("accept error: %v", err)
			}
			return
		}

		if atomic.AddInt32(&s.accepted, 1) > s.maxConns {
			logger.Infof("max_connections_to_server reached, rejecting %s", conn.RemoteAddr())
			conn.Close()
			s.listener.Close()
			return
		}

		logger.Infof("received new incoming connection from %s", conn.RemoteAddr())
		go s.handleConn(conn)
	}
}

// handleConn performs the reverse handshake and, on success, registers
// the peer with pool and runs its steady-state loop.
func (s *Server) handleConn(conn net.Conn) {
	logger := log.Logger(log.SubsystemSrvr)

	p, err := peer.AcceptAndHandshake(conn, s.params)
	if err != nil {
		logger.Warnf("reverse handshake with %s failed: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}
	logger.Infof("handshake with %s done successfully", p.Addr)

	s.pool.Add(p)
	peer.Loop(p, s.handlers, s.shutdown)
}

// Wait blocks until the accept loop and its shutdown watcher have both
// returned, i.e. after Shutdown's signal has fully unwound the server.
func (s *Server) Wait() {
	s.wg.Wait()
}
