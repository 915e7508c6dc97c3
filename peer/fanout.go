// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"sync"
	"time"

	"github.com/mbucca/btcnode/internal/corenode"
	"github.com/mbucca/btcnode/log"
)

// DialFanOut partitions addrs into nThreads chunks and runs one worker
// per chunk, each dialing and handshaking its addresses in turn and
// adding every successfully handshaked peer to pool. A
// single address's connect or handshake failure is logged and skipped;
// the whole fan-out only fails if pool ends up empty.
func DialFanOut(addrs []string, nThreads int, timeout time.Duration, p HandshakeParams, pool *Pool) error {
	if nThreads < 1 {
		nThreads = 1
	}
	logger := log.Logger(log.SubsystemPeer)

	chunks := partition(addrs, nThreads)
	var wg sync.WaitGroup
	for _, chunk := range chunks {
		chunk := chunk
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, addr := range chunk {
				peer, err := DialAndHandshake(addr, timeout, p)
				if err != nil {
					logger.Warnf("handshake with %s failed: %v", addr, err)
					continue
				}
				pool.Add(peer)
			}
		}()
	}
	wg.Wait()

	if pool.ActiveCount() == 0 {
		return corenode.New(corenode.Handshake, "no peer completed the handshake")
	}
	return nil
}

// partition splits addrs into at most n roughly-equal, contiguous
// chunks.
func partition(addrs []string, n int) [][]string {
	if len(addrs) == 0 {
		return nil
	}
	if n > len(addrs) {
		n = len(addrs)
	}
	chunks := make([][]string, 0, n)
	size := (len(addrs) + n - 1) / n
	for i := 0; i < len(addrs); i += size {
		end := i + size
		if end > len(addrs) {
			end = len(addrs)
		}
		chunks = append(chunks, addrs[i:end])
	}
	return chunks
}
