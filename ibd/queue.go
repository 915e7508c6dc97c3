// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ibd

import (
	"sync/atomic"

	"github.com/mbucca/btcnode/wire"
)

// headerQueue is an unbounded FIFO of header batches, fed both by the
// header downloader's output and by block-download workers requeuing a
// chunk they failed to download. A plain buffered channel
// can't serve both roles without a capacity bound, so the queue buffers
// internally and a push never waits for a reader.
type headerQueue struct {
	in  chan []*wire.BlockHeader
	out chan []*wire.BlockHeader

	// pending counts batches pushed but not yet received from out, so
	// the consumer can distinguish "momentarily empty" from "drained".
	pending int64
}

func newHeaderQueue() *headerQueue {
	q := &headerQueue{
		in:  make(chan []*wire.BlockHeader),
		out: make(chan []*wire.BlockHeader),
	}
	go q.run()
	return q
}

func (q *headerQueue) push(batch []*wire.BlockHeader) {
	atomic.AddInt64(&q.pending, 1)
	q.in <- batch
}

// pop records that a batch was received from out.
func (q *headerQueue) pop() {
	atomic.AddInt64(&q.pending, -1)
}

// empty reports whether every pushed batch has been received.
func (q *headerQueue) empty() bool {
	return atomic.LoadInt64(&q.pending) == 0
}

func (q *headerQueue) run() {
	var buf [][]*wire.BlockHeader
	for {
		if len(buf) == 0 {
			buf = append(buf, <-q.in)
			continue
		}
		select {
		case batch := <-q.in:
			buf = append(buf, batch)
		case q.out <- buf[0]:
			buf = buf[1:]
		}
	}
}
