// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ibd

import (
	"context"
	"sync"

	"github.com/decred/slog"

	"github.com/mbucca/btcnode/blockchain"
	"github.com/mbucca/btcnode/config"
	"github.com/mbucca/btcnode/internal/corenode"
	"github.com/mbucca/btcnode/log"
	"github.com/mbucca/btcnode/peer"
	"github.com/mbucca/btcnode/wire"
)

// DownloadBlocks runs block download: for every batch of headers
// received on headerBatches it fans out cfg.NThreads workers (one per
// header chunk), each of which requests and validates bodies in sub-batches of
// cfg.BlocksDownloadPerNode headers at a time and forwards the decoded
// blocks to utxoCh for the UTXO-loader stage to apply. A worker that
// hits a write/read/validation failure discards its peer and returns
// its remaining headers to the shared work queue rather than failing
// IBD outright; they are picked up again by a later dispatch round. DownloadBlocks returns once the chain holds exactly
// header_count - height_first_block_to_download blocks. events may be
// nil.
func DownloadBlocks(ctx context.Context, chain *blockchain.Chain, pool *peer.Pool, cfg *config.Config, headerBatches <-chan []*wire.BlockHeader, utxoCh chan<- []*wire.MsgBlock, events *log.UIEventSender) error {
	defer close(utxoCh)
	events.Send(log.UIEvent{Kind: log.EventStartDownloadingBlocks})
	queue := newHeaderQueue()
	headersDone := make(chan struct{})
	go func() {
		for batch := range headerBatches {
			queue.push(batch)
		}
		close(headersDone)
	}()

	logger := log.Logger(log.SubsystemIBD)

	for {
		var batch []*wire.BlockHeader
		select {
		case batch = <-queue.out:
			queue.pop()
		case <-ctx.Done():
			return corenode.Wrap(corenode.BlockchainDownload, ctx.Err())
		case <-headersDone:
			// The producer is finished; drain anything still queued.
			// Workers only requeue before their batch's wg.Wait
			// completes, so an empty queue here means no more work
			// can ever appear.
			if !queue.empty() {
				batch = <-queue.out
				queue.pop()
				break
			}
			target := chain.HeaderCount() - cfg.HeightFirstBlockToDownload
			if chain.BlockCount() >= int(target) {
				return nil
			}
			return corenode.New(corenode.BlockchainDownload, "header channel closed before all blocks were downloaded")
		}
		if len(batch) == 0 {
			continue
		}

		nThreads := cfg.NThreads
		if nThreads < 1 || cfg.SingleNodeFullDownload {
			nThreads = 1
		}
		if len(batch) <= cfg.BlocksDownloadPerNode {
			nThreads = 1
		}
		chunks := chunkHeaders(batch, nThreads)

		errs := make([]error, len(chunks))
		var wg sync.WaitGroup
		for i, chunk := range chunks {
			i, chunk := i, chunk
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = downloadChunk(ctx, pool, cfg, chunk, queue, utxoCh, logger)
			}()
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return corenode.WrapMsg(corenode.BlockchainDownload, "no peers left for block download", err)
			}
		}

		target := chain.HeaderCount() - cfg.HeightFirstBlockToDownload
		events.Send(log.UIEvent{
			Kind:   log.EventActualizeBlocksDownloaded,
			Height: int32(chain.BlockCount()),
			Total:  target,
		})
		if chain.BlockCount() >= int(target) {
			return nil
		}
	}
}

// downloadChunk downloads every header in chunk from a single peer, in
// sub-batches of cfg.BlocksDownloadPerNode. A peer failure discards the
// peer and pushes the chunk's remaining headers (everything not yet
// forwarded downstream) back onto queue for another peer to pick up.
// Decoded blocks are only ever forwarded on utxoCh: this worker never
// touches the chain's block map or UTXO set directly, so that the
// single UTXO-loader consumer (RunUTXOLoader) is the only writer. A
// non-nil return means no peer could be taken at all, which is fatal
// to IBD.
func downloadChunk(ctx context.Context, pool *peer.Pool, cfg *config.Config, chunk []*wire.BlockHeader, queue *headerQueue, utxoCh chan<- []*wire.MsgBlock, logger slog.Logger) error {
	p, err := pool.Take(ctx.Done())
	if err != nil {
		return err
	}

	subBatchSize := cfg.BlocksDownloadPerNode
	if subBatchSize < 1 {
		subBatchSize = 1
	}

	for start := 0; start < len(chunk); start += subBatchSize {
		end := start + subBatchSize
		if end > len(chunk) {
			end = len(chunk)
		}
		sub := chunk[start:end]

		blocks, err := fetchBlocks(p, sub)
		if err != nil {
			logger.Warnf("block download from %s failed: %v", p.Addr, err)
			pool.Discard(p)
			queue.push(chunk[start:])
			return nil
		}
		utxoCh <- blocks
	}
	pool.Add(p)
	return nil
}

// fetchBlocks sends a single getdata for headers' hashes and reads
// exactly len(headers) block messages in order, validating each (PoW +
// merkle match + size <= 1 MiB, all covered by
// blockchain.ValidateBlock since PoW was checked again at the header
// level when the header was first appended).
func fetchBlocks(p *peer.Peer, headers []*wire.BlockHeader) ([]*wire.MsgBlock, error) {
	req := &wire.MsgGetData{}
	for _, h := range headers {
		hash := h.BlockHash()
		req.AddInvVect(wire.NewInvVect(wire.InvTypeBlock, &hash))
	}
	if err := p.WriteMessage(req); err != nil {
		return nil, err
	}

	blocks := make([]*wire.MsgBlock, 0, len(headers))
	for range headers {
		msg, err := p.ReadMessageWithBlockTimeout()
		if err != nil {
			return nil, err
		}
		block, ok := msg.(*wire.MsgBlock)
		if !ok {
			return nil, corenode.New(corenode.Unmarshal, "expected block message")
		}
		if err := blockchain.ValidateBlock(block); err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// chunkHeaders splits headers into at most n contiguous, roughly equal
// chunks, the last possibly shorter.
func chunkHeaders(headers []*wire.BlockHeader, n int) [][]*wire.BlockHeader {
	if len(headers) == 0 {
		return nil
	}
	if n > len(headers) {
		n = len(headers)
	}
	size := (len(headers) + n - 1) / n
	var chunks [][]*wire.BlockHeader
	for i := 0; i < len(headers); i += size {
		end := i + size
		if end > len(headers) {
			end = len(headers)
		}
		chunks = append(chunks, headers[i:end])
	}
	return chunks
}
