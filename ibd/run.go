// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ibd

import (
	"context"
	"sync"

	"github.com/mbucca/btcnode/blockchain"
	"github.com/mbucca/btcnode/config"
	"github.com/mbucca/btcnode/log"
	"github.com/mbucca/btcnode/peer"
	"github.com/mbucca/btcnode/wire"
)

// pipelineBuffer sizes the header/block channels between IBD's stages.
// A large fixed buffer stands in for an unbounded channel, and is
// large enough that single-node mode (which finishes header download
// before block download ever reads from the channel) never blocks on
// a full header channel for a testnet-sized chain.
const pipelineBuffer = 1 << 16

// Run executes the whole IBD pipeline: header download (disk cache or
// network) feeding parallel block download feeding the single
// UTXO-loader consumer that applies decoded blocks to chain. When
// cfg.SingleNodeFullDownload is set, header download runs to
// completion before block download starts, with no fan-out across
// pool. events may be nil; progress events are then dropped.
func Run(ctx context.Context, chain *blockchain.Chain, pool *peer.Pool, cfg *config.Config, events *log.UIEventSender) error {
	blockCh := make(chan []*wire.BlockHeader, pipelineBuffer)
	utxoCh := make(chan []*wire.MsgBlock, pipelineBuffer)

	if cfg.SingleNodeFullDownload {
		if err := DownloadHeaders(ctx, chain, pool, cfg, blockCh, events); err != nil {
			return err
		}
		loaderErr := make(chan error, 1)
		go func() { loaderErr <- RunUTXOLoader(ctx, chain, utxoCh) }()
		if err := DownloadBlocks(ctx, chain, pool, cfg, blockCh, utxoCh, events); err != nil {
			return err
		}
		return <-loaderErr
	}

	var headerErr, blockErr, loaderErr error
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		headerErr = DownloadHeaders(ctx, chain, pool, cfg, blockCh, events)
	}()
	go func() {
		defer wg.Done()
		blockErr = DownloadBlocks(ctx, chain, pool, cfg, blockCh, utxoCh, events)
	}()
	go func() {
		defer wg.Done()
		loaderErr = RunUTXOLoader(ctx, chain, utxoCh)
	}()
	wg.Wait()

	if headerErr != nil {
		return headerErr
	}
	if blockErr != nil {
		return blockErr
	}
	return loaderErr
}
