// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ibd implements initial block download: the header downloader
// (disk cache or network), the parallel block downloader, and the
// single UTXO-loader consumer stage that applies decoded blocks to the
// chain's UTXO set.
package ibd

import (
	"context"
	"os"
	"time"

	"github.com/mbucca/btcnode/blockchain"
	"github.com/mbucca/btcnode/blockchain/headerfile"
	"github.com/mbucca/btcnode/chainhash"
	"github.com/mbucca/btcnode/config"
	"github.com/mbucca/btcnode/internal/corenode"
	"github.com/mbucca/btcnode/log"
	"github.com/mbucca/btcnode/peer"
	"github.com/mbucca/btcnode/wire"
)

// headerBatchSize is the number of headers a single getheaders round
// trip returns at most, and the batch granularity the header
// downloader pushes downstream.
const headerBatchSize = wire.MaxHeadersPerMsg

// DownloadHeaders runs header download: it loads the disk header
// cache when configured and present, then extends the chain over the
// network from whatever tip it now has until a response returns fewer
// than headerBatchSize headers. Every batch that reaches or crosses
// the configured first-block-to-download date is forwarded on blockCh,
// one send per batch, for the block downloader to fetch bodies for;
// blockCh is closed when this function returns, with or without an
// error. events may be nil.
func DownloadHeaders(ctx context.Context, chain *blockchain.Chain, pool *peer.Pool, cfg *config.Config, blockCh chan<- []*wire.BlockHeader, events *log.UIEventSender) error {
	defer close(blockCh)

	logger := log.Logger(log.SubsystemIBD)
	threshold, err := firstBlockTimestamp(cfg.DateFormat, cfg.DateFirstBlockToDownload)
	if err != nil {
		return err
	}
	found := false
	events.Send(log.UIEvent{Kind: log.EventStartDownloadingHeaders})

	if cfg.ReadHeadersFromDisk {
		if loaded, ok := loadHeadersFromDisk(chain, cfg.HeadersFile); ok {
			logger.Infof("loaded %d headers from disk cache", len(loaded))
			found = pushMatchingBatches(loaded, threshold, found, blockCh)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return corenode.Wrap(corenode.BlockchainDownload, ctx.Err())
		default:
		}

		batch, err := fetchOneBatch(ctx, chain, pool)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			saveHeadersToDisk(chain, cfg)
			return nil
		}

		found = pushMatchingBatches(batch, threshold, found, blockCh)
		events.Send(log.UIEvent{
			Kind:   log.EventUpdateHeadersDownloaded,
			Height: chain.HeaderCount() - 1,
		})
		if len(batch) < headerBatchSize {
			saveHeadersToDisk(chain, cfg)
			return nil
		}
	}
}

// saveHeadersToDisk persists the first cfg.HeadersToStoreInDisk
// downloaded headers (whole records only, genesis excluded) to
// cfg.HeadersFile so a later run can extend the chain from disk
// instead of re-downloading. Failures are logged, never fatal: the
// cache is an optimization.
func saveHeadersToDisk(chain *blockchain.Chain, cfg *config.Config) {
	if cfg.HeadersToStoreInDisk <= 0 || cfg.HeadersFile == "" {
		return
	}
	count := chain.HeaderCount() - 1
	if limit := int32(cfg.HeadersToStoreInDisk); count > limit {
		count = limit
	}
	if int(count) < headerfile.BatchSize {
		return
	}

	headers := make([]*wire.BlockHeader, 0, count)
	for h := int32(1); h <= count; h++ {
		header, ok := chain.HeaderAt(h)
		if !ok {
			return
		}
		hc := header
		headers = append(headers, &hc)
	}

	logger := log.Logger(log.SubsystemIBD)
	f, err := os.Create(cfg.HeadersFile)
	if err != nil {
		logger.Warnf("writing header cache %s: %v", cfg.HeadersFile, err)
		return
	}
	defer f.Close()
	n, err := headerfile.WriteBatches(f, headers)
	if err != nil {
		logger.Warnf("writing header cache %s after %d headers: %v", cfg.HeadersFile, n, err)
		return
	}
	logger.Infof("stored %d headers in %s", n, cfg.HeadersFile)
}

// loadHeadersFromDisk reads and appends every header in the on-disk
// cache at path, if it exists, tolerating the leading entries that
// duplicate headers the chain already has (its own genesis, or an
// overlapping prefix from a previous run). It reports the headers added
// by this call, in order, and whether at least one header was added.
func loadHeadersFromDisk(chain *blockchain.Chain, path string) ([]*wire.BlockHeader, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	all, err := headerfile.ReadAll(f)
	if err != nil {
		log.Logger(log.SubsystemIBD).Warnf("reading header cache %s: %v", path, err)
		return nil, false
	}

	var added []*wire.BlockHeader
	for _, h := range all {
		if _, err := chain.AppendHeader(h); err != nil {
			if err == blockchain.ErrDuplicateHeader {
				continue
			}
			log.Logger(log.SubsystemIBD).Warnf("header cache %s: %v", path, err)
			break
		}
		added = append(added, h)
	}
	return added, len(added) > 0
}

// fetchOneBatch pops a peer, requests headers after the chain's
// current tip, and appends whatever comes back. A read/write failure
// discards the peer and retries with another; an empty pool fails IBD
// entirely.
func fetchOneBatch(ctx context.Context, chain *blockchain.Chain, pool *peer.Pool) ([]*wire.BlockHeader, error) {
	logger := log.Logger(log.SubsystemIBD)
	for {
		p, err := pool.Take(ctx.Done())
		if err != nil {
			return nil, corenode.WrapMsg(corenode.BlockchainDownload, "no peers left for header download", err)
		}

		batch, err := requestHeaders(p, chain.TipHash())
		if err != nil {
			logger.Warnf("header download from %s failed: %v", p.Addr, err)
			pool.Discard(p)
			continue
		}

		rejected := false
		for _, h := range batch {
			if _, err := chain.AppendHeader(h); err != nil && err != blockchain.ErrDuplicateHeader {
				logger.Warnf("header from %s rejected: %v", p.Addr, err)
				pool.Discard(p)
				rejected = true
				break
			}
		}
		if rejected {
			continue
		}
		pool.Add(p)
		return batch, nil
	}
}

func requestHeaders(p *peer.Peer, locator chainhash.Hash) ([]*wire.BlockHeader, error) {
	req := &wire.MsgGetHeaders{BlockLocatorHashes: []chainhash.Hash{locator}}
	if err := p.WriteMessage(req); err != nil {
		return nil, err
	}
	msg, err := p.ReadMessage()
	if err != nil {
		return nil, err
	}
	headers, ok := msg.(*wire.MsgHeaders)
	if !ok {
		return nil, corenode.New(corenode.Unmarshal, "expected headers message")
	}
	return headers.Headers, nil
}

// pushMatchingBatches sends batch to blockCh once it has been trimmed to
// the headers at or after threshold: the whole batch if found is already
// true, or the suffix starting at the first header crossing threshold
// otherwise. It returns the updated found flag.
func pushMatchingBatches(batch []*wire.BlockHeader, threshold time.Time, found bool, blockCh chan<- []*wire.BlockHeader) bool {
	if found {
		if len(batch) > 0 {
			blockCh <- batch
		}
		return true
	}
	for i, h := range batch {
		if !h.Timestamp.Before(threshold) {
			blockCh <- batch[i:]
			return true
		}
	}
	return false
}
