// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ibd

import (
	"context"

	"github.com/mbucca/btcnode/blockchain"
	"github.com/mbucca/btcnode/log"
	"github.com/mbucca/btcnode/wire"
)

// RunUTXOLoader is the download pipeline's single consumer: it reads
// batches of freshly decoded blocks off blockBatches, in the order the
// block-download workers forward them, and applies each one to chain
// via InsertBlock (which runs blockchain.ApplyBlockToUTXO under the
// chain's own utxo lock). Concentrating every UTXO mutation at this
// single point, rather than in the decoding workers themselves,
// linearizes ordering and removes lock contention between them. It
// returns once blockBatches is closed (DownloadBlocks closes it when
// all blocks are in) or ctx is cancelled.
func RunUTXOLoader(ctx context.Context, chain *blockchain.Chain, blockBatches <-chan []*wire.MsgBlock) error {
	logger := log.Logger(log.SubsystemIBD)
	for {
		select {
		case batch, ok := <-blockBatches:
			if !ok {
				return nil
			}
			for _, block := range batch {
				if err := chain.InsertBlock(block); err != nil {
					logger.Warnf("utxo loader: rejecting block %s: %v", block.Header.BlockHash(), err)
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
