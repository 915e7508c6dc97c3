// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command btcnode is the process entry point: it parses the
// config file, performs the handshake fan-out, runs initial block
// download, then serves the steady-state peer loop and inbound
// listener until an interrupt asks it to shut down cleanly. The
// GUI/terminal adapters live outside this package; they drive the node
// through the node and wallet APIs.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mbucca/btcnode/blockchain"
	"github.com/mbucca/btcnode/chaincfg"
	"github.com/mbucca/btcnode/config"
	"github.com/mbucca/btcnode/ibd"
	"github.com/mbucca/btcnode/internal/utxodb"
	"github.com/mbucca/btcnode/log"
	"github.com/mbucca/btcnode/node"
	"github.com/mbucca/btcnode/peer"
	"github.com/mbucca/btcnode/server"
)

// utxoSnapshotPath is where the optional goleveldb restart-time
// snapshot lives. It isn't one of the 23 mandated config keys; the
// node runs perfectly well without the snapshot.
const utxoSnapshotPath = "utxo-snapshot.db"

// defaultLogRolls bounds how many rotated log files jrick/logrotate
// keeps around for each of the three log paths (ERROR_LOG_PATH,
// INFO_LOG_PATH, MESSAGE_LOG_PATH); it isn't itself one of the 23
// mandated config keys, just a sane constant for the
// rotators those settings feed.
const defaultLogRolls = 10

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "btcnode:", err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	opts, err := config.ParseArgs(argv)
	if err != nil {
		return err
	}
	if opts.Interactive {
		fmt.Fprintln(os.Stderr, "btcnode: -i (GUI adapter) is not part of the core node; running headless")
	}

	cfg, err := config.Load(opts.Args.ConfigPath)
	if err != nil {
		return err
	}

	if cfg.LogsFolder != "" {
		errPath := filepath.Join(cfg.LogsFolder, cfg.ErrorLogPath)
		infoPath := filepath.Join(cfg.LogsFolder, cfg.InfoLogPath)
		msgPath := filepath.Join(cfg.LogsFolder, cfg.MessageLogPath)
		if err := log.InitLogRotators(errPath, infoPath, msgPath, defaultLogRolls); err != nil {
			return err
		}
	}
	defer log.Close()

	logger := log.Logger(log.SubsystemSrvr)

	params := chaincfg.TestNet3Params()
	chain := blockchain.NewChain(params)

	snapshot, err := utxodb.Open(utxoSnapshotPath)
	if err != nil {
		logger.Warnf("opening utxo snapshot store: %v", err)
	}
	if snapshot != nil {
		if err := loadUTXOSnapshot(chain, snapshot); err != nil {
			logger.Warnf("loading utxo snapshot: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handshakeParams := peer.HandshakeParams{
		Magic:           params.Net,
		ProtocolVersion: cfg.ProtocolVersion,
		UserAgent:       cfg.UserAgent,
		OutboundBuf:     256,
	}

	logger.Info("starting handshake")
	addrs := candidateAddresses(cfg)
	pool := peer.NewPool()
	timeout := time.Duration(cfg.ConnectTimeoutSeconds) * time.Second
	if err := peer.DialFanOut(addrs, cfg.NThreads, timeout, handshakeParams, pool); err != nil {
		return err
	}

	logger.Info("starting initial block download")
	if err := ibd.Run(ctx, chain, pool, cfg, nil); err != nil {
		return err
	}

	n := node.New(chain, nil)
	n.AdoptPool(pool)

	srv, err := server.Listen(
		net.JoinHostPort("", cfg.NetPort),
		n.Pool, n.Handlers, handshakeParams,
		cfg.MaxConnectionsToServer, n.ShutdownSignal(),
	)
	if err != nil {
		return err
	}

	logger.Info("node is running; press Ctrl-C to shut down")
	waitForInterrupt()

	cancel()
	n.Shutdown()
	srv.Wait()

	if snapshot != nil {
		if err := snapshot.SaveSnapshot(chain.UTXOSnapshot()); err != nil {
			logger.Warnf("saving utxo snapshot: %v", err)
		}
		snapshot.Close()
	}
	return nil
}

// candidateAddresses gathers the peer addresses the handshake fan-out
// should try: the configured custom IPs, plus (when enabled) whatever
// the DNS seed resolves to. This is the one place the entry point
// touches DNS, translating its output into plain addresses before
// handing them to the handshake fan-out.
func candidateAddresses(cfg *config.Config) []string {
	var addrs []string
	for _, ip := range cfg.CustomNodesIPs {
		addrs = append(addrs, withPort(ip, cfg.NetPort))
	}

	if cfg.ConnectToDNSNodes && cfg.DNSSeed != "" {
		hosts, err := net.LookupHost(cfg.DNSSeed)
		if err != nil {
			log.Logger(log.SubsystemSrvr).Warnf("DNS seed lookup for %s failed: %v", cfg.DNSSeed, err)
		}
		for _, h := range hosts {
			addrs = append(addrs, withPort(h, cfg.NetPort))
		}
	}
	return addrs
}

func withPort(addr, defaultPort string) string {
	if strings.Contains(addr, ":") {
		return addr
	}
	return net.JoinHostPort(addr, defaultPort)
}

func loadUTXOSnapshot(chain *blockchain.Chain, snapshot *utxodb.Store) error {
	utxo, err := snapshot.LoadSnapshot()
	if err != nil {
		return err
	}
	chain.ReplaceUTXOSet(utxo)
	return nil
}

func waitForInterrupt() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
}
