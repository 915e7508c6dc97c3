// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mbucca/btcnode/internal/corenode"
)

func writeConfigFile(t *testing.T, lines []string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "node.conf")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func completeLines() []string {
	return []string{
		"# a comment",
		"NUMBER_OF_NODES=8",
		"DNS_SEED=seed.testnet.bitcoin.sprovoost.nl",
		"CONNECT_TO_DNS_NODES=true",
		"CUSTOM_NODES_IPS=1.2.3.4,5.6.7.8",
		"NET_PORT=18333",
		"START_STRING=0B110907",
		"PROTOCOL_VERSION=70015",
		"USER_AGENT=/btcnode:0.1.0/",
		"N_THREADS=4",
		"CONNECT_TIMEOUT=5",
		"MAX_CONNECTIONS=4",
		"ERROR_LOG_PATH=error.log",
		"INFO_LOG_PATH=info.log",
		"MESSAGE_LOG_PATH=message.log",
		"BLOCKS_DOWNLOAD_PER_NODE=16",
		"DATE_FIRST_BLOCK_TO_DOWNLOAD=2023-01-01",
		"DATE_FORMAT=2006-01-02",
		"AMOUNT_OF_HEADERS_TO_STORE_IN_DISK=2000",
		"READ_HEADERS_FROM_DISK=false",
		"DOWNLOAD_FULL_BLOCKCHAIN_FROM_SINGLE_NODE=false",
		"HEIGHT_FIRST_BLOCK_TO_DOWNLOAD=2500000",
		"HEADERS_FILE=headers.dat",
		"LOGS_FOLDER=logs",
	}
}

func TestLoadParsesAllSettings(t *testing.T) {
	path := writeConfigFile(t, completeLines())

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NumberOfNodes != 8 {
		t.Fatalf("NumberOfNodes = %d, want 8", cfg.NumberOfNodes)
	}
	if len(cfg.CustomNodesIPs) != 2 {
		t.Fatalf("CustomNodesIPs = %v, want 2 entries", cfg.CustomNodesIPs)
	}
	if cfg.ProtocolVersion != 70015 {
		t.Fatalf("ProtocolVersion = %d, want 70015", cfg.ProtocolVersion)
	}
	if !cfg.ConnectToDNSNodes {
		t.Fatal("ConnectToDNSNodes = false, want true")
	}
}

func TestLoadRejectsMissingSetting(t *testing.T) {
	lines := completeLines()[:len(completeLines())-1] // drop LOGS_FOLDER
	path := writeConfigFile(t, lines)

	_, err := Load(path)
	if !corenode.Is(err, corenode.Arguments) {
		t.Fatalf("expected Arguments error, got %v", err)
	}
}

func TestLoadRejectsUnknownFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.conf"))
	if !corenode.Is(err, corenode.FileOpen) {
		t.Fatalf("expected FileOpen error, got %v", err)
	}
}
