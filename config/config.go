// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package config parses the node's CLI flags and its KEY=VALUE
// settings file. The CLI surface only ever names a config
// file path and an adapter switch; every runtime knob lives in the
// file so the wallet/UI non-goal components don't need recompiling.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"

	"github.com/mbucca/btcnode/internal/corenode"
)

// CLIOptions are the flags go-flags parses from argv.
type CLIOptions struct {
	Interactive bool `short:"i" long:"interactive" description:"select the GUI adapter; the core node only reports it and runs headless"`
	Args        struct {
		ConfigPath string `positional-arg-name:"config-path"`
	} `positional-args:"yes" required:"yes"`
}

// settingCount is the number of distinct settings the file format
// requires; a mismatch fails startup with an Arguments error.
const settingCount = 23

// Config holds every setting from the node's KEY=VALUE file: one
// max-connections-to-server limit (bound to the single MAX_CONNECTIONS
// key) and three distinct log paths (error/info/message) among them.
type Config struct {
	NumberOfNodes              int
	DNSSeed                    string
	ConnectToDNSNodes          bool
	CustomNodesIPs             []string
	NetPort                    string
	StartString                string
	ProtocolVersion            uint32
	UserAgent                  string
	NThreads                   int
	ConnectTimeoutSeconds      int
	MaxConnectionsToServer     int
	ErrorLogPath               string
	InfoLogPath                string
	MessageLogPath             string
	BlocksDownloadPerNode      int
	DateFirstBlockToDownload   string
	DateFormat                 string
	HeadersToStoreInDisk       int
	ReadHeadersFromDisk        bool
	SingleNodeFullDownload     bool
	HeightFirstBlockToDownload int32
	HeadersFile                string
	LogsFolder                 string
}

// keys is every setting a config file must define, exactly once each.
var keys = []string{
	"NUMBER_OF_NODES",
	"DNS_SEED",
	"CONNECT_TO_DNS_NODES",
	"CUSTOM_NODES_IPS",
	"NET_PORT",
	"START_STRING",
	"PROTOCOL_VERSION",
	"USER_AGENT",
	"N_THREADS",
	"CONNECT_TIMEOUT",
	"MAX_CONNECTIONS",
	"ERROR_LOG_PATH",
	"INFO_LOG_PATH",
	"MESSAGE_LOG_PATH",
	"BLOCKS_DOWNLOAD_PER_NODE",
	"DATE_FIRST_BLOCK_TO_DOWNLOAD",
	"DATE_FORMAT",
	"AMOUNT_OF_HEADERS_TO_STORE_IN_DISK",
	"READ_HEADERS_FROM_DISK",
	"DOWNLOAD_FULL_BLOCKCHAIN_FROM_SINGLE_NODE",
	"HEIGHT_FIRST_BLOCK_TO_DOWNLOAD",
	"HEADERS_FILE",
	"LOGS_FOLDER",
}

func init() {
	if len(keys) != settingCount {
		panic(fmt.Sprintf("config: key table has %d entries, want %d", len(keys), settingCount))
	}
}

// ParseArgs parses argv (excluding the program name) into CLIOptions.
func ParseArgs(argv []string) (*CLIOptions, error) {
	var opts CLIOptions
	if _, err := flags.ParseArgs(&opts, argv); err != nil {
		return nil, corenode.Wrap(corenode.Arguments, err)
	}
	return &opts, nil
}

// Load reads and parses the settings file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, corenode.Wrap(corenode.FileOpen, err)
	}
	defer f.Close()

	raw := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		raw[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, corenode.Wrap(corenode.FileRead, err)
	}

	if len(raw) != settingCount {
		return nil, corenode.Newf(corenode.Arguments,
			"config file has %d settings, want %d", len(raw), settingCount)
	}
	for _, k := range keys {
		if _, ok := raw[k]; !ok {
			return nil, corenode.Newf(corenode.Arguments, "config file missing required key %s", k)
		}
	}

	cfg := &Config{
		NumberOfNodes:              mustInt(raw["NUMBER_OF_NODES"]),
		DNSSeed:                    raw["DNS_SEED"],
		ConnectToDNSNodes:          mustBool(raw["CONNECT_TO_DNS_NODES"]),
		CustomNodesIPs:             splitList(raw["CUSTOM_NODES_IPS"]),
		NetPort:                    raw["NET_PORT"],
		StartString:                raw["START_STRING"],
		ProtocolVersion:            uint32(mustInt(raw["PROTOCOL_VERSION"])),
		UserAgent:                  raw["USER_AGENT"],
		NThreads:                   mustInt(raw["N_THREADS"]),
		ConnectTimeoutSeconds:      mustInt(raw["CONNECT_TIMEOUT"]),
		MaxConnectionsToServer:     mustInt(raw["MAX_CONNECTIONS"]),
		ErrorLogPath:               raw["ERROR_LOG_PATH"],
		InfoLogPath:                raw["INFO_LOG_PATH"],
		MessageLogPath:             raw["MESSAGE_LOG_PATH"],
		BlocksDownloadPerNode:      mustInt(raw["BLOCKS_DOWNLOAD_PER_NODE"]),
		DateFirstBlockToDownload:   raw["DATE_FIRST_BLOCK_TO_DOWNLOAD"],
		DateFormat:                 raw["DATE_FORMAT"],
		HeadersToStoreInDisk:       mustInt(raw["AMOUNT_OF_HEADERS_TO_STORE_IN_DISK"]),
		ReadHeadersFromDisk:        mustBool(raw["READ_HEADERS_FROM_DISK"]),
		SingleNodeFullDownload:     mustBool(raw["DOWNLOAD_FULL_BLOCKCHAIN_FROM_SINGLE_NODE"]),
		HeightFirstBlockToDownload: int32(mustInt(raw["HEIGHT_FIRST_BLOCK_TO_DOWNLOAD"])),
		HeadersFile:                raw["HEADERS_FILE"],
		LogsFolder:                 raw["LOGS_FOLDER"],
	}
	return cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func mustInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func mustBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}
