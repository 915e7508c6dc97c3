// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package log wires up the node's subsystem loggers. Each package that
// wants structured logging gets its own named backend tag (IBD, PEER,
// SRVR, WLLT, BCHN), backed by a rotating file sink.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// Subsystem tags, one per package that logs.
const (
	SubsystemIBD  = "IBD"
	SubsystemPeer = "PEER"
	SubsystemSrvr = "SRVR"
	SubsystemWllt = "WLLT"
	SubsystemBchn = "BCHN"
)

var (
	backendLog  = slog.NewBackend(os.Stdout)
	logRotators []*rotator.Rotator
)

// InitLogRotators opens (creating if necessary) the three rotating log
// files the config surface names (ERROR_LOG_PATH, INFO_LOG_PATH,
// MESSAGE_LOG_PATH, each under LOGS_FOLDER) and tees every subsystem
// logger's output to all of them plus stdout.
func InitLogRotators(errorPath, infoPath, messagePath string, maxRolls int) error {
	paths := []string{errorPath, infoPath, messagePath}
	writers := []io.Writer{os.Stdout}
	rotators := make([]*rotator.Rotator, 0, len(paths))
	for _, p := range paths {
		r, err := rotator.New(p, 10*1024, false, maxRolls)
		if err != nil {
			return err
		}
		rotators = append(rotators, r)
		writers = append(writers, r)
	}
	logRotators = rotators
	backendLog = slog.NewBackend(io.MultiWriter(writers...))
	return nil
}

// SetLevel sets the log level for every known subsystem.
func SetLevel(levelName string) {
	level, ok := slog.LevelFromString(levelName)
	if !ok {
		level = slog.LevelInfo
	}
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		l.SetLevel(level)
	}
}

var (
	loggersMu sync.Mutex
	loggers   = make(map[string]slog.Logger)
)

// Logger returns (creating if necessary) the logger for subsystem.
// Safe for concurrent use; every peer worker grabs its logger lazily.
func Logger(subsystem string) slog.Logger {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[subsystem]; ok {
		return l
	}
	l := backendLog.Logger(subsystem)
	loggers[subsystem] = l
	return l
}

// Close flushes and closes every log rotator opened via
// InitLogRotators, if any were configured.
func Close() {
	for _, r := range logRotators {
		r.Close()
	}
}
