// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package corenode defines the node's typed error taxonomy: a small
// struct carrying a fixed kind plus a wrapped cause.
package corenode

import "fmt"

// ErrorKind identifies the category of a failure, independent of its
// message, so callers can branch on kind without string matching.
type ErrorKind int

const (
	Unmarshal ErrorKind = iota
	Lock
	Read
	Write
	Channel
	ThreadJoin
	Socket
	Handshake
	FirstBlockNotFound
	InvalidHeader
	FileOpen
	FileRead
	FileWrite
	Arguments
	BlockchainDownload
	Utxo
	Other
)

func (k ErrorKind) String() string {
	switch k {
	case Unmarshal:
		return "Unmarshal"
	case Lock:
		return "Lock"
	case Read:
		return "Read"
	case Write:
		return "Write"
	case Channel:
		return "Channel"
	case ThreadJoin:
		return "ThreadJoin"
	case Socket:
		return "Socket"
	case Handshake:
		return "Handshake"
	case FirstBlockNotFound:
		return "FirstBlockNotFound"
	case InvalidHeader:
		return "InvalidHeader"
	case FileOpen:
		return "FileOpen"
	case FileRead:
		return "FileRead"
	case FileWrite:
		return "FileWrite"
	case Arguments:
		return "Arguments"
	case BlockchainDownload:
		return "BlockchainDownload"
	case Utxo:
		return "Utxo"
	default:
		return "Other"
	}
}

// Error is the node's single error type: a kind plus an optional
// wrapped cause and a human-readable description.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of kind with a literal message.
func New(kind ErrorKind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds an Error of kind with a formatted message.
func Newf(kind ErrorKind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of kind wrapping cause, reusing cause's message.
func Wrap(kind ErrorKind, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: cause.Error(), Err: cause}
}

// WrapMsg builds an Error of kind wrapping cause with an additional
// message prefix.
func WrapMsg(kind ErrorKind, msg string, cause error) error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind ErrorKind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
