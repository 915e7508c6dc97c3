// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "bytes"

// MakeEmptyMessage returns a zero-value Message for the given command
// string, or nil if the command is unrecognized (callers ignore those,
// logging only).
func MakeEmptyMessage(command string) Message {
	switch command {
	case CmdVersion:
		return &MsgVersion{}
	case CmdVerAck:
		return &MsgVerAck{}
	case CmdHeaders:
		return &MsgHeaders{}
	case CmdGetHeaders:
		return &MsgGetHeaders{}
	case CmdInv:
		return &MsgInv{}
	case CmdGetData:
		return &MsgGetData{}
	case CmdNotFound:
		return &MsgNotFound{}
	case CmdBlock:
		return &MsgBlock{}
	case CmdTx:
		return &MsgTx{}
	case CmdPing:
		return &MsgPing{}
	case CmdPong:
		return &MsgPong{}
	case CmdSendHeaders:
		return &MsgSendHeaders{}
	default:
		return nil
	}
}

// UnmarshalPayload decodes payload into a new Message appropriate for
// command, or returns (nil, nil) for an unrecognized command.
func UnmarshalPayload(command string, payload []byte) (Message, error) {
	msg := MakeEmptyMessage(command)
	if msg == nil {
		return nil, nil
	}
	if err := msg.Unmarshal(bytes.NewReader(payload)); err != nil {
		return nil, err
	}
	return msg, nil
}
