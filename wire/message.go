// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/mbucca/btcnode/chainhash"
)

// emptyChecksum is the constant checksum of a zero-length payload.
var emptyChecksum = [4]byte{0x5d, 0xf6, 0xe0, 0xe2}

// MessageHeader is the 24-byte frame prefixing every message payload.
type MessageHeader struct {
	Magic    uint32
	Command  string
	Length   uint32
	Checksum [4]byte
}

// Message is implemented by every payload type so it can be framed
// generically by WriteMessage/ReadMessage.
type Message interface {
	Command() string
	Marshal(w io.Writer) error
	Unmarshal(r io.Reader) error
}

func checksum(payload []byte) [4]byte {
	if len(payload) == 0 {
		return emptyChecksum
	}
	var c [4]byte
	copy(c[:], chainhash.DoubleHashB(payload))
	return c
}

// WriteMessage serializes msg with its 24-byte framing header and writes
// the whole frame to w.
func WriteMessage(w io.Writer, msg Message, magic uint32) error {
	var payloadBuf bytes.Buffer
	if err := msg.Marshal(&payloadBuf); err != nil {
		return err
	}
	payload := payloadBuf.Bytes()

	if len(payload) > MaxBlockPayload {
		return messageError("WriteMessage",
			fmt.Sprintf("payload of %d bytes exceeds max of %d", len(payload), MaxBlockPayload))
	}

	var hdr bytes.Buffer
	if err := binary.Write(&hdr, binary.LittleEndian, magic); err != nil {
		return err
	}
	var cmd [CommandSize]byte
	copy(cmd[:], msg.Command())
	if _, err := hdr.Write(cmd[:]); err != nil {
		return err
	}
	if err := binary.Write(&hdr, binary.LittleEndian, uint32(len(payload))); err != nil {
		return err
	}
	sum := checksum(payload)
	if _, err := hdr.Write(sum[:]); err != nil {
		return err
	}

	if _, err := w.Write(hdr.Bytes()); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadMessageHeader reads and validates the 24-byte framing header from r.
func ReadMessageHeader(r io.Reader, magic uint32) (*MessageHeader, error) {
	var buf [MessageHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, messageError("ReadMessageHeader", err.Error())
	}

	hdr := &MessageHeader{}
	hdr.Magic = binary.LittleEndian.Uint32(buf[0:4])
	if hdr.Magic != magic {
		return nil, messageError("ReadMessageHeader",
			fmt.Sprintf("unexpected magic %x, want %x", hdr.Magic, magic))
	}

	cmdBytes := buf[4 : 4+CommandSize]
	end := bytes.IndexByte(cmdBytes, 0)
	if end == -1 {
		end = len(cmdBytes)
	}
	hdr.Command = string(cmdBytes[:end])
	hdr.Length = binary.LittleEndian.Uint32(buf[16:20])
	if hdr.Length > MaxBlockPayload {
		return nil, messageError("ReadMessageHeader",
			fmt.Sprintf("payload length %d exceeds max %d", hdr.Length, MaxBlockPayload))
	}
	copy(hdr.Checksum[:], buf[20:24])
	return hdr, nil
}

// ReadMessagePayload reads exactly hdr.Length bytes and validates the
// checksum against the computed double-SHA256.
func ReadMessagePayload(r io.Reader, hdr *MessageHeader) ([]byte, error) {
	payload := make([]byte, hdr.Length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, messageError("ReadMessagePayload", err.Error())
	}
	sum := checksum(payload)
	if sum != hdr.Checksum {
		return nil, messageError("ReadMessagePayload", "checksum mismatch")
	}
	return payload, nil
}
