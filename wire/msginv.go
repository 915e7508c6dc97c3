// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

func marshalInvList(w io.Writer, list []*InvVect) error {
	if err := WriteVarInt(w, uint64(len(list))); err != nil {
		return err
	}
	for _, iv := range list {
		if err := iv.marshal(w); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalInvList(r io.Reader) ([]*InvVect, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > MaxInvPerMsg {
		return nil, messageError("unmarshalInvList", "too many inventory items")
	}
	list := make([]*InvVect, count)
	for i := range list {
		iv := new(InvVect)
		if err := iv.unmarshal(r); err != nil {
			return nil, err
		}
		list[i] = iv
	}
	return list, nil
}

// MsgInv implements the Message interface and announces inventory the
// sending peer has.
type MsgInv struct {
	InvList []*InvVect
}

// AddInvVect adds an inventory vector to the message.
func (msg *MsgInv) AddInvVect(iv *InvVect) { msg.InvList = append(msg.InvList, iv) }

// Command returns the protocol command string for an inv message.
func (msg *MsgInv) Command() string { return CmdInv }

// Marshal writes the inv payload to w.
func (msg *MsgInv) Marshal(w io.Writer) error { return marshalInvList(w, msg.InvList) }

// Unmarshal reads an inv payload from r.
func (msg *MsgInv) Unmarshal(r io.Reader) error {
	list, err := unmarshalInvList(r)
	if err != nil {
		return err
	}
	msg.InvList = list
	return nil
}

// MsgGetData implements the Message interface and requests the data
// described by its inventory vectors.
type MsgGetData struct {
	InvList []*InvVect
}

// AddInvVect adds an inventory vector to the message.
func (msg *MsgGetData) AddInvVect(iv *InvVect) { msg.InvList = append(msg.InvList, iv) }

// Command returns the protocol command string for a getdata message.
func (msg *MsgGetData) Command() string { return CmdGetData }

// Marshal writes the getdata payload to w.
func (msg *MsgGetData) Marshal(w io.Writer) error { return marshalInvList(w, msg.InvList) }

// Unmarshal reads a getdata payload from r.
func (msg *MsgGetData) Unmarshal(r io.Reader) error {
	list, err := unmarshalInvList(r)
	if err != nil {
		return err
	}
	msg.InvList = list
	return nil
}

// MsgNotFound implements the Message interface; sent in reply to getdata
// for inventory items the peer does not have.
type MsgNotFound struct {
	InvList []*InvVect
}

// AddInvVect adds an inventory vector to the message.
func (msg *MsgNotFound) AddInvVect(iv *InvVect) { msg.InvList = append(msg.InvList, iv) }

// Command returns the protocol command string for a notfound message.
func (msg *MsgNotFound) Command() string { return CmdNotFound }

// Marshal writes the notfound payload to w.
func (msg *MsgNotFound) Marshal(w io.Writer) error { return marshalInvList(w, msg.InvList) }

// Unmarshal reads a notfound payload from r.
func (msg *MsgNotFound) Unmarshal(r io.Reader) error {
	list, err := unmarshalInvList(r)
	if err != nil {
		return err
	}
	msg.InvList = list
	return nil
}
