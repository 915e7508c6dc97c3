// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package log

// UIEvent is a tagged status update meant for an optional UI adapter.
// The core never blocks on a UI consuming these.
type UIEvent struct {
	Kind    string
	Height  int32
	Total   int32
	Message string
}

// Event kinds understood by the UI adapters.
const (
	EventStartHandshake            = "StartHandshake"
	EventStartDownloadingHeaders   = "StartDownloadingHeaders"
	EventUpdateHeadersDownloaded   = "UpdateHeadersDownloaded"
	EventStartDownloadingBlocks    = "StartDownloadingBlocks"
	EventActualizeBlocksDownloaded = "ActualizeBlocksDownloaded"
	EventAccountAdded              = "AccountAdded"
	EventAccountChanged            = "AccountChanged"
	EventAddBlock                  = "AddBlock"
	EventShowPendingTransaction    = "ShowPendingTransaction"
	EventShowConfirmedTransaction  = "ShowConfirmedTransaction"
	EventBlockFound                = "BlockFound"
	EventHeaderFound               = "HeaderFound"
	EventNotFound                  = "NotFound"
	EventPOIResult                 = "POIResult"
	EventMakeTransactionStatus     = "MakeTransactionStatus"
)

// UIEventSender is a one-way, non-blocking sink for UIEvents. A nil
// *UIEventSender is legal and Send on it is a no-op, so the node runs
// unchanged with no UI attached.
type UIEventSender struct {
	ch chan UIEvent
}

// NewUIEventSender returns a sender backed by a buffered channel of the
// given capacity; ch is exposed via Events for a UI adapter to drain.
func NewUIEventSender(capacity int) *UIEventSender {
	return &UIEventSender{ch: make(chan UIEvent, capacity)}
}

// Events returns the channel a UI adapter should range over.
func (s *UIEventSender) Events() <-chan UIEvent {
	if s == nil {
		return nil
	}
	return s.ch
}

// Send delivers evt without blocking; if the sink is full, nil, or has
// no consumer, the event is silently dropped. The UI never exerts
// back-pressure on the node.
func (s *UIEventSender) Send(evt UIEvent) {
	if s == nil {
		return
	}
	select {
	case s.ch <- evt:
	default:
	}
}
