/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

import (
	"context"

	pb "github.com/hyperledger/fabric-protos-go/peer"
)

// TxStatusEvent contains the data for a transaction status event
type TxStatusEvent struct {
	// TxID is the ID of the transaction in which the event was set
	TxID string
	// TxValidationCode is the status code of the commit
	TxValidationCode pb.TxValidationCode
	// BlockNumber contains the block number in which the
	// transaction was committed
	BlockNumber uint64
	// SourceURL specifies the URL of the peer that produced the event
	SourceURL string
}

// TxEventCallback is invoked when the commit status of a registered transaction is known
type TxEventCallback func(event *TxStatusEvent)

// ErrorCallback is invoked when the event hub can no longer deliver the registered event
type ErrorCallback func(err error)

// EventHub is a peer-bound event subscription provided by the transport.
type EventHub interface {
	// PeerAddr returns the address of the peer delivering events
	PeerAddr() string

	// Connect establishes the event stream. It returns once the hub is connected or has
	// failed to connect.
	Connect(ctx context.Context, fullBlocks bool) error

	// Disconnect closes the event stream
	Disconnect() error

	// IsConnected returns true if the event stream is established
	IsConnected() bool

	// CheckConnection returns the current connection state. When forceReconnect is true
	// and the hub is not connected, a reconnect is started without waiting for it.
	CheckConnection(forceReconnect bool) bool

	// RegisterTxEvent registers for the commit status of txID. Exactly one of the callbacks
	// is invoked unless the registration is removed first.
	RegisterTxEvent(txID TransactionID, onEvent TxEventCallback, onError ErrorCallback) error

	// UnregisterTxEvent removes the registration for txID
	UnregisterTxEvent(txID TransactionID) error
}
