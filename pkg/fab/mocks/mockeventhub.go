/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"
)

type txRegistration struct {
	onEvent fab.TxEventCallback
	onError fab.ErrorCallback
}

// MockEventHub is an in-memory fab.EventHub. Tests drive it with SendTxEvent and SendError.
type MockEventHub struct {
	mutex sync.RWMutex

	addr      string
	connected bool

	// ConnectErr is returned by Connect (and the hub stays disconnected) when set
	ConnectErr error
	// ConnectDelay is waited (or the context expires) before Connect completes
	ConnectDelay time.Duration
	// DisconnectErr is returned by Disconnect when set
	DisconnectErr error
	// RegisterErr is returned by RegisterTxEvent when set
	RegisterErr error
	// OnRegister is invoked in a separate goroutine after every successful registration
	OnRegister func(hub *MockEventHub, txID fab.TransactionID)

	registrations   map[fab.TransactionID]*txRegistration
	unregisterCalls map[fab.TransactionID]int
	connectCalls    int
	checkCalls      int
	disconnectCalls int
	fullBlocks      bool
}

// NewMockEventHub returns a mock event hub for the given peer address
func NewMockEventHub(addr string, connected bool) *MockEventHub {
	return &MockEventHub{
		addr:            addr,
		connected:       connected,
		registrations:   make(map[fab.TransactionID]*txRegistration),
		unregisterCalls: make(map[fab.TransactionID]int),
	}
}

// PeerAddr returns the peer address
func (h *MockEventHub) PeerAddr() string {
	return h.addr
}

// Connect marks the hub connected unless ConnectErr is set
func (h *MockEventHub) Connect(ctx context.Context, fullBlocks bool) error {
	h.mutex.Lock()
	h.connectCalls++
	h.fullBlocks = fullBlocks
	delay := h.ConnectDelay
	h.mutex.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "connect to %s aborted", h.addr)
		}
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.ConnectErr != nil {
		h.connected = false
		return h.ConnectErr
	}
	h.connected = true
	return nil
}

// Disconnect marks the hub disconnected
func (h *MockEventHub) Disconnect() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.disconnectCalls++
	h.connected = false
	return h.DisconnectErr
}

// IsConnected returns the connection state
func (h *MockEventHub) IsConnected() bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.connected
}

// CheckConnection returns the connection state and counts the call
func (h *MockEventHub) CheckConnection(forceReconnect bool) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.checkCalls++
	return h.connected
}

// RegisterTxEvent registers callbacks for txID
func (h *MockEventHub) RegisterTxEvent(txID fab.TransactionID, onEvent fab.TxEventCallback, onError fab.ErrorCallback) error {
	h.mutex.Lock()
	if h.RegisterErr != nil {
		h.mutex.Unlock()
		return h.RegisterErr
	}
	if _, exists := h.registrations[txID]; exists {
		h.mutex.Unlock()
		return errors.Errorf("already registered for transaction %s", txID)
	}
	h.registrations[txID] = &txRegistration{onEvent: onEvent, onError: onError}
	onRegister := h.OnRegister
	h.mutex.Unlock()

	if onRegister != nil {
		go onRegister(h, txID)
	}
	return nil
}

// UnregisterTxEvent removes the registration for txID. Unregistering an unknown
// transaction is an error so double unregistration is detected by tests.
func (h *MockEventHub) UnregisterTxEvent(txID fab.TransactionID) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.unregisterCalls[txID]++
	if _, ok := h.registrations[txID]; !ok {
		return errors.Errorf("no registration for transaction %s", txID)
	}
	delete(h.registrations, txID)
	return nil
}

// SendTxEvent delivers a commit status to the registration for txID.
// It returns false if nothing was registered.
func (h *MockEventHub) SendTxEvent(txID fab.TransactionID, code pb.TxValidationCode) bool {
	h.mutex.RLock()
	reg, ok := h.registrations[txID]
	h.mutex.RUnlock()
	if !ok {
		return false
	}

	reg.onEvent(&fab.TxStatusEvent{
		TxID:             string(txID),
		TxValidationCode: code,
		BlockNumber:      1,
		SourceURL:        h.addr,
	})
	return true
}

// SendError delivers a communication error to the registration for txID.
// It returns false if nothing was registered.
func (h *MockEventHub) SendError(txID fab.TransactionID, err error) bool {
	h.mutex.RLock()
	reg, ok := h.registrations[txID]
	h.mutex.RUnlock()
	if !ok {
		return false
	}

	reg.onError(err)
	return true
}

// SetConnected changes the connection state
func (h *MockEventHub) SetConnected(connected bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.connected = connected
}

// IsRegistered returns true if a registration exists for txID
func (h *MockEventHub) IsRegistered(txID fab.TransactionID) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	_, ok := h.registrations[txID]
	return ok
}

// Registrations returns the number of outstanding registrations
func (h *MockEventHub) Registrations() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.registrations)
}

// UnregisterCount returns how many times txID was unregistered
func (h *MockEventHub) UnregisterCount(txID fab.TransactionID) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.unregisterCalls[txID]
}

// ConnectCount returns the number of Connect calls
func (h *MockEventHub) ConnectCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.connectCalls
}

// CheckCount returns the number of CheckConnection calls
func (h *MockEventHub) CheckCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.checkCalls
}

// DisconnectCount returns the number of Disconnect calls
func (h *MockEventHub) DisconnectCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.disconnectCalls
}

// FullBlocks returns the block mode requested by the last Connect
func (h *MockEventHub) FullBlocks() bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.fullBlocks
}
