/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package eventsource binds a peer's event hub to the organization of the peer and
// tracks the connection state of the hub.
package eventsource

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hyperledger/fabric-network-go/pkg/common/errors/retry"
	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	"github.com/hyperledger/fabric-network-go/pkg/common/logging"
	"github.com/hyperledger/fabric-network-go/pkg/common/options"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	"github.com/pkg/errors"
)

var logger = logging.NewLogger("fabnet/fab")

// ConnectionState is the state of the event source connection
type ConnectionState int32

const (
	// Disconnected indicates that the event source has not been connected or was disconnected
	Disconnected ConnectionState = iota
	// Connecting indicates that a connection attempt is in progress
	Connecting
	// Connected indicates that the event stream is established
	Connected
	// Failed indicates that the last connection attempt failed
	Failed
)

// EventSource is a peer-bound event subscription
type EventSource struct {
	params
	peer  fab.Peer
	hub   fab.EventHub
	state int32

	mutex   sync.RWMutex
	settled chan struct{}
	gen     uint64
	pending *attempt
}

// attempt is a connection attempt started in a given generation. Disconnect moves the
// event source to the next generation so that stale attempts cannot revive the hub.
type attempt struct {
	gen     uint64
	ctx     context.Context
	cancel  context.CancelFunc
	settled chan struct{}
}

// New returns a new event source for the given peer and its event hub
func New(peer fab.Peer, hub fab.EventHub, opts ...options.Opt) *EventSource {
	params := defaultParams()
	options.Apply(params, opts)

	es := &EventSource{
		params:  *params,
		peer:    peer,
		hub:     hub,
		state:   int32(Disconnected),
		settled: make(chan struct{}),
	}
	close(es.settled)

	if hub.IsConnected() {
		es.state = int32(Connected)
	}

	return es
}

// MSPID returns the organization of the peer
func (es *EventSource) MSPID() string {
	return es.peer.MSPID()
}

// Peer returns the peer delivering events
func (es *EventSource) Peer() fab.Peer {
	return es.peer
}

// PeerAddr returns the address of the peer delivering events
func (es *EventSource) PeerAddr() string {
	return es.hub.PeerAddr()
}

// ConnectionState returns the current connection state
func (es *EventSource) ConnectionState() ConnectionState {
	es.syncState(es.hub.IsConnected())
	return ConnectionState(atomic.LoadInt32(&es.state))
}

// IsConnected returns true if the event stream is established
func (es *EventSource) IsConnected() bool {
	return es.ConnectionState() == Connected
}

// Connect establishes the event stream, retrying on transient failures. The attempt is
// bounded by the configured connect timeout.
func (es *EventSource) Connect(ctx context.Context) error {
	if es.IsConnected() {
		return nil
	}

	att, ok := es.beginConnect(ctx)
	if !ok {
		return errors.Errorf("unable to connect event source [%s] since it is [%s]. Expecting it to be in state [%s] or [%s]", es.PeerAddr(), es.ConnectionState(), Disconnected, Failed)
	}

	return es.connect(att)
}

// CheckConnection returns true if the event stream is established. Otherwise a reconnect
// is started in the background unless one is already in progress.
func (es *EventSource) CheckConnection() bool {
	connected := es.hub.CheckConnection(false)
	es.syncState(connected)
	if connected {
		return true
	}

	if att, ok := es.beginConnect(context.Background()); ok {
		logger.Debugf("Event source [%s] is not connected. Reconnecting...", es.PeerAddr())
		go func() {
			if err := es.connect(att); err != nil {
				logger.Debugf("Reconnect of event source [%s] failed: %s", es.PeerAddr(), err)
			}
		}()
	}

	return false
}

// AwaitConnect waits for a connection attempt in progress to complete and returns true
// if the event source is connected.
func (es *EventSource) AwaitConnect(ctx context.Context) bool {
	es.mutex.RLock()
	settled := es.settled
	es.mutex.RUnlock()

	select {
	case <-settled:
	case <-ctx.Done():
	}

	return es.IsConnected()
}

// Disconnect closes the event stream. A connection attempt in progress is aborted and
// waited for, so the hub stays closed once Disconnect returns.
func (es *EventSource) Disconnect() error {
	es.mutex.Lock()
	es.gen++
	att := es.pending
	es.pending = nil
	es.mustSetConnectionState(Disconnected)
	es.mutex.Unlock()

	if att != nil {
		att.cancel()
		<-att.settled
	}

	err := es.hub.Disconnect()
	es.setConnectionState(Connected, Disconnected)
	if err != nil {
		return errors.Wrapf(err, "disconnect of event source [%s] failed", es.PeerAddr())
	}
	return nil
}

// Register registers for the commit status of txID
func (es *EventSource) Register(txID fab.TransactionID, onEvent fab.TxEventCallback, onError fab.ErrorCallback) error {
	if err := es.hub.RegisterTxEvent(txID, onEvent, onError); err != nil {
		return errors.Wrapf(err, "registration for transaction [%s] on event source [%s] failed", txID, es.PeerAddr())
	}
	return nil
}

// Unregister removes the registration for txID
func (es *EventSource) Unregister(txID fab.TransactionID) error {
	if err := es.hub.UnregisterTxEvent(txID); err != nil {
		return errors.Wrapf(err, "unregistration for transaction [%s] on event source [%s] failed", txID, es.PeerAddr())
	}
	return nil
}

func (es *EventSource) String() string {
	return fmt.Sprintf("%s (%s)", es.PeerAddr(), es.MSPID())
}

func (es *EventSource) connect(att *attempt) error {
	reqCtx, cancel := context.WithTimeout(att.ctx, es.connectTimeout)
	defer cancel()

	invoker := retry.NewInvoker(
		retry.New(es.retryOpts),
		retry.WithBeforeRetry(func(err error) {
			logger.Debugf("Retrying connect of event source [%s] after error: %s", es.PeerAddr(), err)
		}),
	)

	_, err := invoker.Invoke(reqCtx, func() (interface{}, error) {
		if err := es.hub.Connect(reqCtx, es.fullBlocks); err != nil {
			if _, ok := status.FromError(err); ok {
				return nil, err
			}
			return nil, status.New(status.ClientStatus, status.ConnectionFailed.ToInt32(), err.Error(), []interface{}{es.PeerAddr()})
		}
		return nil, nil
	})

	if err != nil {
		if !es.endConnect(att, Failed) {
			return errors.Errorf("connect of event source [%s] aborted by disconnect", es.PeerAddr())
		}
		logger.Warnf("Unable to connect event source [%s]: %s", es.PeerAddr(), err)
		return errors.WithMessage(err, fmt.Sprintf("connect of event source [%s] failed", es.PeerAddr()))
	}

	if !es.endConnect(att, Connected) {
		logger.Debugf("Event source [%s] was disconnected while connecting", es.PeerAddr())
		return errors.Errorf("connect of event source [%s] aborted by disconnect", es.PeerAddr())
	}
	logger.Debugf("Event source [%s] connected", es.PeerAddr())
	return nil
}

func (es *EventSource) beginConnect(ctx context.Context) (*attempt, bool) {
	es.mutex.Lock()
	defer es.mutex.Unlock()

	if !es.setConnectionState(Disconnected, Connecting) && !es.setConnectionState(Failed, Connecting) {
		return nil, false
	}

	attCtx, cancel := context.WithCancel(ctx)
	att := &attempt{
		gen:     es.gen,
		ctx:     attCtx,
		cancel:  cancel,
		settled: make(chan struct{}),
	}
	es.settled = att.settled
	es.pending = att
	return att, true
}

// endConnect records the result of the attempt and returns false if the event source
// was disconnected in the meantime. The state of a stale attempt is discarded.
func (es *EventSource) endConnect(att *attempt, state ConnectionState) bool {
	es.mutex.Lock()
	defer es.mutex.Unlock()
	defer close(att.settled)

	att.cancel()
	if att.gen != es.gen {
		return false
	}

	es.pending = nil
	es.mustSetConnectionState(state)
	return true
}

// syncState reconciles the recorded state with the state reported by the hub.
// A connect in progress is left alone.
func (es *EventSource) syncState(connected bool) {
	if connected {
		if !es.setConnectionState(Disconnected, Connected) {
			es.setConnectionState(Failed, Connected)
		}
		return
	}
	es.setConnectionState(Connected, Disconnected)
}

func (es *EventSource) setConnectionState(currentState, newState ConnectionState) bool {
	return atomic.CompareAndSwapInt32(&es.state, int32(currentState), int32(newState))
}

func (es *EventSource) mustSetConnectionState(newState ConnectionState) {
	atomic.StoreInt32(&es.state, int32(newState))
}

func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	case Failed:
		return "Failed"
	default:
		return "undefined"
	}
}
