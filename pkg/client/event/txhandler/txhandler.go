/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package txhandler waits for the commit of a single transaction on a set of event
// sources and settles it according to an event strategy.
package txhandler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hyperledger/fabric-network-go/pkg/client/event/strategy"
	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	"github.com/hyperledger/fabric-network-go/pkg/common/logging"
	"github.com/hyperledger/fabric-network-go/pkg/common/options"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	"github.com/hyperledger/fabric-network-go/pkg/fab/eventsource"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"
)

var logger = logging.NewLogger("fabnet/client")

// EventSourceProvider supplies the event sources of the strategy scope
type EventSourceProvider interface {
	// EventSources returns all event sources in scope, connected or not
	EventSources() []*eventsource.EventSource
	// Reconnect attempts to reconnect disconnected sources and waits until the
	// attempts complete or ctx is done
	Reconnect(ctx context.Context)
}

// State is the lifecycle state of a handler
type State int

const (
	// Created handlers have not started listening
	Created State = iota
	// Listening handlers are registered with their event sources
	Listening
	// Settled handlers have produced an outcome
	Settled
)

func (s State) String() string {
	switch s {
	case Created:
		return "CREATED"
	case Listening:
		return "LISTENING"
	case Settled:
		return "SETTLED"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the terminal result of a handler
type Outcome int

const (
	// Unsettled means that no outcome has been produced yet
	Unsettled Outcome = iota
	// Passed means that the strategy was satisfied
	Passed
	// Failed means that a peer rejected the transaction or the strategy cannot be satisfied
	Failed
	// Timeout means that the strategy was not satisfied in time
	Timeout
	// Cancelled means that listening was stopped by the caller
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Unsettled:
		return "UNSETTLED"
	case Passed:
		return "PASSED"
	case Failed:
		return "FAILED"
	case Timeout:
		return "TIMEOUT"
	case Cancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Handler listens for the commit events of one transaction
type Handler struct {
	params
	txID     fab.TransactionID
	provider EventSourceProvider
	strategy strategy.Strategy

	mutex         sync.Mutex
	state         State
	outcome       Outcome
	err           error
	group         *strategy.EventSourceGroup
	registrations []*registration
	timer         *time.Timer
	done          chan struct{}
}

// New returns a handler for txID
func New(txID fab.TransactionID, provider EventSourceProvider, s strategy.Strategy, opts ...options.Opt) *Handler {
	params := defaultParams()
	options.Apply(params, opts)

	return &Handler{
		params:   *params,
		txID:     txID,
		provider: provider,
		strategy: s,
		done:     make(chan struct{}),
	}
}

// TxID returns the ID of the transaction
func (h *Handler) TxID() fab.TransactionID {
	return h.txID
}

// Strategy returns the strategy used by the handler
func (h *Handler) Strategy() strategy.Strategy {
	return h.strategy
}

// State returns the lifecycle state
func (h *Handler) State() State {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.state
}

// Outcome returns the terminal outcome, or Unsettled
func (h *Handler) Outcome() Outcome {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.outcome
}

// StartListening registers for the transaction on every connected event source and arms
// the timeout. If the connected sources cannot satisfy the strategy, one reconnect of
// the sources is attempted before failing.
func (h *Handler) StartListening(ctx context.Context, timeout time.Duration) error {
	h.mutex.Lock()
	if h.state != Created {
		state := h.state
		h.mutex.Unlock()
		return errors.Errorf("unable to start listening for transaction [%s] since handler is [%s]", h.txID, state)
	}
	h.state = Listening
	h.mutex.Unlock()

	connected, group, err := h.snapshot()
	if err != nil {
		logger.Debugf("Event sources for transaction [%s] cannot satisfy strategy [%s]: %s. Reconnecting...", h.txID, h.strategy.Name(), err)

		reqCtx, cancel := context.WithTimeout(ctx, h.reconnectWait)
		h.provider.Reconnect(reqCtx)
		cancel()

		connected, group, err = h.snapshot()
	}
	if err != nil {
		h.settle(Failed, err)
		return err
	}

	h.mutex.Lock()
	if h.state == Settled {
		err := h.err
		h.mutex.Unlock()
		return err
	}
	h.group = group
	h.registrations = make([]*registration, len(connected))
	for i, es := range connected {
		h.registrations[i] = &registration{handler: h, source: es}
	}
	registrations := h.registrations
	h.timer = time.AfterFunc(timeout, h.onTimeout)
	h.mutex.Unlock()

	logger.Debugf("Listening for transaction [%s] on %d event source(s) using strategy [%s]", h.txID, len(registrations), h.strategy.Name())

	for _, reg := range registrations {
		reg.register()
	}

	return nil
}

// WaitForEvents blocks until the handler settles or ctx is done. It returns nil if the
// strategy passed.
func (h *Handler) WaitForEvents(ctx context.Context) error {
	if h.State() == Created {
		return errors.Errorf("cannot wait for transaction [%s] since listening has not started", h.txID)
	}

	select {
	case <-h.done:
	case <-ctx.Done():
		h.CancelListening()
		return errors.Wrapf(ctx.Err(), "wait for transaction [%s] aborted", h.txID)
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.err
}

// CancelListening stops listening without producing a PASSED outcome. It is a no-op
// once the handler has settled.
func (h *Handler) CancelListening() {
	if h.settle(Cancelled, errors.Errorf("listening for transaction [%s] was cancelled", h.txID)) {
		logger.Debugf("Listening for transaction [%s] cancelled", h.txID)
	}
}

// snapshot returns the connected sources and their group. Only organizations with a
// connected source take part in the group. Disconnected sources are asked to reconnect
// for later transactions.
func (h *Handler) snapshot() ([]*eventsource.EventSource, *strategy.EventSourceGroup, error) {
	sources := h.provider.EventSources()

	group := strategy.NewEventSourceGroup()
	var connected []*eventsource.EventSource
	for _, es := range sources {
		if es.IsConnected() {
			connected = append(connected, es)
			group.AddSource(es.MSPID())
			continue
		}
		logger.Debugf("Event source [%s] is not connected", es)
		es.CheckConnection()
	}

	if len(connected) == 0 {
		return nil, nil, status.New(status.ClientStatus, status.NoEventSources.ToInt32(),
			fmt.Sprintf("no connected event hubs for transaction '%s'", h.txID), nil)
	}

	if err := group.CheckInitialState(h.strategy); err != nil {
		return nil, nil, err
	}
	return connected, group, nil
}

func (h *Handler) onEvent(reg *registration, event *fab.TxStatusEvent) {
	if event.TxValidationCode != pb.TxValidationCode_VALID {
		addr := reg.source.PeerAddr()
		msg := fmt.Sprintf("Peer %s has rejected transaction '%s' with code %s", addr, h.txID, event.TxValidationCode)
		h.settle(Failed, status.New(status.EventServerStatus, int32(event.TxValidationCode), msg, []interface{}{addr}))
		return
	}

	group := h.listeningGroup()
	if group == nil {
		return
	}

	if outcome := group.OnEvent(reg.source.MSPID(), h.strategy); outcome != strategy.Pending {
		h.settleWith(outcome)
	}
}

func (h *Handler) onError(reg *registration, err error) {
	logger.Debugf("Event source [%s] failed for transaction [%s]: %s", reg.source, h.txID, err)

	group := h.listeningGroup()
	if group == nil {
		return
	}

	if outcome := group.OnError(reg.source.MSPID(), h.strategy); outcome != strategy.Pending {
		h.settleWith(outcome)
	}
}

func (h *Handler) onTimeout() {
	if h.settle(Timeout, status.New(status.ClientStatus, status.Timeout.ToInt32(), "Event strategy not satisfied within the timeout period", []interface{}{string(h.txID)})) {
		logger.Debugf("Timed out waiting for transaction [%s]", h.txID)
	}
}

func (h *Handler) listeningGroup() *strategy.EventSourceGroup {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.state != Listening {
		return nil
	}
	return h.group
}

func (h *Handler) settleWith(outcome strategy.Outcome) {
	if outcome == strategy.Passed {
		h.settle(Passed, nil)
		return
	}
	h.settle(Failed, status.New(status.ClientStatus, status.StrategyUnsatisfiable.ToInt32(),
		"not possible to satisfy the event strategy due to loss of event hub comms", []interface{}{h.strategy.Name()}))
}

// settle produces the outcome and tears down the registrations. Only the first call has
// an effect.
func (h *Handler) settle(outcome Outcome, err error) bool {
	h.mutex.Lock()
	if h.state == Settled {
		h.mutex.Unlock()
		return false
	}
	h.state = Settled
	h.outcome = outcome
	h.err = err
	if h.timer != nil {
		h.timer.Stop()
	}
	registrations := h.registrations
	h.mutex.Unlock()

	logger.Debugf("Transaction [%s] settled: %s", h.txID, outcome)

	for _, reg := range registrations {
		reg.unregister()
	}
	close(h.done)

	return true
}

// registration is the subscription of a handler on one event source. Event hubs must
// not invoke the callbacks from within RegisterTxEvent.
type registration struct {
	handler    *Handler
	source     *eventsource.EventSource
	mutex      sync.Mutex
	registered bool
	closed     bool
}

func (r *registration) register() {
	h := r.handler

	r.mutex.Lock()
	if r.closed {
		r.mutex.Unlock()
		return
	}
	err := r.source.Register(h.txID, r.onEvent, r.onError)
	if err != nil {
		r.closed = true
	} else {
		r.registered = true
	}
	r.mutex.Unlock()

	if err != nil {
		h.onError(r, err)
	}
}

// unregister removes the subscription at most once
func (r *registration) unregister() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return
	}
	r.closed = true

	if !r.registered {
		return
	}
	if err := r.source.Unregister(r.handler.txID); err != nil {
		logger.Debugf("Error unregistering transaction [%s]: %s", r.handler.txID, err)
	}
}

func (r *registration) onEvent(event *fab.TxStatusEvent) {
	r.unregister()
	r.handler.onEvent(r, event)
}

func (r *registration) onError(err error) {
	r.unregister()
	r.handler.onError(r, err)
}
