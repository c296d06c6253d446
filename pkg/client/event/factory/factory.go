/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package factory owns the event sources of a channel and creates transaction event
// handlers bound to them.
package factory

import (
	"context"
	"sync"

	"github.com/hyperledger/fabric-network-go/pkg/client/event/strategy"
	"github.com/hyperledger/fabric-network-go/pkg/client/event/txhandler"
	"github.com/hyperledger/fabric-network-go/pkg/common/errors/multi"
	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	"github.com/hyperledger/fabric-network-go/pkg/common/logging"
	"github.com/hyperledger/fabric-network-go/pkg/common/options"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	"github.com/hyperledger/fabric-network-go/pkg/fab/eventsource"
	"github.com/hyperledger/fabric-network-go/pkg/fab/peermap"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var logger = logging.NewLogger("fabnet/client")

// Factory manages the event sources of one channel. The options are passed to the
// event sources (see package eventsource) and to the handlers (see package txhandler).
type Factory struct {
	channel  fab.Channel
	mspID    string
	peers    *peermap.PeerOrgMap
	strategy strategy.Strategy
	opts     []options.Opt

	initMutex   sync.Mutex
	established map[strategy.Scope]bool

	mutex   sync.RWMutex
	sources []*eventsource.EventSource
}

// New returns a factory for the given channel. The strategy determines the scope of the
// event sources that are connected by Initialize and is the default strategy of the
// handlers.
func New(channel fab.Channel, mspID string, peers *peermap.PeerOrgMap, s strategy.Strategy, opts ...options.Opt) (*Factory, error) {
	if channel == nil {
		return nil, errors.New("channel is required")
	}
	if peers == nil {
		return nil, errors.New("peer map is required")
	}
	if s == nil {
		s = strategy.Default()
	}

	return &Factory{
		channel:     channel,
		mspID:       mspID,
		peers:       peers,
		strategy:    s,
		opts:        opts,
		established: make(map[strategy.Scope]bool),
	}, nil
}

// Strategy returns the default strategy
func (f *Factory) Strategy() strategy.Strategy {
	return f.strategy
}

// Initialize establishes the event sources required by the default strategy. It returns
// once every connection attempt has either succeeded or failed.
func (f *Factory) Initialize(ctx context.Context) error {
	return f.establish(ctx, f.strategy.Scope())
}

// EventSources returns all event sources, connected or not
func (f *Factory) EventSources() []*eventsource.EventSource {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	sources := make([]*eventsource.EventSource, len(f.sources))
	copy(sources, f.sources)
	return sources
}

// ConnectedSources returns the event sources that are currently connected
func (f *Factory) ConnectedSources() []*eventsource.EventSource {
	return connected(f.EventSources())
}

// CheckEventHubs starts a reconnect of every disconnected event source without waiting
// for the result
func (f *Factory) CheckEventHubs() {
	checkConnections(f.EventSources())
}

// Reconnect starts a reconnect of every disconnected event source and waits until the
// attempts complete or ctx is done
func (f *Factory) Reconnect(ctx context.Context) {
	reconnect(ctx, f.EventSources())
}

// CreateTxEventHandler returns a handler for txID using the default strategy
func (f *Factory) CreateTxEventHandler(txID fab.TransactionID) *txhandler.Handler {
	return txhandler.New(txID, f.view(f.strategy.Scope()), f.strategy, f.opts...)
}

// CreateTxEventHandlerWithStrategy returns a handler for txID using the given strategy.
// Event sources required by the strategy that have not been established yet are
// connected first.
func (f *Factory) CreateTxEventHandlerWithStrategy(ctx context.Context, txID fab.TransactionID, s strategy.Strategy) (*txhandler.Handler, error) {
	if s == nil {
		return f.CreateTxEventHandler(txID), nil
	}
	if err := f.establish(ctx, s.Scope()); err != nil {
		return nil, err
	}
	return txhandler.New(txID, f.view(s.Scope()), s, f.opts...), nil
}

// DisconnectEventHubs disconnects all event sources. Individual failures do not stop
// the remaining sources from being disconnected.
func (f *Factory) DisconnectEventHubs() error {
	var errs multi.Errors
	for _, es := range f.EventSources() {
		if err := es.Disconnect(); err != nil {
			logger.Warnf("Error disconnecting event source [%s]: %s", es, err)
			errs = append(errs, err)
		}
	}
	return errs.ToError()
}

// Cleanup disconnects and discards all event sources. The factory may be initialized again.
func (f *Factory) Cleanup() {
	f.initMutex.Lock()
	defer f.initMutex.Unlock()

	if err := f.DisconnectEventHubs(); err != nil {
		logger.Debugf("Errors during cleanup of channel [%s]: %s", f.channel.Name(), err)
	}

	f.mutex.Lock()
	f.sources = nil
	f.mutex.Unlock()

	f.established = make(map[strategy.Scope]bool)
}

// HealthCheck fails if none of the event sources is connected
func (f *Factory) HealthCheck(ctx context.Context) error {
	sources := f.EventSources()
	if len(connected(sources)) == 0 {
		return errors.Errorf("none of the %d event source(s) of channel [%s] is connected", len(sources), f.channel.Name())
	}
	return nil
}

// establish connects the event sources for the given scope. Organizations whose sources
// are already part of the pool are skipped.
func (f *Factory) establish(ctx context.Context, scope strategy.Scope) error {
	f.initMutex.Lock()
	defer f.initMutex.Unlock()

	if f.established[scope] || (scope == strategy.OrgScope && f.established[strategy.ChannelScope]) {
		return nil
	}

	existing := f.EventSources()
	known := make(map[string]bool)
	for _, es := range existing {
		known[es.MSPID()] = true
	}

	var added []*eventsource.EventSource
	for _, org := range f.orgs(scope) {
		if known[org] {
			continue
		}
		for _, peer := range eventPeers(f.peers, org) {
			hub, err := f.channel.NewEventHub(peer)
			if err != nil {
				logger.Warnf("Unable to create event hub for peer [%s]: %s", peer.URL(), err)
				continue
			}
			added = append(added, eventsource.New(peer, hub, f.opts...))
		}
	}

	connectAll(ctx, added)

	sources := append(existing, added...)
	if len(inScope(sources, scope, f.mspID)) == 0 {
		return status.New(status.ClientStatus, status.NoEventSources.ToInt32(), "No available event hubs found for strategy", []interface{}{scope.String()})
	}

	f.mutex.Lock()
	f.sources = sources
	f.mutex.Unlock()

	f.established[scope] = true

	logger.Debugf("Established %d event source(s) for %s scope of channel [%s]", len(added), scope, f.channel.Name())
	return nil
}

func (f *Factory) orgs(scope strategy.Scope) []string {
	if scope == strategy.ChannelScope {
		return f.peers.Orgs()
	}
	if f.peers.Contains(f.mspID) {
		return []string{f.mspID}
	}
	return nil
}

func (f *Factory) view(scope strategy.Scope) txhandler.EventSourceProvider {
	return &scopedView{factory: f, scope: scope}
}

// scopedView restricts the event sources of a factory to a scope
type scopedView struct {
	factory *Factory
	scope   strategy.Scope
}

func (v *scopedView) EventSources() []*eventsource.EventSource {
	return inScope(v.factory.EventSources(), v.scope, v.factory.mspID)
}

func (v *scopedView) Reconnect(ctx context.Context) {
	reconnect(ctx, v.EventSources())
}

// eventPeers returns the peers of the organization in the event source role, or all of
// its peers if none declares the role
func eventPeers(peers *peermap.PeerOrgMap, mspID string) []fab.Peer {
	if eventPeers := peers.PeersInRole(mspID, fab.EventSourceRole); len(eventPeers) > 0 {
		return eventPeers
	}
	return peers.Peers(mspID)
}

func inScope(sources []*eventsource.EventSource, scope strategy.Scope, mspID string) []*eventsource.EventSource {
	if scope == strategy.ChannelScope {
		return sources
	}
	var filtered []*eventsource.EventSource
	for _, es := range sources {
		if es.MSPID() == mspID {
			filtered = append(filtered, es)
		}
	}
	return filtered
}

func connected(sources []*eventsource.EventSource) []*eventsource.EventSource {
	var filtered []*eventsource.EventSource
	for _, es := range sources {
		if es.IsConnected() {
			filtered = append(filtered, es)
		}
	}
	return filtered
}

func checkConnections(sources []*eventsource.EventSource) {
	for _, es := range sources {
		es.CheckConnection()
	}
}

// connectAll waits for every connection attempt to complete. Each attempt is bounded by
// the connect timeout of the event source.
func connectAll(ctx context.Context, sources []*eventsource.EventSource) {
	var g errgroup.Group
	for _, es := range sources {
		es := es
		g.Go(func() error {
			if err := es.Connect(ctx); err != nil {
				logger.Warnf("Event source [%s] failed to connect: %s", es, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Errorf("Unexpected error connecting event sources: %s", err)
	}
}

func reconnect(ctx context.Context, sources []*eventsource.EventSource) {
	checkConnections(sources)

	var g errgroup.Group
	for _, es := range sources {
		es := es
		g.Go(func() error {
			if !es.AwaitConnect(ctx) {
				return errors.Errorf("event source [%s] not connected", es)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Debugf("Reconnect incomplete: %s", err)
	}
}
