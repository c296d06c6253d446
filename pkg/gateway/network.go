/*
Copyright 2020 IBM All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/hyperledger/fabric-network-go/pkg/client/event/factory"
	"github.com/hyperledger/fabric-network-go/pkg/client/invoke"
	"github.com/hyperledger/fabric-network-go/pkg/client/query"
	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	"github.com/hyperledger/fabric-network-go/pkg/common/options"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	"github.com/hyperledger/fabric-network-go/pkg/fab/endorsement"
	"github.com/hyperledger/fabric-network-go/pkg/fab/eventsource"
	"github.com/hyperledger/fabric-network-go/pkg/fab/peermap"
	"github.com/pkg/errors"
)

// A Network object represents the set of peers in a Fabric network (channel).
// Applications should get a Network instance from a Gateway using the GetNetwork method.
type Network struct {
	name          string
	gateway       *Gateway
	channel       fab.Channel
	factory       *factory.Factory
	queryHandler  query.QueryHandler
	clientContext *invoke.ClientContext

	mutex     sync.RWMutex
	peers     *peermap.PeerOrgMap
	contracts map[string]*Contract
}

func newNetwork(ctx context.Context, gw *Gateway, channel fab.Channel) (*Network, error) {
	n := &Network{
		name:      channel.Name(),
		gateway:   gw,
		channel:   channel,
		contracts: make(map[string]*Contract),
	}

	if err := n.initializeChannel(ctx, gw.cfg.DiscoveryEnabled); err != nil {
		return nil, err
	}

	peers, err := peermap.New(channel.Peers())
	if err != nil {
		return nil, errors.WithMessage(err, fmt.Sprintf("Failed to map the peers of channel [%s]", n.name))
	}
	n.peers = peers

	opts := []options.Opt{
		eventsource.WithConnectTimeout(gw.cfg.ConnectTimeout),
		eventsource.WithFullBlocks(gw.cfg.UseFullBlocks),
	}

	n.factory, err = factory.New(channel, gw.mspID(), peers, gw.strategy, opts...)
	if err != nil {
		return nil, errors.WithMessage(err, "Failed to create event handler factory")
	}
	if err := n.factory.Initialize(ctx); err != nil {
		n.factory.Cleanup()
		return nil, errors.WithMessage(err, fmt.Sprintf("Failed to connect event sources of channel [%s]", n.name))
	}

	queryHandlerFactory := gw.options.queryHandlerFactory
	if queryHandlerFactory == nil {
		queryHandlerFactory = query.NewFactory(query.WithFailoverHandler(n.onQueryFailover))
	}
	n.queryHandler, err = queryHandlerFactory(gw.mspID(), peers, channel)
	if err != nil {
		n.factory.Cleanup()
		return nil, errors.WithMessage(err, "Failed to create query handler")
	}

	n.clientContext = &invoke.ClientContext{
		Channel:             channel,
		EventHandlerFactory: n.factory,
	}
	if gw.options.compareLocally {
		n.clientContext.ResultsComparator = endorsement.CompareProposalResponseResults
	}

	logger.Debugf("Network [%s] initialized with %d organization(s)", n.name, len(peers.Orgs()))

	return n, nil
}

// initializeChannel tries the ledger query peers in turn until one of them initializes
// the channel
func (n *Network) initializeChannel(ctx context.Context, discover bool) error {
	ledgerPeers := peermap.FilterByRole(n.channel.Peers(), fab.LedgerQueryRole)
	if len(ledgerPeers) == 0 {
		return status.New(status.ClientStatus, status.NoSuitablePeers.ToInt32(),
			fmt.Sprintf("no suitable peers available to initialize channel [%s] from", n.name), nil)
	}

	var lastErr error
	for _, peer := range ledgerPeers {
		request := fab.InitializeRequest{
			Target:      peer,
			Discover:    discover,
			AsLocalhost: n.gateway.cfg.AsLocalhost,
		}
		err := n.channel.Initialize(ctx, request)
		if err == nil {
			return nil
		}
		logger.Warnf("Unable to initialize channel [%s] from peer [%s]: %s", n.name, peer.URL(), err)
		lastErr = err
	}

	return status.New(status.ClientStatus, status.ChannelInitFailed.ToInt32(),
		fmt.Sprintf("Unable to initialize channel. Attempted to contact %d Peers. Last error was %s", len(ledgerPeers), lastErr),
		[]interface{}{lastErr})
}

func (n *Network) onQueryFailover(peerURL string, err error) {
	n.gateway.metrics.QueryFailovers.With("channel", n.name, "peer", peerURL).Add(1)
}

// Name is the name of the network (also known as channel name)
func (n *Network) Name() string {
	return n.name
}

// GetContract returns instance of a smart contract on the current network.
//  Parameters:
//  chaincodeID is the name of the smart contract
//
//  Returns:
//  A Contract object representing the smart contract
func (n *Network) GetContract(chaincodeID string) *Contract {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	if contract, ok := n.contracts[chaincodeID]; ok {
		return contract
	}

	contract := newContract(n, chaincodeID)
	n.contracts[chaincodeID] = contract
	return contract
}

// PeerMap returns the peers of the channel grouped by organization
func (n *Network) PeerMap() *peermap.PeerOrgMap {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return n.peers
}

// EventSources returns the event sources created for the channel
func (n *Network) EventSources() []*eventsource.EventSource {
	return n.factory.EventSources()
}

// Rediscover initializes the channel again with service discovery enabled and hands the
// refreshed peers to the query handler. The query handler only keeps its current peer if
// that peer is still part of the channel.
func (n *Network) Rediscover(ctx context.Context) error {
	if err := n.initializeChannel(ctx, true); err != nil {
		return err
	}

	peers, err := peermap.New(n.channel.Peers())
	if err != nil {
		return errors.WithMessage(err, fmt.Sprintf("Failed to map the peers of channel [%s]", n.name))
	}

	n.mutex.Lock()
	n.peers = peers
	n.mutex.Unlock()

	if updater, ok := n.queryHandler.(query.PeersUpdater); ok {
		updater.UpdatePeers(peers)
	}
	return nil
}

func (n *Network) dispose() {
	n.factory.Cleanup()
	logger.Debugf("Network [%s] disposed", n.name)
}
