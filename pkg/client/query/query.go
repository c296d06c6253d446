/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package query evaluates chaincode functions on a single peer at a time. The peer
// that last served a query successfully is tried first; if it fails, the remaining
// peers are tried in order.
package query

import (
	"context"
	"fmt"
	"sync"

	"github.com/hyperledger/fabric-network-go/pkg/common/errors/multi"
	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	"github.com/hyperledger/fabric-network-go/pkg/common/logging"
	"github.com/hyperledger/fabric-network-go/pkg/common/options"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	"github.com/hyperledger/fabric-network-go/pkg/fab/peermap"
	"github.com/pkg/errors"
	grpcCodes "google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

var logger = logging.NewLogger("fabnet/client")

const noPeer = -1

// QueryHandler evaluates a chaincode query
type QueryHandler interface {
	// QueryChaincode returns the payload of the query. The handler chooses the targets.
	QueryChaincode(ctx context.Context, request fab.ChaincodeQueryRequest) ([]byte, error)
}

// PeersUpdater is implemented by query handlers that accept a refreshed peer set
type PeersUpdater interface {
	UpdatePeers(peers *peermap.PeerOrgMap)
}

// Factory creates the query handler of a channel
type Factory func(mspID string, peers *peermap.PeerOrgMap, channel fab.Channel) (QueryHandler, error)

// NewFactory returns a factory for handlers that query the peers of the client's
// organization
func NewFactory(opts ...options.Opt) Factory {
	return func(mspID string, peers *peermap.PeerOrgMap, channel fab.Channel) (QueryHandler, error) {
		return New(channel, mspID, peers, opts...)
	}
}

// NewChannelScopeFactory returns a factory for handlers that query the peers of every
// organization in the channel
func NewChannelScopeFactory(opts ...options.Opt) Factory {
	return func(mspID string, peers *peermap.PeerOrgMap, channel fab.Channel) (QueryHandler, error) {
		return NewChannelScopeHandler(channel, mspID, peers, opts...)
	}
}

type selector func(mspID string, peers *peermap.PeerOrgMap) []fab.Peer

// Handler is the default query handler
type Handler struct {
	params
	channel     fab.Channel
	mspID       string
	selectPeers selector

	mutex      sync.Mutex
	peers      []fab.Peer
	cursor     int
	generation uint64
}

// New returns a handler that queries the peers of the client's organization. Peers in
// the chaincode query role are preferred; if none declares the role, all peers of the
// organization are used.
func New(channel fab.Channel, mspID string, peers *peermap.PeerOrgMap, opts ...options.Opt) (*Handler, error) {
	return newHandler(channel, mspID, peers, orgPeers, opts...)
}

// NewChannelScopeHandler returns a handler that queries the peers of the client's
// organization first and then the peers of the other organizations in the channel
func NewChannelScopeHandler(channel fab.Channel, mspID string, peers *peermap.PeerOrgMap, opts ...options.Opt) (*Handler, error) {
	return newHandler(channel, mspID, peers, channelPeers, opts...)
}

func newHandler(channel fab.Channel, mspID string, peers *peermap.PeerOrgMap, sel selector, opts ...options.Opt) (*Handler, error) {
	if channel == nil {
		return nil, errors.New("channel is required")
	}
	if peers == nil {
		return nil, errors.New("peer map is required")
	}

	params := defaultParams()
	options.Apply(params, opts)

	return &Handler{
		params:      *params,
		channel:     channel,
		mspID:       mspID,
		selectPeers: sel,
		peers:       sel(mspID, peers),
		cursor:      noPeer,
	}, nil
}

// Peers returns the queryable peers in the order they are tried
func (h *Handler) Peers() []fab.Peer {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	peers := make([]fab.Peer, len(h.peers))
	copy(peers, h.peers)
	return peers
}

// Current returns the peer that served the last query successfully, or nil
func (h *Handler) Current() fab.Peer {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.cursor == noPeer {
		return nil
	}
	return h.peers[h.cursor]
}

// UpdatePeers replaces the queryable peers. The remembered peer is kept if it is still
// part of the new set.
func (h *Handler) UpdatePeers(peers *peermap.PeerOrgMap) {
	selected := h.selectPeers(h.mspID, peers)

	h.mutex.Lock()
	defer h.mutex.Unlock()

	cursor := noPeer
	if h.cursor != noPeer {
		current := h.peers[h.cursor].URL()
		for i, p := range selected {
			if p.URL() == current {
				cursor = i
				break
			}
		}
	}

	h.peers = selected
	h.cursor = cursor
	h.generation++

	logger.Debugf("Query peers of channel [%s] updated: %d peer(s)", h.channel.Name(), len(selected))
}

// QueryChaincode sends the query to one peer at a time until a peer answers. Errors
// returned by the chaincode do not cause a failover.
func (h *Handler) QueryChaincode(ctx context.Context, request fab.ChaincodeQueryRequest) ([]byte, error) {
	peers, cursor, generation := h.snapshot()
	if len(peers) == 0 {
		return nil, status.New(status.ClientStatus, status.NoQueryablePeers.ToInt32(), "No peers have been provided that can be queried", nil)
	}

	var errs multi.Errors

	if cursor != noPeer {
		payload, err := h.querySinglePeer(ctx, peers[cursor], request)
		if err == nil {
			return payload.value()
		}
		errs = append(errs, err)
		h.failover(generation, cursor, peers[cursor], err)
	}

	for i, peer := range peers {
		if i == cursor {
			continue
		}
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		payload, err := h.querySinglePeer(ctx, peer, request)
		if err != nil {
			errs = append(errs, err)
			h.onFailover(peer.URL(), err)
			continue
		}

		h.setCursor(generation, i)
		return payload.value()
	}

	lastErr := errs.Last()
	return nil, status.New(status.ClientStatus, status.AllPeersUnavailable.ToInt32(),
		fmt.Sprintf("No peers available to query. last error was %s", lastErr), []interface{}{lastErr, errs})
}

// result is the answer of a peer. err is an error returned by the chaincode.
type result struct {
	payload []byte
	err     error
}

func (r *result) value() ([]byte, error) {
	return r.payload, r.err
}

// querySinglePeer returns an error if the peer could not answer the query
func (h *Handler) querySinglePeer(ctx context.Context, peer fab.Peer, request fab.ChaincodeQueryRequest) (*result, error) {
	request.Targets = []fab.Peer{peer}

	responses, err := h.channel.QueryByChaincode(ctx, request)
	if err != nil {
		logger.Debugf("Query [%s] on peer [%s] failed: %s", request.Fcn, peer.URL(), err)
		return nil, errors.WithMessage(err, fmt.Sprintf("query on peer [%s] failed", peer.URL()))
	}
	if len(responses) == 0 {
		return nil, status.New(status.ClientStatus, status.EmptyQueryResponse.ToInt32(),
			"No payloads were returned from the query request:"+request.Fcn, []interface{}{peer.URL()})
	}

	response := responses[0]
	if response.Err == nil {
		return &result{payload: response.Payload}, nil
	}

	if isUnavailable(response.Err) {
		logger.Debugf("Peer [%s] is unavailable: %s", peer.URL(), response.Err)
		return nil, response.Err
	}

	logger.Debugf("Query [%s] on peer [%s] returned an error: %s", request.Fcn, peer.URL(), response.Err)
	return &result{err: chaincodeError(peer, response.Err)}, nil
}

func (h *Handler) snapshot() ([]fab.Peer, int, uint64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.peers, h.cursor, h.generation
}

// setCursor remembers the peer unless the peers were replaced in the meantime
func (h *Handler) setCursor(generation uint64, index int) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.generation != generation {
		return
	}
	h.cursor = index
}

// failover forgets the remembered peer unless another query has chosen a different peer
func (h *Handler) failover(generation uint64, index int, peer fab.Peer, err error) {
	logger.Debugf("Remembered peer [%s] failed: %s. Failing over...", peer.URL(), err)
	h.onFailover(peer.URL(), err)

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.generation == generation && h.cursor == index {
		h.cursor = noPeer
	}
}

func isUnavailable(err error) bool {
	cause := errors.Cause(err)
	if s, ok := status.FromError(cause); ok && s.Group == status.GRPCTransportStatus {
		return s.Code == int32(grpcCodes.Unavailable)
	}
	if s, ok := grpcstatus.FromError(cause); ok {
		return s.Code() == grpcCodes.Unavailable
	}
	return false
}

func chaincodeError(peer fab.Peer, err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.New(status.ChaincodeStatus, status.Unknown.ToInt32(), err.Error(), []interface{}{peer.URL()})
}

func orgPeers(mspID string, peers *peermap.PeerOrgMap) []fab.Peer {
	if queryPeers := peers.PeersInRole(mspID, fab.ChaincodeQueryRole); len(queryPeers) > 0 {
		return queryPeers
	}
	return peers.Peers(mspID)
}

func channelPeers(mspID string, peers *peermap.PeerOrgMap) []fab.Peer {
	selected := orgPeers(mspID, peers)
	for _, org := range peers.Orgs() {
		if org == mspID {
			continue
		}
		selected = append(selected, orgPeers(org, peers)...)
	}
	return selected
}
