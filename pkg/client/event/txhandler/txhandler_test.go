/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txhandler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hyperledger/fabric-network-go/pkg/client/event/strategy"
	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	"github.com/hyperledger/fabric-network-go/pkg/fab/eventsource"
	"github.com/hyperledger/fabric-network-go/pkg/fab/mocks"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	txID    fab.TransactionID = "txid1"
	org1                      = "Org1MSP"
	org2                      = "Org2MSP"
	timeout                   = 5 * time.Second
)

type mockProvider struct {
	sources     []*eventsource.EventSource
	reconnects  int32
	onReconnect func()
}

func (p *mockProvider) EventSources() []*eventsource.EventSource {
	return p.sources
}

func (p *mockProvider) Reconnect(ctx context.Context) {
	atomic.AddInt32(&p.reconnects, 1)
	if p.onReconnect != nil {
		p.onReconnect()
	}
}

func (p *mockProvider) add(url, mspID string, connected bool) *mocks.MockEventHub {
	hub := mocks.NewMockEventHub(url, connected)
	p.sources = append(p.sources, eventsource.New(mocks.NewMockPeer(url, mspID), hub))
	return hub
}

func newHandler(t *testing.T, p *mockProvider, strategyName string) *Handler {
	s, err := strategy.FromName(strategyName)
	require.NoError(t, err)
	return New(txID, p, s, WithReconnectWait(100*time.Millisecond))
}

func waitForEvents(t *testing.T, h *Handler) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return h.WaitForEvents(ctx)
}

func assertTornDown(t *testing.T, hubs ...*mocks.MockEventHub) {
	for _, hub := range hubs {
		assert.Equal(t, 0, hub.Registrations(), "registration left on %s", hub.PeerAddr())
		assert.Equal(t, 1, hub.UnregisterCount(txID), "unexpected number of unregistrations on %s", hub.PeerAddr())
	}
}

func TestAllValidEvents(t *testing.T) {
	p := &mockProvider{}
	hub1 := p.add("peer0.org1", org1, true)
	hub2 := p.add("peer1.org1", org1, true)

	h := newHandler(t, p, strategy.MSPIDScopeAllForTx)
	require.NoError(t, h.StartListening(context.Background(), timeout))
	assert.Equal(t, Listening, h.State())
	assert.True(t, hub1.IsRegistered(txID))
	assert.True(t, hub2.IsRegistered(txID))

	require.True(t, hub1.SendTxEvent(txID, pb.TxValidationCode_VALID))
	assert.Equal(t, Listening, h.State(), "one pending source left")

	require.True(t, hub2.SendTxEvent(txID, pb.TxValidationCode_VALID))
	require.NoError(t, waitForEvents(t, h))
	assert.Equal(t, Passed, h.Outcome())
	assert.Equal(t, Settled, h.State())
	assertTornDown(t, hub1, hub2)
}

func TestErrorAfterValidEvent(t *testing.T) {
	p := &mockProvider{}
	hub1 := p.add("peer0.org1", org1, true)
	hub2 := p.add("peer1.org1", org1, true)

	h := newHandler(t, p, strategy.MSPIDScopeAllForTx)
	require.NoError(t, h.StartListening(context.Background(), timeout))

	require.True(t, hub1.SendTxEvent(txID, pb.TxValidationCode_VALID))
	require.True(t, hub2.SendError(txID, errors.New("connection lost")))

	require.NoError(t, waitForEvents(t, h))
	assert.Equal(t, Passed, h.Outcome())
	assertTornDown(t, hub1, hub2)
}

func TestAllSourcesFail(t *testing.T) {
	p := &mockProvider{}
	hub1 := p.add("peer0.org1", org1, true)
	hub2 := p.add("peer1.org1", org1, true)

	h := newHandler(t, p, strategy.MSPIDScopeAllForTx)
	require.NoError(t, h.StartListening(context.Background(), timeout))

	require.True(t, hub1.SendError(txID, errors.New("connection lost")))
	require.True(t, hub2.SendError(txID, errors.New("connection lost")))

	err := waitForEvents(t, h)
	require.Error(t, err)
	assert.True(t, status.IsClientCode(err, status.StrategyUnsatisfiable))
	assert.Contains(t, err.Error(), "not possible to satisfy the event strategy due to loss of event hub comms")
	assert.Equal(t, Failed, h.Outcome())
}

func TestChannelScopeOrgLost(t *testing.T) {
	p := &mockProvider{}
	hub1 := p.add("peer0.org1", org1, true)
	hub2 := p.add("peer0.org2", org2, true)

	h := newHandler(t, p, strategy.ChannelScopeAllForTx)
	require.NoError(t, h.StartListening(context.Background(), timeout))

	require.True(t, hub1.SendTxEvent(txID, pb.TxValidationCode_VALID))
	require.True(t, hub2.SendError(txID, errors.New("connection lost")))

	err := waitForEvents(t, h)
	assert.True(t, status.IsClientCode(err, status.StrategyUnsatisfiable))
	assertTornDown(t, hub1, hub2)
}

func TestPeerRejection(t *testing.T) {
	p := &mockProvider{}
	hub1 := p.add("peer0.org1", org1, true)
	hub2 := p.add("peer1.org1", org1, true)
	hub3 := p.add("peer2.org1", org1, true)

	h := newHandler(t, p, strategy.MSPIDScopeAnyForTx)
	require.NoError(t, h.StartListening(context.Background(), timeout))

	require.True(t, hub2.SendTxEvent(txID, pb.TxValidationCode_MVCC_READ_CONFLICT))

	err := waitForEvents(t, h)
	require.Error(t, err)
	s, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, status.EventServerStatus, s.Group)
	assert.Equal(t, int32(pb.TxValidationCode_MVCC_READ_CONFLICT), s.Code)
	assert.Equal(t, "Peer peer1.org1 has rejected transaction 'txid1' with code MVCC_READ_CONFLICT", s.Message)
	assert.Equal(t, []interface{}{"peer1.org1"}, s.Details)
	assert.Equal(t, Failed, h.Outcome())

	// Remaining sources are torn down and late events are discarded
	assertTornDown(t, hub1, hub2, hub3)
	assert.False(t, hub1.SendTxEvent(txID, pb.TxValidationCode_VALID))
}

func TestTimeout(t *testing.T) {
	p := &mockProvider{}
	hub1 := p.add("peer0.org1", org1, true)
	hub2 := p.add("peer1.org1", org1, true)

	h := newHandler(t, p, strategy.MSPIDScopeAllForTx)
	require.NoError(t, h.StartListening(context.Background(), 20*time.Millisecond))

	err := waitForEvents(t, h)
	require.Error(t, err)
	assert.True(t, status.IsClientCode(err, status.Timeout))
	assert.Contains(t, err.Error(), "Event strategy not satisfied within the timeout period")
	assert.Equal(t, Timeout, h.Outcome())

	h.CancelListening()
	assert.Equal(t, Timeout, h.Outcome())
	assertTornDown(t, hub1, hub2)
}

func TestNoEventSources(t *testing.T) {
	p := &mockProvider{}
	hub := p.add("peer0.org1", org1, false)
	hub.ConnectErr = errors.New("connection refused")

	h := newHandler(t, p, strategy.MSPIDScopeAllForTx)
	err := h.StartListening(context.Background(), timeout)
	require.Error(t, err)
	assert.True(t, status.IsClientCode(err, status.NoEventSources))
	assert.Equal(t, int32(1), atomic.LoadInt32(&p.reconnects))
	assert.Equal(t, Failed, h.Outcome())
	assert.Equal(t, 0, hub.Registrations())

	// The error is also returned to waiters
	assert.Equal(t, err, waitForEvents(t, h))
}

func TestChannelScopeUnreachableOrg(t *testing.T) {
	p := &mockProvider{}
	hub1 := p.add("peer0.org1", org1, true)
	hub2 := p.add("peer0.org2", org2, false)
	hub2.ConnectErr = errors.New("connection refused")

	h := newHandler(t, p, strategy.ChannelScopeAllForTx)
	require.NoError(t, h.StartListening(context.Background(), timeout))
	assert.Equal(t, int32(0), atomic.LoadInt32(&p.reconnects))
	assert.False(t, hub2.IsRegistered(txID))

	require.True(t, hub1.SendTxEvent(txID, pb.TxValidationCode_VALID))
	require.NoError(t, waitForEvents(t, h))
	assert.Equal(t, Passed, h.Outcome())
	assertTornDown(t, hub1)
}

func TestReconnectSatisfiesStrategy(t *testing.T) {
	p := &mockProvider{}
	hub := p.add("peer0.org1", org1, false)
	p.onReconnect = func() {
		// The snapshot has already started a reconnect
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		assert.True(t, p.sources[0].AwaitConnect(ctx))
	}

	h := newHandler(t, p, strategy.MSPIDScopeAllForTx)
	require.NoError(t, h.StartListening(context.Background(), timeout))
	assert.Equal(t, int32(1), atomic.LoadInt32(&p.reconnects))
	assert.True(t, hub.IsRegistered(txID))

	require.True(t, hub.SendTxEvent(txID, pb.TxValidationCode_VALID))
	require.NoError(t, waitForEvents(t, h))
}

func TestCancelListening(t *testing.T) {
	p := &mockProvider{}
	hub := p.add("peer0.org1", org1, true)

	h := newHandler(t, p, strategy.MSPIDScopeAllForTx)
	require.NoError(t, h.StartListening(context.Background(), timeout))

	h.CancelListening()
	h.CancelListening()
	assert.Equal(t, Cancelled, h.Outcome())
	assertTornDown(t, hub)

	err := waitForEvents(t, h)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
}

func TestCancelBeforeStart(t *testing.T) {
	p := &mockProvider{}
	hub := p.add("peer0.org1", org1, true)

	h := newHandler(t, p, strategy.MSPIDScopeAllForTx)
	h.CancelListening()
	assert.Error(t, h.StartListening(context.Background(), timeout))
	assert.Equal(t, 0, hub.Registrations())
}

func TestLifecycleErrors(t *testing.T) {
	p := &mockProvider{}
	p.add("peer0.org1", org1, true)

	h := newHandler(t, p, strategy.MSPIDScopeAllForTx)
	assert.Error(t, h.WaitForEvents(context.Background()), "wait before start")

	require.NoError(t, h.StartListening(context.Background(), timeout))
	assert.Error(t, h.StartListening(context.Background(), timeout), "start twice")
	h.CancelListening()
}

func TestWaitContextDone(t *testing.T) {
	p := &mockProvider{}
	hub := p.add("peer0.org1", org1, true)

	h := newHandler(t, p, strategy.MSPIDScopeAllForTx)
	require.NoError(t, h.StartListening(context.Background(), timeout))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, h.WaitForEvents(ctx))
	assert.Equal(t, Cancelled, h.Outcome())
	assertTornDown(t, hub)
}

func TestRegisterError(t *testing.T) {
	p := &mockProvider{}
	hub1 := p.add("peer0.org1", org1, true)
	hub2 := p.add("peer1.org1", org1, true)
	hub1.RegisterErr = errors.New("stream closed")

	h := newHandler(t, p, strategy.MSPIDScopeAllForTx)
	require.NoError(t, h.StartListening(context.Background(), timeout))

	require.True(t, hub2.SendTxEvent(txID, pb.TxValidationCode_VALID))
	require.NoError(t, waitForEvents(t, h))
	assert.Equal(t, 0, hub1.UnregisterCount(txID), "failed registrations are not unregistered")
}

func TestDisconnectedSourcesAreReconnected(t *testing.T) {
	p := &mockProvider{}
	hub1 := p.add("peer0.org1", org1, true)
	hub2 := p.add("peer1.org1", org1, false)

	h := newHandler(t, p, strategy.MSPIDScopeAllForTx)
	require.NoError(t, h.StartListening(context.Background(), timeout))
	assert.Equal(t, int32(0), atomic.LoadInt32(&p.reconnects))
	assert.False(t, hub2.IsRegistered(txID))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	assert.True(t, p.sources[1].AwaitConnect(ctx))

	require.True(t, hub1.SendTxEvent(txID, pb.TxValidationCode_VALID))
	require.NoError(t, waitForEvents(t, h))
}

func TestConcurrentEvents(t *testing.T) {
	const sources = 20

	p := &mockProvider{}
	var hubs []*mocks.MockEventHub
	for i := 0; i < sources; i++ {
		hubs = append(hubs, p.add("peer"+string(rune('a'+i)), org1, true))
	}

	h := newHandler(t, p, strategy.MSPIDScopeAllForTx)
	require.NoError(t, h.StartListening(context.Background(), timeout))

	var wg sync.WaitGroup
	for i, hub := range hubs {
		wg.Add(1)
		go func(i int, hub *mocks.MockEventHub) {
			defer wg.Done()
			if i%2 == 0 {
				hub.SendTxEvent(txID, pb.TxValidationCode_VALID)
			} else {
				hub.SendError(txID, errors.New("connection lost"))
			}
		}(i, hub)
	}
	wg.Wait()

	require.NoError(t, waitForEvents(t, h))
	assertTornDown(t, hubs...)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "CREATED", Created.String())
	assert.Equal(t, "LISTENING", Listening.String())
	assert.Equal(t, "SETTLED", Settled.String())
	assert.Equal(t, "UNSETTLED", Unsettled.String())
	assert.Equal(t, "TIMEOUT", Timeout.String())
	assert.Equal(t, "CANCELLED", Cancelled.String())
}
