/*
Copyright 2020 IBM All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package gateway

import (
	"context"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/hyperledger/fabric-network-go/pkg/common/metrics/prometheus"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/test/mockfab"
	"github.com/hyperledger/fabric-network-go/pkg/fab/mocks"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	channelID = "mychannel"
	org1      = "Org1MSP"
	org2      = "Org2MSP"
	peer1URL  = "peer0.org1.example.com"
	peer2URL  = "peer1.org1.example.com"
	peer3URL  = "peer0.org2.example.com"
	txnID     = fab.TransactionID("txid1")
)

// testEnv is a channel of three peers, two in Org1MSP and one in Org2MSP, each with an
// event hub
type testEnv struct {
	ctrl     *gomock.Controller
	client   *mockfab.MockClient
	identity *mockfab.MockIdentityContext
	channel  *mockfab.MockChannel
	registry *prom.Registry

	mutex     sync.Mutex
	peers     []fab.Peer
	hubs      map[string]*mocks.MockEventHub
	initFails map[string]error
	inits     []fab.InitializeRequest
}

func newTestEnv(t *testing.T, ctrl *gomock.Controller) *testEnv {
	env := &testEnv{
		ctrl:      ctrl,
		client:    mockfab.NewMockClient(ctrl),
		identity:  mockfab.NewIdentity(ctrl, org1, "user1"),
		channel:   mockfab.NewMockChannel(ctrl),
		registry:  prom.NewRegistry(),
		hubs:      make(map[string]*mocks.MockEventHub),
		initFails: make(map[string]error),
	}

	env.setPeers(
		mockfab.NewPeer(ctrl, peer1URL, org1),
		mockfab.NewPeer(ctrl, peer2URL, org1),
		mockfab.NewPeer(ctrl, peer3URL, org2),
	)

	env.client.EXPECT().Channel(channelID).Return(env.channel, nil).AnyTimes()

	env.channel.EXPECT().Name().Return(channelID).AnyTimes()
	env.channel.EXPECT().Peers().DoAndReturn(func() []fab.Peer {
		env.mutex.Lock()
		defer env.mutex.Unlock()
		return env.peers
	}).AnyTimes()
	env.channel.EXPECT().Initialize(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, request fab.InitializeRequest) error {
			env.mutex.Lock()
			defer env.mutex.Unlock()
			env.inits = append(env.inits, request)
			return env.initFails[request.Target.URL()]
		}).AnyTimes()
	env.channel.EXPECT().NewEventHub(gomock.Any()).DoAndReturn(func(peer fab.Peer) (fab.EventHub, error) {
		env.mutex.Lock()
		defer env.mutex.Unlock()
		return env.hubs[peer.URL()], nil
	}).AnyTimes()
	env.channel.EXPECT().VerifyProposalResponse(gomock.Any()).Return(true).AnyTimes()

	return env
}

// setPeers replaces the peers of the channel and creates a connected event hub for each
// new peer
func (env *testEnv) setPeers(peers ...fab.Peer) {
	env.mutex.Lock()
	defer env.mutex.Unlock()

	env.peers = peers
	for _, p := range peers {
		if _, ok := env.hubs[p.URL()]; !ok {
			env.hubs[p.URL()] = mocks.NewMockEventHub(p.URL(), true)
		}
	}
}

func (env *testEnv) hub(url string) *mocks.MockEventHub {
	env.mutex.Lock()
	defer env.mutex.Unlock()
	return env.hubs[url]
}

func (env *testEnv) failInit(url string, err error) {
	env.mutex.Lock()
	defer env.mutex.Unlock()
	env.initFails[url] = err
}

func (env *testEnv) initRequests() []fab.InitializeRequest {
	env.mutex.Lock()
	defer env.mutex.Unlock()
	return append([]fab.InitializeRequest(nil), env.inits...)
}

// commitOn delivers the given validation code as soon as a listener registers with the
// event hubs of the given peers
func (env *testEnv) commitOn(code pb.TxValidationCode, urls ...string) {
	for _, url := range urls {
		env.hub(url).OnRegister = func(hub *mocks.MockEventHub, txID fab.TransactionID) {
			hub.SendTxEvent(txID, code)
		}
	}
}

func (env *testEnv) connect(t *testing.T, opts ...Option) *Gateway {
	opts = append([]Option{WithMetricsProvider(&prometheus.Provider{Registerer: env.registry})}, opts...)
	gw, err := Connect(env.client, env.identity, opts...)
	require.NoError(t, err)
	return gw
}

func (env *testEnv) network(t *testing.T, opts ...Option) (*Gateway, *Network) {
	gw := env.connect(t, opts...)
	network, err := gw.GetNetwork(channelID)
	require.NoError(t, err)
	return gw, network
}

// metricValue sums the counter (or histogram sample count) values of the named metric
func (env *testEnv) metricValue(t *testing.T, name string, labels ...string) float64 {
	families, err := env.registry.Gather()
	require.NoError(t, err)

	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			values := make(map[string]string)
			for _, pair := range m.GetLabel() {
				values[pair.GetName()] = pair.GetValue()
			}
			if !hasLabels(values, labels) {
				continue
			}
			if m.GetCounter() != nil {
				total += m.GetCounter().GetValue()
			}
			if m.GetHistogram() != nil {
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return total
}

func hasLabels(values map[string]string, labels []string) bool {
	for i := 0; i+1 < len(labels); i += 2 {
		if values[labels[i]] != labels[i+1] {
			return false
		}
	}
	return true
}
