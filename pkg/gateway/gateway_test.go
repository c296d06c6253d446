/*
Copyright 2020 IBM All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/hyperledger/fabric-lib-go/healthz"
	"github.com/hyperledger/fabric-network-go/pkg/client/event/strategy"
	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/test/mockfab"
	"github.com/hyperledger/fabric-network-go/pkg/core/config"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configFile = "../core/config/testdata/config_test.yaml"

func TestConnectRequiresClientAndIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)

	_, err := Connect(nil, env.identity)
	require.Error(t, err)

	_, err = Connect(env.client, nil)
	require.Error(t, err)
}

func TestConnectDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw := newTestEnv(t, ctrl).connect(t)

	cfg := gw.Config()
	assert.Equal(t, config.DefaultCommitTimeout, cfg.CommitTimeout)
	assert.Equal(t, config.DefaultConnectTimeout, cfg.ConnectTimeout)
	assert.True(t, cfg.CheckEventHubs)
	assert.False(t, cfg.DiscoveryEnabled)
	assert.Equal(t, strategy.MSPIDScopeAllForTx, gw.Strategy().Name())
}

func TestConnectInvalidOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)

	_, err := Connect(env.client, env.identity, WithCommitTimeout(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit timeout must be positive")

	_, err = Connect(env.client, env.identity, WithConnectTimeout(-time.Second))
	require.Error(t, err)

	_, err = Connect(env.client, env.identity, WithEventStrategy("NO_SUCH_STRATEGY"))
	require.Error(t, err)
	assert.True(t, status.IsClientCode(err, status.UnknownStrategy))

	_, err = Connect(env.client, env.identity, WithConfig(config.FromFile("missing.yaml")))
	require.Error(t, err)
}

func TestConnectWithConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)

	gw := env.connect(t, WithConfig(config.FromFile(configFile)))
	cfg := gw.Config()
	assert.Equal(t, 30*time.Second, cfg.CommitTimeout)
	assert.Equal(t, 2*time.Second, cfg.ConnectTimeout)
	assert.True(t, cfg.DiscoveryEnabled)
	assert.True(t, cfg.AsLocalhost)
	assert.False(t, cfg.CheckEventHubs)
	assert.Equal(t, strategy.ChannelScopeAnyForTx, gw.Strategy().Name())

	// Explicit options win over the config regardless of their position
	gw = env.connect(t, WithCommitTimeout(5*time.Second), WithConfig(config.FromFile(configFile)), WithDiscovery(false))
	cfg = gw.Config()
	assert.Equal(t, 5*time.Second, cfg.CommitTimeout)
	assert.False(t, cfg.DiscoveryEnabled)
}

func TestConnectWithCustomStrategy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)

	gw := env.connect(t, WithConfig(config.FromFile(configFile)), WithEventStrategy("MAJORITY"))
	assert.Equal(t, "MAJORITY", gw.Strategy().Name())
	assert.Equal(t, strategy.ChannelScope, gw.Strategy().Scope())

	gw = env.connect(t, WithConfig(config.FromFile(configFile)), WithEventStrategy("ORG1"))
	assert.Equal(t, strategy.OrgScope, gw.Strategy().Scope())

	s, err := strategy.FromName(strategy.MSPIDScopeAnyForTx)
	require.NoError(t, err)
	gw = env.connect(t, WithConfig(config.FromFile(configFile)), WithStrategy(s))
	assert.Equal(t, s, gw.Strategy())
}

func TestGetNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)
	gw, network := env.network(t, WithDiscovery(true), WithAsLocalhost(true))

	assert.Equal(t, channelID, network.Name())
	assert.Equal(t, []string{org1, org2}, network.PeerMap().Orgs())

	inits := env.initRequests()
	require.Len(t, inits, 1)
	assert.Equal(t, peer1URL, inits[0].Target.URL())
	assert.True(t, inits[0].Discover)
	assert.True(t, inits[0].AsLocalhost)

	// The default strategy is org scoped, so only the client's organization is connected
	var urls []string
	for _, es := range network.EventSources() {
		urls = append(urls, es.PeerAddr())
	}
	assert.ElementsMatch(t, []string{peer1URL, peer2URL}, urls)

	again, err := gw.GetNetwork(channelID)
	require.NoError(t, err)
	assert.True(t, network == again, "network is memoized")
	assert.Len(t, env.initRequests(), 1)

	assert.True(t, network.GetContract("fabcar") == network.GetContract("fabcar"), "contract is memoized")
	assert.Equal(t, "fabcar", network.GetContract("fabcar").Name())
}

func TestGetNetworkChannelError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)
	env.client.EXPECT().Channel("other").Return(nil, errors.New(mockfab.ErrorMessage))

	gw := env.connect(t)
	_, err := gw.GetNetwork("other")
	require.Error(t, err)
	assert.Contains(t, err.Error(), mockfab.ErrorMessage)
}

func TestGetNetworkInitializeFailover(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)
	env.failInit(peer1URL, errors.New("peer1 unreachable"))

	_, network := env.network(t)
	require.NotNil(t, network)

	inits := env.initRequests()
	require.Len(t, inits, 2)
	assert.Equal(t, peer1URL, inits[0].Target.URL())
	assert.Equal(t, peer2URL, inits[1].Target.URL())
}

func TestGetNetworkInitializeFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)
	env.failInit(peer1URL, errors.New("peer1 unreachable"))
	env.failInit(peer2URL, errors.New("peer2 unreachable"))
	env.failInit(peer3URL, errors.New("peer3 unreachable"))

	gw := env.connect(t)
	_, err := gw.GetNetwork(channelID)
	require.Error(t, err)
	assert.True(t, status.IsClientCode(err, status.ChannelInitFailed))
	assert.Contains(t, err.Error(), "Unable to initialize channel. Attempted to contact 3 Peers. Last error was peer3 unreachable")

	// A failed network is not cached
	env.failInit(peer3URL, nil)
	network, err := gw.GetNetwork(channelID)
	require.NoError(t, err)
	assert.NotNil(t, network)
}

func TestGetNetworkNoLedgerPeers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)
	env.setPeers(
		mockfab.NewPeer(ctrl, peer1URL, org1, fab.EndorsingPeerRole, fab.EventSourceRole),
		mockfab.NewPeer(ctrl, peer2URL, org1, fab.ChaincodeQueryRole),
	)

	gw := env.connect(t)
	_, err := gw.GetNetwork(channelID)
	require.Error(t, err)
	assert.True(t, status.IsClientCode(err, status.NoSuitablePeers))
	assert.Empty(t, env.initRequests())
}

func TestGetNetworkNoEventSources(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)
	env.setPeers(mockfab.NewPeer(ctrl, peer3URL, org2))

	gw := env.connect(t)
	_, err := gw.GetNetwork(channelID)
	require.Error(t, err)
	assert.True(t, status.IsClientCode(err, status.NoEventSources))
}

func TestHealthHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)
	handler := healthz.NewHealthHandler()
	env.network(t, WithHealthHandler(handler))

	check := func() int {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, check())

	env.hub(peer1URL).SetConnected(false)
	env.hub(peer2URL).SetConnected(false)
	assert.Equal(t, http.StatusServiceUnavailable, check())
}

func TestClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)
	gw, _ := env.network(t)

	gw.Close()
	assert.Equal(t, 1, env.hub(peer1URL).DisconnectCount())
	assert.Equal(t, 1, env.hub(peer2URL).DisconnectCount())
	assert.Equal(t, 0, env.hub(peer3URL).DisconnectCount())

	_, err := gw.GetNetwork(channelID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway is closed")
}
