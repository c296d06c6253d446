/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package peermap

import (
	"testing"

	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	"github.com/hyperledger/fabric-network-go/pkg/fab/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p1 := mocks.NewMockPeer("peer0.org1:7051", "Org1MSP")
	p2 := mocks.NewMockPeer("peer0.org2:7051", "Org2MSP", fab.EndorsingPeerRole)
	p3 := mocks.NewMockPeer("peer1.org1:7051", "Org1MSP", fab.EventSourceRole)
	noMSP := mocks.NewMockPeer("discovered:7051", "")

	m, err := New([]fab.Peer{p1, noMSP, p2, p3})
	require.NoError(t, err)

	assert.Equal(t, []string{"Org1MSP", "Org2MSP"}, m.Orgs())
	assert.Equal(t, []fab.Peer{p1, p3}, m.Peers("Org1MSP"))
	assert.Equal(t, []fab.Peer{p2}, m.Peers("Org2MSP"))
	assert.Nil(t, m.Peers("Org3MSP"))
	assert.Equal(t, []fab.Peer{p1, p3, p2}, m.All())
	assert.True(t, m.Contains("Org2MSP"))
	assert.False(t, m.Contains("Org3MSP"))

	assert.Equal(t, []fab.Peer{p1, p3}, m.PeersInRole("Org1MSP", fab.EventSourceRole))
	assert.Empty(t, m.PeersInRole("Org2MSP", fab.ChaincodeQueryRole))
}

func TestNewEmpty(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	assert.True(t, status.IsClientCode(err, status.NoSuitablePeers))

	_, err = New([]fab.Peer{mocks.NewMockPeer("discovered:7051", "")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no suitable peers associated with mspIds were found")
}

func TestPeersAreCopies(t *testing.T) {
	p1 := mocks.NewMockPeer("peer0.org1:7051", "Org1MSP")
	m, err := New([]fab.Peer{p1})
	require.NoError(t, err)

	peers := m.Peers("Org1MSP")
	peers[0] = nil
	assert.Equal(t, p1, m.Peers("Org1MSP")[0])
}
