/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package peermap groups the peers of a channel by organization (MSP ID).
package peermap

import (
	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	"github.com/hyperledger/fabric-network-go/pkg/common/logging"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
)

var logger = logging.NewLogger("fabnet/fab")

// PeerOrgMap maps MSP IDs to the ordered list of peers in that organization.
// A PeerOrgMap is immutable once created.
type PeerOrgMap struct {
	orgs  []string
	peers map[string][]fab.Peer
}

// New builds a PeerOrgMap from the given peers, preserving their order. Peers without an
// MSP ID are skipped. An error is returned if no peer could be mapped.
func New(peers []fab.Peer) (*PeerOrgMap, error) {
	m := &PeerOrgMap{peers: make(map[string][]fab.Peer)}
	for _, p := range peers {
		mspID := p.MSPID()
		if mspID == "" {
			logger.Debugf("skipping peer [%s] which has no MSP ID", p.URL())
			continue
		}
		if _, ok := m.peers[mspID]; !ok {
			m.orgs = append(m.orgs, mspID)
		}
		m.peers[mspID] = append(m.peers[mspID], p)
	}

	if len(m.orgs) == 0 {
		return nil, status.New(status.ClientStatus, status.NoSuitablePeers.ToInt32(),
			"no suitable peers associated with mspIds were found", nil)
	}
	return m, nil
}

// Orgs returns the MSP IDs in the order they were first seen
func (m *PeerOrgMap) Orgs() []string {
	orgs := make([]string, len(m.orgs))
	copy(orgs, m.orgs)
	return orgs
}

// Peers returns the peers of the given organization
func (m *PeerOrgMap) Peers(mspID string) []fab.Peer {
	return copyPeers(m.peers[mspID])
}

// PeersInRole returns the peers of the given organization that hold role
func (m *PeerOrgMap) PeersInRole(mspID string, role fab.PeerRole) []fab.Peer {
	return FilterByRole(m.peers[mspID], role)
}

// All returns every mapped peer, grouped by organization
func (m *PeerOrgMap) All() []fab.Peer {
	var all []fab.Peer
	for _, org := range m.orgs {
		all = append(all, m.peers[org]...)
	}
	return all
}

// Contains returns true if the organization has at least one peer
func (m *PeerOrgMap) Contains(mspID string) bool {
	return len(m.peers[mspID]) > 0
}

// FilterByRole returns the peers that hold role
func FilterByRole(peers []fab.Peer, role fab.PeerRole) []fab.Peer {
	var filtered []fab.Peer
	for _, p := range peers {
		if p.IsInRole(role) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func copyPeers(peers []fab.Peer) []fab.Peer {
	if peers == nil {
		return nil
	}
	c := make([]fab.Peer, len(peers))
	copy(c, peers)
	return c
}
