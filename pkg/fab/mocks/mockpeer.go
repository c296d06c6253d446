/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
)

// MockPeer is a mock fab.Peer.
type MockPeer struct {
	MockURL   string
	MockMSP   string
	MockRoles []fab.PeerRole
}

// NewMockPeer creates a mock peer holding the given roles. A peer created without
// roles holds every role.
func NewMockPeer(url string, mspID string, roles ...fab.PeerRole) *MockPeer {
	if len(roles) == 0 {
		roles = []fab.PeerRole{fab.EndorsingPeerRole, fab.ChaincodeQueryRole, fab.LedgerQueryRole, fab.EventSourceRole}
	}
	return &MockPeer{MockURL: url, MockMSP: mspID, MockRoles: roles}
}

// MSPID gets the Peer mspID.
func (p *MockPeer) MSPID() string {
	return p.MockMSP
}

// URL returns the mock peer's mock URL
func (p *MockPeer) URL() string {
	return p.MockURL
}

// IsInRole returns true if the role was given to the mock
func (p *MockPeer) IsInRole(role fab.PeerRole) bool {
	for _, r := range p.MockRoles {
		if r == role {
			return true
		}
	}
	return false
}

// String returns the peer URL
func (p *MockPeer) String() string {
	return p.MockURL
}
