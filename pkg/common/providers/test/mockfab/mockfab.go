/*
Copyright SecureKey Technologies Inc., Unchain B.V. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mockfab

import (
	"github.com/golang/mock/gomock"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
)

// ErrorMessage is a mock error message
const ErrorMessage = "default error message"

// AllRoles are the roles held by a peer created with NewPeer and no explicit roles
var AllRoles = []fab.PeerRole{fab.EndorsingPeerRole, fab.ChaincodeQueryRole, fab.LedgerQueryRole, fab.EventSourceRole}

// NewPeer returns a mock peer with the given url and MSP ID. The peer holds exactly the
// given roles, or every role when none are given.
func NewPeer(mockCtrl *gomock.Controller, url, mspID string, roles ...fab.PeerRole) *MockPeer {
	if len(roles) == 0 {
		roles = AllRoles
	}

	peer := NewMockPeer(mockCtrl)
	peer.EXPECT().URL().Return(url).AnyTimes()
	peer.EXPECT().MSPID().Return(mspID).AnyTimes()
	peer.EXPECT().IsInRole(gomock.Any()).DoAndReturn(func(role fab.PeerRole) bool {
		for _, r := range roles {
			if r == role {
				return true
			}
		}
		return false
	}).AnyTimes()

	return peer
}

// NewIdentity returns a mock identity for the given MSP ID
func NewIdentity(mockCtrl *gomock.Controller, mspID, identifier string) *MockIdentityContext {
	identity := NewMockIdentityContext(mockCtrl)
	identity.EXPECT().MSPID().Return(mspID).AnyTimes()
	identity.EXPECT().Identifier().Return(identifier).AnyTimes()
	identity.EXPECT().Sign(gomock.Any()).DoAndReturn(func(msg []byte) ([]byte, error) {
		return append([]byte("signed:"), msg...), nil
	}).AnyTimes()
	return identity
}

// NewChannel returns a mock channel with the given name and peers. Only Name and Peers
// are expected; tests add expectations for the remaining methods.
func NewChannel(mockCtrl *gomock.Controller, name string, peers ...fab.Peer) *MockChannel {
	channel := NewMockChannel(mockCtrl)
	channel.EXPECT().Name().Return(name).AnyTimes()
	channel.EXPECT().Peers().Return(peers).AnyTimes()
	return channel
}
