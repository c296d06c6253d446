/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

// PeerRole is a capability a peer advertises on a channel
type PeerRole string

const (
	// EndorsingPeerRole peer endorses transaction proposals
	EndorsingPeerRole PeerRole = "endorsingPeer"
	// ChaincodeQueryRole peer accepts chaincode queries
	ChaincodeQueryRole PeerRole = "chaincodeQuery"
	// LedgerQueryRole peer accepts ledger (system chaincode) queries
	LedgerQueryRole PeerRole = "ledgerQuery"
	// EventSourceRole peer delivers commit events
	EventSourceRole PeerRole = "eventSource"
)

// Peer ...
type Peer interface {
	// MSPID gets the Peer mspID.
	MSPID() string

	//URL gets the peer address
	URL() string

	// IsInRole returns true if the peer holds the given role on the channel
	IsInRole(role PeerRole) bool
}
