/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

import (
	reqContext "context"
)

// Channel is the transport view of a channel used by the gateway.
type Channel interface {
	Name() string

	// Peers returns the peers currently known to be joined to the channel
	Peers() []Peer

	// Initialize loads the channel configuration (and optionally discovers peers) from the request target
	Initialize(reqCtx reqContext.Context, request InitializeRequest) error

	NewTransactionID() (TransactionID, error)

	// SendTransactionProposal sends the proposal to the endorsing peers. An error is only returned
	// when the proposal could not be created; per endorser failures are carried in the responses.
	SendTransactionProposal(reqCtx reqContext.Context, request ChaincodeInvokeRequest, txnID TransactionID) ([]*TransactionProposalResponse, *TransactionProposal, error)

	// SendTransaction sends the endorsed transaction to the ordering service
	SendTransaction(reqCtx reqContext.Context, request TransactionRequest) (*TransactionResponse, error)

	QueryByChaincode(reqCtx reqContext.Context, request ChaincodeQueryRequest) ([]*QueryResponse, error)

	// VerifyProposalResponse checks the endorser signature and identity of the response
	VerifyProposalResponse(response *TransactionProposalResponse) bool

	// CompareProposalResponseResults returns true if all responses carry the same read/write sets
	CompareProposalResponseResults(responses []*TransactionProposalResponse) bool

	NewEventHub(peer Peer) (EventHub, error)
}

// Client provides access to channels for the current user context
type Client interface {
	Channel(name string) (Channel, error)
}

// IdentityContext supplies the organization and signing capability of the submitting user
type IdentityContext interface {
	MSPID() string
	Identifier() string
	Sign(msg []byte) ([]byte, error)
}
