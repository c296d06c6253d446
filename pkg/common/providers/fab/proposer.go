/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

import (
	"github.com/hyperledger/fabric-protos-go/common"
	pb "github.com/hyperledger/fabric-protos-go/peer"
)

// TransactionID provides the identifier of a Fabric transaction proposal.
type TransactionID string

// EmptyTransactionID represents a non-existing transaction (usually due to error).
const EmptyTransactionID = TransactionID("")

// ChaincodeInvokeRequest contains the parameters for sending a transaction proposal.
type ChaincodeInvokeRequest struct {
	ChaincodeID  string
	TransientMap map[string][]byte
	Fcn          string
	Args         [][]byte
}

// ChaincodeQueryRequest contains the parameters for a chaincode query sent to explicit targets.
type ChaincodeQueryRequest struct {
	ChaincodeID  string
	TransientMap map[string][]byte
	Fcn          string
	Args         [][]byte
	TxnID        TransactionID
	Targets      []Peer
}

// TransactionProposal contains a marashalled transaction proposal.
type TransactionProposal struct {
	TxnID TransactionID
	*pb.Proposal
}

// TransactionProposalResponse respresents the result of transaction proposal processing.
// Err is set when the endorser could not be reached or failed the request; in that case
// ProposalResponse may be nil.
type TransactionProposalResponse struct {
	Endorser string
	Err      error
	*pb.ProposalResponse
}

// QueryResponse is the result of a chaincode query from a single target.
// Err carries the peer error, including its gRPC status when the peer was unreachable.
type QueryResponse struct {
	Endorser string
	Payload  []byte
	Err      error
}

// TransactionRequest holds endorsed Transaction Proposals.
type TransactionRequest struct {
	Proposal          *TransactionProposal
	ProposalResponses []*TransactionProposalResponse
}

// TransactionResponse contains information returned by the orderer.
type TransactionResponse struct {
	Orderer string
	Status  common.Status
	Info    string
}

// InitializeRequest contains the options for initializing a channel from a peer.
type InitializeRequest struct {
	Target      Peer
	Discover    bool
	AsLocalhost bool
}
