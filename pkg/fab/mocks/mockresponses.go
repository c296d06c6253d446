/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"github.com/golang/protobuf/proto"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	pb "github.com/hyperledger/fabric-protos-go/peer"
)

// NewProposalResponse returns an endorsement response with the given status and payload.
// The proposal response payload carries a chaincode action whose results are set to results.
func NewProposalResponse(endorser string, status int32, payload []byte, results []byte) *fab.TransactionProposalResponse {
	return &fab.TransactionProposalResponse{
		Endorser: endorser,
		ProposalResponse: &pb.ProposalResponse{
			Response: &pb.Response{
				Status:  status,
				Payload: payload,
			},
			Endorsement: &pb.Endorsement{
				Endorser:  []byte(endorser),
				Signature: []byte("signature"),
			},
			Payload: proposalResponsePayload(status, payload, results),
		},
	}
}

// NewErrorResponse returns an endorsement response for an endorser that failed
func NewErrorResponse(endorser string, err error) *fab.TransactionProposalResponse {
	return &fab.TransactionProposalResponse{
		Endorser: endorser,
		Err:      err,
	}
}

func proposalResponsePayload(status int32, payload []byte, results []byte) []byte {
	action := &pb.ChaincodeAction{
		Results:  results,
		Response: &pb.Response{Status: status, Payload: payload},
	}
	extension, err := proto.Marshal(action)
	if err != nil {
		panic(err)
	}

	prp := &pb.ProposalResponsePayload{
		ProposalHash: []byte("proposal-hash"),
		Extension:    extension,
	}
	b, err := proto.Marshal(prp)
	if err != nil {
		panic(err)
	}
	return b
}
