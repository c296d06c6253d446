/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package endorsement validates the endorsement responses returned for a
// transaction proposal before the transaction is sent for ordering.
package endorsement

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang/protobuf/proto"
	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	"github.com/hyperledger/fabric-network-go/pkg/common/logging"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	pb "github.com/hyperledger/fabric-protos-go/peer"
)

var logger = logging.NewLogger("fabnet/fab")

const noValidResponsesMsg = "No valid responses from any peers."

// Verifier checks the signature and identity of a proposal response
type Verifier interface {
	VerifyProposalResponse(response *fab.TransactionProposalResponse) bool
}

// Result partitions the responses of a proposal
type Result struct {
	Valid           []*fab.TransactionProposalResponse
	Invalid         []*fab.TransactionProposalResponse
	InvalidMessages []string
}

// Payload returns the chaincode payload of the first valid response, or nil
func (r *Result) Payload() []byte {
	if len(r.Valid) == 0 {
		return nil
	}
	return r.Valid[0].GetResponse().GetPayload()
}

// Validate partitions responses into valid and invalid ones. A response is invalid if it
// carries an error, fails verification or has a status other than 200. An error is returned
// if there are no responses or none of them is valid.
func Validate(verifier Verifier, responses []*fab.TransactionProposalResponse) (*Result, error) {
	if len(responses) == 0 {
		return nil, status.New(status.EndorserClientStatus, status.NoResponses.ToInt32(),
			"No results were returned from the request", nil)
	}

	result := &Result{}
	for _, r := range responses {
		if msg, ok := check(verifier, r); !ok {
			logger.Warnf("Invalid endorsement response: %s", msg)
			result.Invalid = append(result.Invalid, r)
			result.InvalidMessages = append(result.InvalidMessages, msg)
			continue
		}
		result.Valid = append(result.Valid, r)
	}

	if len(result.Valid) == 0 {
		details := make([]interface{}, len(result.InvalidMessages))
		for i, msg := range result.InvalidMessages {
			details[i] = msg
		}
		msgs := append([]string{noValidResponsesMsg}, result.InvalidMessages...)
		return result, status.New(status.EndorserClientStatus, status.NoValidResponses.ToInt32(),
			strings.Join(msgs, "\n"), details)
	}

	logger.Debugf("%d of %d endorsement responses are valid", len(result.Valid), len(responses))
	return result, nil
}

func check(verifier Verifier, r *fab.TransactionProposalResponse) (string, bool) {
	if r == nil {
		return "Response from attempted peer comms was empty", false
	}
	if r.Err != nil {
		return fmt.Sprintf("Response from attempted peer comms was an error: %s", r.Err), false
	}
	if r.ProposalResponse == nil || r.GetResponse() == nil {
		return fmt.Sprintf("Response from peer %s carried no proposal response", r.Endorser), false
	}
	if !verifier.VerifyProposalResponse(r) {
		return fmt.Sprintf("Proposal response from peer %s failed verification. Status: %d, message: %s",
			r.Endorser, r.GetResponse().GetStatus(), r.GetResponse().GetMessage()), false
	}
	if r.GetResponse().GetStatus() != http.StatusOK {
		return fmt.Sprintf("Unexpected response of %d from peer %s. Payload was: %s",
			r.GetResponse().GetStatus(), r.Endorser, r.GetResponse().GetPayload()), false
	}
	return "", true
}

// CompareProposalResponseResults returns true if every response carries the same
// chaincode action (read/write set, events and response) as the first one.
func CompareProposalResponseResults(responses []*fab.TransactionProposalResponse) bool {
	var first *pb.ChaincodeAction
	for _, r := range responses {
		action, err := chaincodeAction(r)
		if err != nil {
			logger.Debugf("unable to decode response from %s: %s", r.Endorser, err)
			return false
		}
		if first == nil {
			first = action
			continue
		}
		if !proto.Equal(first, action) {
			logger.Debugf("chaincode action from %s does not match", r.Endorser)
			return false
		}
	}
	return true
}

func chaincodeAction(r *fab.TransactionProposalResponse) (*pb.ChaincodeAction, error) {
	prp := &pb.ProposalResponsePayload{}
	if err := proto.Unmarshal(r.GetPayload(), prp); err != nil {
		return nil, err
	}
	action := &pb.ChaincodeAction{}
	if err := proto.Unmarshal(prp.GetExtension(), action); err != nil {
		return nil, err
	}
	return action, nil
}
