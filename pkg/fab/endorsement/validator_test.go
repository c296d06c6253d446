/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package endorsement

import (
	"strings"
	"testing"

	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	"github.com/hyperledger/fabric-network-go/pkg/fab/mocks"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifier struct {
	rejected map[string]bool
}

func (v *verifier) VerifyProposalResponse(r *fab.TransactionProposalResponse) bool {
	return !v.rejected[r.Endorser]
}

func acceptAll() *verifier {
	return &verifier{rejected: map[string]bool{}}
}

func TestValidateNoResponses(t *testing.T) {
	_, err := Validate(acceptAll(), nil)
	require.Error(t, err)
	assert.True(t, status.IsClientCode(err, status.NoResponses))
}

func TestValidateReturnsValidSubset(t *testing.T) {
	good1 := mocks.NewProposalResponse("peer1", 200, []byte("OK"), nil)
	good2 := mocks.NewProposalResponse("peer2", 200, []byte("OK"), nil)
	failed := mocks.NewErrorResponse("peer3", errors.New("connection refused"))
	unverified := mocks.NewProposalResponse("peer4", 200, []byte("OK"), nil)
	badStatus := mocks.NewProposalResponse("peer5", 500, []byte("boom"), nil)

	v := &verifier{rejected: map[string]bool{"peer4": true}}
	result, err := Validate(v, []*fab.TransactionProposalResponse{failed, good1, unverified, badStatus, good2})
	require.NoError(t, err)

	assert.Equal(t, []*fab.TransactionProposalResponse{good1, good2}, result.Valid)
	assert.Equal(t, []*fab.TransactionProposalResponse{failed, unverified, badStatus}, result.Invalid)
	require.Len(t, result.InvalidMessages, 3)
	assert.Equal(t, []byte("OK"), result.Payload())
}

func TestValidateAllInvalid(t *testing.T) {
	responses := []*fab.TransactionProposalResponse{
		mocks.NewErrorResponse("peer1", errors.New("connection refused")),
		mocks.NewProposalResponse("peer2", 200, []byte("OK"), nil),
		mocks.NewProposalResponse("peer3", 404, []byte("missing"), nil),
		{Endorser: "peer4"},
	}

	v := &verifier{rejected: map[string]bool{"peer2": true}}
	result, err := Validate(v, responses)
	require.Error(t, err)
	assert.True(t, status.IsClientCode(err, status.NoValidResponses))
	assert.Empty(t, result.Valid)
	assert.Nil(t, result.Payload())

	s, ok := status.FromError(err)
	require.True(t, ok)
	require.Len(t, s.Details, len(responses))

	lines := strings.Split(s.Message, "\n")
	require.Len(t, lines, len(responses)+1)
	assert.Equal(t, "No valid responses from any peers.", lines[0])
	assert.Equal(t, "Response from attempted peer comms was an error: connection refused", lines[1])
	assert.Contains(t, lines[2], "Proposal response from peer peer2 failed verification.")
	assert.Equal(t, "Unexpected response of 404 from peer peer3. Payload was: missing", lines[3])
	assert.Contains(t, lines[4], "peer4")
}

func TestCompareProposalResponseResults(t *testing.T) {
	r1 := mocks.NewProposalResponse("peer1", 200, []byte("OK"), []byte("rwset-a"))
	r2 := mocks.NewProposalResponse("peer2", 200, []byte("OK"), []byte("rwset-a"))
	r3 := mocks.NewProposalResponse("peer3", 200, []byte("OK"), []byte("rwset-b"))

	assert.True(t, CompareProposalResponseResults(nil))
	assert.True(t, CompareProposalResponseResults([]*fab.TransactionProposalResponse{r1, r2}))
	assert.False(t, CompareProposalResponseResults([]*fab.TransactionProposalResponse{r1, r2, r3}))

	corrupt := &fab.TransactionProposalResponse{
		Endorser:         "peer4",
		ProposalResponse: &pb.ProposalResponse{Payload: []byte{0xff, 0xff}},
	}
	assert.False(t, CompareProposalResponseResults([]*fab.TransactionProposalResponse{r1, corrupt}))
}
