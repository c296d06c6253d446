/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package status

import (
	"strconv"

	"github.com/hyperledger/fabric-protos-go/common"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	grpcCodes "google.golang.org/grpc/codes"
)

// Code represents a status code
type Code uint32

const (
	// OK is returned on success.
	OK Code = 0

	// Unknown represents status codes that are uncategorized or unknown to the SDK
	Unknown Code = 1

	// ConnectionFailed is returned when a network connection attempt from the SDK fails
	ConnectionFailed Code = 2

	// EndorsementMismatch is returned when there is a mismatch in endorsements received by the SDK
	EndorsementMismatch Code = 3

	// Timeout operation timed out
	Timeout Code = 5

	// NoPeersFound No peers were discovered/configured
	NoPeersFound Code = 6

	// MultipleErrors multiple errors occurred
	MultipleErrors Code = 7

	// NoResponses is returned when an endorsement request produced no responses at all
	NoResponses Code = 30

	// NoValidResponses is returned when none of the endorsement responses passed validation
	NoValidResponses Code = 31

	// InsufficientEventSources is returned when the connected event sources do not satisfy
	// the minimum connectivity required by the commit strategy
	InsufficientEventSources Code = 32

	// NoEventSources is returned when no event source is connected
	NoEventSources Code = 33

	// StrategyUnsatisfiable is returned when event source losses make the commit strategy impossible to satisfy
	StrategyUnsatisfiable Code = 34

	// NoQueryablePeers is returned when there are no peers available for evaluating a query
	NoQueryablePeers Code = 35

	// AllPeersUnavailable is returned when every queryable peer failed
	AllPeersUnavailable Code = 36

	// ChannelInitFailed is returned when channel initialization failed on every ledger query peer
	ChannelInitFailed Code = 37

	// EmptyQueryResponse is returned when a peer returned no payloads for a query
	EmptyQueryResponse Code = 38

	// NoSuitablePeers is returned when no peer associated with an organization (or role) is available
	NoSuitablePeers Code = 39

	// UnknownStrategy is returned when an event strategy name cannot be resolved
	UnknownStrategy Code = 40
)

// CodeName maps the codes in this packages to human-readable strings
var CodeName = map[int32]string{
	0:  "OK",
	1:  "UNKNOWN",
	2:  "CONNECTION_FAILED",
	3:  "ENDORSEMENT_MISMATCH",
	5:  "TIMEOUT",
	6:  "NO_PEERS_FOUND",
	7:  "MULTIPLE_ERRORS",
	30: "NO_RESPONSES",
	31: "NO_VALID_RESPONSES",
	32: "INSUFFICIENT_EVENT_SOURCES",
	33: "NO_EVENT_SOURCES",
	34: "STRATEGY_UNSATISFIABLE",
	35: "NO_QUERYABLE_PEERS",
	36: "ALL_PEERS_UNAVAILABLE",
	37: "CHANNEL_INIT_FAILED",
	38: "EMPTY_QUERY_RESPONSE",
	39: "NO_SUITABLE_PEERS",
	40: "UNKNOWN_STRATEGY",
}

// ToInt32 cast to int32
func (c Code) ToInt32() int32 {
	return int32(c)
}

// String representation of the code
func (c Code) String() string {
	if s, ok := CodeName[c.ToInt32()]; ok {
		return s
	}
	return strconv.Itoa(int(c))
}

// ToSDKStatusCode cast to fabric-network-go status code
func ToSDKStatusCode(c int32) Code {
	return Code(c)
}

// ToGRPCStatusCode cast to gRPC status code
func ToGRPCStatusCode(c int32) grpcCodes.Code {
	return grpcCodes.Code(c)
}

// ToOrdererStatusCode cast to orderer status
func ToOrdererStatusCode(c int32) common.Status {
	return ToFabricCommonStatusCode(c)
}

// ToFabricCommonStatusCode cast to common.Status
func ToFabricCommonStatusCode(c int32) common.Status {
	return common.Status(c)
}

// ToTransactionValidationCode cast to transaction validation status code
func ToTransactionValidationCode(c int32) pb.TxValidationCode {
	return pb.TxValidationCode(c)
}
