/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package invoke provides the handlers for submitting chaincode transactions.
package invoke

import (
	reqContext "context"
	"time"

	"github.com/hyperledger/fabric-network-go/pkg/client/event/strategy"
	"github.com/hyperledger/fabric-network-go/pkg/client/event/txhandler"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	"github.com/hyperledger/fabric-protos-go/common"
)

// Opts allows the user to specify more advanced options
type Opts struct {
	CommitTimeout  time.Duration
	Strategy       strategy.Strategy // nil selects the default strategy of the event handler factory
	CheckEventHubs bool
}

// Request contains the parameters to execute transaction
type Request struct {
	ChaincodeID  string
	Fcn          string
	Args         [][]byte
	TransientMap map[string][]byte
	TxnID        fab.TransactionID // generated by the channel when empty
}

// Response contains response parameters for the submitted transaction
type Response struct {
	Payload       []byte
	TransactionID fab.TransactionID
	Proposal      *fab.TransactionProposal
	Responses     []*fab.TransactionProposalResponse // valid endorsements
	OrdererStatus common.Status
	Outcome       txhandler.Outcome
}

// Handler for chaining transaction executions
type Handler interface {
	Handle(context *RequestContext, clientContext *ClientContext)
}

// ResultsComparator returns true if the endorsements carry the same results
type ResultsComparator func(responses []*fab.TransactionProposalResponse) bool

// EventHandlerFactory creates the commit event handlers of the channel
type EventHandlerFactory interface {
	CheckEventHubs()
	CreateTxEventHandler(txID fab.TransactionID) *txhandler.Handler
	CreateTxEventHandlerWithStrategy(ctx reqContext.Context, txID fab.TransactionID, s strategy.Strategy) (*txhandler.Handler, error)
}

// ClientContext contains context parameters for handler execution
type ClientContext struct {
	Channel             fab.Channel
	EventHandlerFactory EventHandlerFactory
	ResultsComparator   ResultsComparator // defaults to the channel's comparison
}

// RequestContext contains request, opts, response parameters for handler execution
type RequestContext struct {
	Request  Request
	Opts     Opts
	Response Response
	Error    error
	Ctx      reqContext.Context
}
