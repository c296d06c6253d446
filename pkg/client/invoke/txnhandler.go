/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package invoke

import (
	"fmt"

	"github.com/hyperledger/fabric-network-go/pkg/client/event/txhandler"
	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	"github.com/hyperledger/fabric-network-go/pkg/common/logging"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	"github.com/hyperledger/fabric-network-go/pkg/fab/endorsement"
	"github.com/hyperledger/fabric-protos-go/common"
	"github.com/pkg/errors"
)

var logger = logging.NewLogger("fabnet/client")

// CheckEventHubsHandler starts a reconnect of disconnected event sources
type CheckEventHubsHandler struct {
	next Handler
}

// Handle sweeps the event sources if requested
func (h *CheckEventHubsHandler) Handle(requestContext *RequestContext, clientContext *ClientContext) {
	if requestContext.Opts.CheckEventHubs {
		clientContext.EventHandlerFactory.CheckEventHubs()
	}

	// Delegate to next step if any
	if h.next != nil {
		h.next.Handle(requestContext, clientContext)
	}
}

// EndorsementHandler for handling endorse transactions
type EndorsementHandler struct {
	next Handler
}

// Handle for endorsing transactions
func (e *EndorsementHandler) Handle(requestContext *RequestContext, clientContext *ClientContext) {
	txnID := requestContext.Request.TxnID
	if txnID == fab.EmptyTransactionID {
		var err error
		txnID, err = clientContext.Channel.NewTransactionID()
		if err != nil {
			requestContext.Error = errors.WithMessage(err, "creating transaction ID failed")
			return
		}
	}
	requestContext.Response.TransactionID = txnID

	request := fab.ChaincodeInvokeRequest{
		ChaincodeID:  requestContext.Request.ChaincodeID,
		Fcn:          requestContext.Request.Fcn,
		Args:         requestContext.Request.Args,
		TransientMap: requestContext.Request.TransientMap,
	}

	transactionProposalResponses, proposal, err := clientContext.Channel.SendTransactionProposal(requestContext.Ctx, request, txnID)
	if err != nil {
		requestContext.Error = errors.WithMessage(err, "sending transaction proposal failed")
		return
	}

	requestContext.Response.Proposal = proposal
	requestContext.Response.Responses = transactionProposalResponses

	// Delegate to next step if any
	if e.next != nil {
		e.next.Handle(requestContext, clientContext)
	}
}

// EndorsementValidationHandler for transaction proposal response filtering
type EndorsementValidationHandler struct {
	next Handler
}

// Handle keeps the valid endorsements and fails if there are none or if their results
// differ
func (f *EndorsementValidationHandler) Handle(requestContext *RequestContext, clientContext *ClientContext) {
	result, err := endorsement.Validate(clientContext.Channel, requestContext.Response.Responses)
	if err != nil {
		requestContext.Error = err
		return
	}

	for _, msg := range result.InvalidMessages {
		logger.Warnf("Ignoring endorsement for transaction [%s]: %s", requestContext.Response.TransactionID, msg)
	}

	if len(result.Valid) > 1 && !comparator(clientContext)(result.Valid) {
		requestContext.Error = status.New(status.EndorserClientStatus, status.EndorsementMismatch.ToInt32(),
			"ProposalResponsePayloads do not match", nil)
		return
	}

	requestContext.Response.Responses = result.Valid
	requestContext.Response.Payload = result.Payload()

	// Delegate to next step if any
	if f.next != nil {
		f.next.Handle(requestContext, clientContext)
	}
}

func comparator(clientContext *ClientContext) ResultsComparator {
	if clientContext.ResultsComparator != nil {
		return clientContext.ResultsComparator
	}
	return clientContext.Channel.CompareProposalResponseResults
}

// CommitTxHandler for committing transactions
type CommitTxHandler struct {
	next Handler
}

// Handle listens for the commit, sends the endorsements to the orderer and waits for
// the event strategy to settle
func (c *CommitTxHandler) Handle(requestContext *RequestContext, clientContext *ClientContext) {
	txnID := requestContext.Response.TransactionID

	eventHandler, err := newTxEventHandler(requestContext, clientContext)
	if err != nil {
		requestContext.Error = errors.WithMessage(err, "error creating commit event handler")
		return
	}

	if err := eventHandler.StartListening(requestContext.Ctx, requestContext.Opts.CommitTimeout); err != nil {
		requestContext.Error = err
		return
	}

	txnRequest := fab.TransactionRequest{
		Proposal:          requestContext.Response.Proposal,
		ProposalResponses: requestContext.Response.Responses,
	}

	response, err := clientContext.Channel.SendTransaction(requestContext.Ctx, txnRequest)
	if err != nil {
		eventHandler.CancelListening()
		requestContext.Response.OrdererStatus = common.Status_SERVICE_UNAVAILABLE
		requestContext.Error = status.New(status.OrdererServerStatus, int32(common.Status_SERVICE_UNAVAILABLE),
			fmt.Sprintf("Failed to send peer responses for transaction '%s' to orderer: %s", txnID, err),
			[]interface{}{err})
		return
	}

	requestContext.Response.OrdererStatus = response.Status
	if response.Status != common.Status_SUCCESS {
		eventHandler.CancelListening()
		requestContext.Error = status.New(status.OrdererServerStatus, int32(response.Status),
			fmt.Sprintf("Failed to send peer responses for transaction '%s' to orderer. Response status '%s'", txnID, response.Status),
			[]interface{}{response.Orderer, response.Info})
		return
	}

	err = eventHandler.WaitForEvents(requestContext.Ctx)
	requestContext.Response.Outcome = eventHandler.Outcome()
	if err != nil {
		requestContext.Error = err
		return
	}

	// Delegate to next step if any
	if c.next != nil {
		c.next.Handle(requestContext, clientContext)
	}
}

func newTxEventHandler(requestContext *RequestContext, clientContext *ClientContext) (*txhandler.Handler, error) {
	txnID := requestContext.Response.TransactionID
	if requestContext.Opts.Strategy == nil {
		return clientContext.EventHandlerFactory.CreateTxEventHandler(txnID), nil
	}
	return clientContext.EventHandlerFactory.CreateTxEventHandlerWithStrategy(requestContext.Ctx, txnID, requestContext.Opts.Strategy)
}

// NewExecuteHandler returns execute handler with chain of CheckEventHubsHandler, EndorsementHandler,
// EndorsementValidationHandler and CommitTxHandler
func NewExecuteHandler(next ...Handler) Handler {
	return NewCheckEventHubsHandler(
		NewEndorsementHandler(
			NewEndorsementValidationHandler(
				NewCommitHandler(next...),
			),
		),
	)
}

// NewCheckEventHubsHandler returns a handler that sweeps the event sources
func NewCheckEventHubsHandler(next ...Handler) *CheckEventHubsHandler {
	return &CheckEventHubsHandler{next: getNext(next)}
}

// NewEndorsementHandler returns a handler that endorses a transaction proposal
func NewEndorsementHandler(next ...Handler) *EndorsementHandler {
	return &EndorsementHandler{next: getNext(next)}
}

// NewEndorsementValidationHandler returns a handler that validates an endorsement
func NewEndorsementValidationHandler(next ...Handler) *EndorsementValidationHandler {
	return &EndorsementValidationHandler{next: getNext(next)}
}

// NewCommitHandler returns a handler that commits transaction propsal responses
func NewCommitHandler(next ...Handler) *CommitTxHandler {
	return &CommitTxHandler{next: getNext(next)}
}

func getNext(next []Handler) Handler {
	if len(next) > 0 {
		return next[0]
	}
	return nil
}
