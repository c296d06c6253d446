/*
Copyright 2020 IBM All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperledger/fabric-network-go/pkg/client/event/strategy"
	"github.com/hyperledger/fabric-network-go/pkg/client/event/txhandler"
	"github.com/hyperledger/fabric-network-go/pkg/client/invoke"
	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	"github.com/pkg/errors"
)

// A Transaction represents a specific invocation of a transaction function, and provides
// flexibility over how that transaction is invoked. Applications should
// obtain instances of this class from a Contract using the
// Contract.CreateTransaction method.
//
// Instances of this class are stateful. A new instance must
// be created for each transaction invocation.
type Transaction struct {
	name          string
	contract      *Contract
	request       *invoke.Request
	strategy      strategy.Strategy
	commitTimeout time.Duration
	ctx           context.Context
}

func newTransaction(name string, contract *Contract, options ...TransactionOption) (*Transaction, error) {
	if name == "" {
		return nil, errors.New("transaction name is required")
	}

	txn := &Transaction{
		name:          name,
		contract:      contract,
		request:       &invoke.Request{ChaincodeID: contract.chaincodeID, Fcn: name},
		commitTimeout: contract.network.gateway.cfg.CommitTimeout,
		ctx:           context.Background(),
	}

	for _, option := range options {
		err := option(txn)
		if err != nil {
			return nil, err
		}
	}

	return txn, nil
}

// Name returns the name of the transaction function
func (txn *Transaction) Name() string {
	return txn.name
}

// Evaluate sends the transaction function to a single peer and returns its result. The
// transaction is not sent for ordering.
func (txn *Transaction) Evaluate(args ...string) ([]byte, error) {
	txn.request.Args = argBytes(args)

	network := txn.contract.network
	meterLabels := txn.meterLabels()
	network.gateway.metrics.EvaluationsReceived.With(meterLabels...).Add(1)
	startTime := time.Now()

	request := fab.ChaincodeQueryRequest{
		ChaincodeID:  txn.request.ChaincodeID,
		Fcn:          txn.request.Fcn,
		Args:         txn.request.Args,
		TransientMap: txn.request.TransientMap,
		TxnID:        txn.request.TxnID,
	}

	payload, err := network.queryHandler.QueryChaincode(txn.ctx, request)
	network.gateway.metrics.EvaluationDuration.With(meterLabels...).Observe(time.Since(startTime).Seconds())
	if err != nil {
		network.gateway.metrics.EvaluationsFailed.With(append(meterLabels, "fail", failLabel(err))...).Add(1)
		return nil, errors.WithMessage(err, "Failed to evaluate")
	}

	return payload, nil
}

// Submit endorses the transaction function, sends it for ordering and waits until the
// event strategy is satisfied.
func (txn *Transaction) Submit(args ...string) ([]byte, error) {
	txn.request.Args = argBytes(args)

	network := txn.contract.network
	meterLabels := txn.meterLabels()
	network.gateway.metrics.SubmissionsReceived.With(meterLabels...).Add(1)
	startTime := time.Now()

	requestContext := &invoke.RequestContext{
		Request: *txn.request,
		Opts: invoke.Opts{
			CommitTimeout:  txn.commitTimeout,
			Strategy:       txn.strategy,
			CheckEventHubs: network.gateway.cfg.CheckEventHubs,
		},
		Ctx: txn.ctx,
	}

	invoke.NewExecuteHandler().Handle(requestContext, network.clientContext)
	network.gateway.metrics.SubmissionDuration.With(meterLabels...).Observe(time.Since(startTime).Seconds())

	if outcome := requestContext.Response.Outcome; outcome != txhandler.Unsettled {
		network.gateway.metrics.CommitOutcomes.With(
			"channel", network.name,
			"strategy", txn.strategyName(),
			"outcome", outcome.String(),
		).Add(1)
	}

	if err := requestContext.Error; err != nil {
		if status.IsClientCode(err, status.Timeout) {
			network.gateway.metrics.SubmissionTimeouts.With(meterLabels...).Add(1)
		} else {
			network.gateway.metrics.SubmissionsFailed.With(append(meterLabels, "fail", failLabel(err))...).Add(1)
		}
		return nil, errors.WithMessage(err, "Failed to submit")
	}

	logger.Debugf("Transaction [%s] of [%s] committed", requestContext.Response.TransactionID, txn.name)

	return requestContext.Response.Payload, nil
}

func (txn *Transaction) meterLabels() []string {
	return []string{
		"channel", txn.contract.network.name,
		"chaincode", txn.request.ChaincodeID,
		"fcn", txn.request.Fcn,
	}
}

func (txn *Transaction) strategyName() string {
	if txn.strategy != nil {
		return txn.strategy.Name()
	}
	return txn.contract.network.gateway.strategy.Name()
}

func failLabel(err error) string {
	if s, ok := status.FromError(err); ok {
		return fmt.Sprintf("Error - Group:%s - Code:%d", s.Group.String(), s.Code)
	}
	return "Error - Generic"
}

func argBytes(args []string) [][]byte {
	bytes := make([][]byte, len(args))
	for i, v := range args {
		bytes[i] = []byte(v)
	}
	return bytes
}
