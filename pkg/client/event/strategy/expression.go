/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package strategy

import (
	"fmt"

	"github.com/Knetic/govaluate"
	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	"github.com/pkg/errors"
)

// DefaultFailExpression fails an expression strategy once no source is left
const DefaultFailExpression = "remaining == 0"

// Variables available to expressions. Per-organization counts are available as
// <mspID>_initial, <mspID>_remaining and <mspID>_valid; organizations without
// connected sources evaluate to 0.
const (
	VarInitial   = "initial"
	VarRemaining = "remaining"
	VarValid     = "valid"
	VarOrgs      = "orgs"
)

type expressionStrategy struct {
	name  string
	scope Scope
	pass  *govaluate.EvaluableExpression
	fail  *govaluate.EvaluableExpression
}

// NewExpressionStrategy returns a strategy that passes when the pass expression evaluates
// to true and fails when the fail expression evaluates to true. The fail expression
// defaults to DefaultFailExpression.
func NewExpressionStrategy(name string, scope Scope, pass, fail string) (Strategy, error) {
	if pass == "" {
		return nil, errors.Errorf("pass expression is required for event strategy [%s]", name)
	}
	if fail == "" {
		fail = DefaultFailExpression
	}

	s := &expressionStrategy{name: name, scope: scope}

	var err error
	if s.pass, err = parseExpression(pass); err != nil {
		return nil, errors.WithMessage(err, fmt.Sprintf("invalid pass expression for event strategy [%s]", name))
	}
	if s.fail, err = parseExpression(fail); err != nil {
		return nil, errors.WithMessage(err, fmt.Sprintf("invalid fail expression for event strategy [%s]", name))
	}

	return s, nil
}

func parseExpression(expression string) (*govaluate.EvaluableExpression, error) {
	expr, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return nil, err
	}

	// Make sure the expression yields a boolean
	sample := Counts{byOrg: map[string]Count{}}
	if _, err := evaluate(expr, sample); err != nil {
		return nil, err
	}
	return expr, nil
}

func (s *expressionStrategy) Name() string {
	return s.name
}

func (s *expressionStrategy) Scope() Scope {
	return s.scope
}

func (s *expressionStrategy) CheckInitialState(counts Counts) error {
	if counts.Len() == 0 {
		return status.New(status.ClientStatus, status.NoEventSources.ToInt32(), "no event hubs available", nil)
	}
	return checkInitialCountTotal(counts)
}

func (s *expressionStrategy) OnEvent(mspID string, counts Counts) Outcome {
	return s.outcome(counts)
}

func (s *expressionStrategy) OnError(mspID string, counts Counts) Outcome {
	return s.outcome(counts)
}

func (s *expressionStrategy) outcome(counts Counts) Outcome {
	ok, err := evaluate(s.pass, counts)
	if err != nil {
		logger.Errorf("Error evaluating pass expression of event strategy [%s]: %s", s.name, err)
		return Failed
	}
	if ok {
		return Passed
	}

	ok, err = evaluate(s.fail, counts)
	if err != nil {
		logger.Errorf("Error evaluating fail expression of event strategy [%s]: %s", s.name, err)
		return Failed
	}
	if ok {
		return Failed
	}
	return Pending
}

func evaluate(expr *govaluate.EvaluableExpression, counts Counts) (bool, error) {
	total := counts.Total()
	params := map[string]interface{}{
		VarInitial:   float64(total.Initial),
		VarRemaining: float64(total.Remaining),
		VarValid:     float64(total.Valid),
		VarOrgs:      float64(counts.Len()),
	}

	// Organizations that are not part of the group count as zero
	for _, v := range expr.Vars() {
		if _, ok := params[v]; !ok {
			params[v] = float64(0)
		}
	}
	for org, count := range counts.byOrg {
		params[org+"_initial"] = float64(count.Initial)
		params[org+"_remaining"] = float64(count.Remaining)
		params[org+"_valid"] = float64(count.Valid)
	}

	result, err := expr.Evaluate(params)
	if err != nil {
		return false, err
	}

	b, ok := result.(bool)
	if !ok {
		return false, errors.Errorf("expression [%s] does not evaluate to a boolean", expr.String())
	}
	return b, nil
}
