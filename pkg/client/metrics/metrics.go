/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metrics

import "github.com/hyperledger/fabric-network-go/pkg/common/metrics"

var (
	submissionsReceived = metrics.CounterOpts{
		Namespace:    "gateway",
		Name:         "submissions_received",
		Help:         "The number of transactions submitted through a contract.",
		LabelNames:   []string{"channel", "chaincode", "fcn"},
		StatsdFormat: "%{#fqname}.%{channel}.%{chaincode}.%{fcn}",
	}
	submissionsFailed = metrics.CounterOpts{
		Namespace:    "gateway",
		Name:         "submissions_failed",
		Help:         "The number of submitted transactions that failed (timeouts excluded).",
		LabelNames:   []string{"channel", "chaincode", "fcn", "fail"},
		StatsdFormat: "%{#fqname}.%{channel}.%{chaincode}.%{fcn}.%{fail}",
	}
	submissionTimeouts = metrics.CounterOpts{
		Namespace:    "gateway",
		Name:         "submission_timeouts",
		Help:         "The number of submitted transactions whose commit events did not arrive in time.",
		LabelNames:   []string{"channel", "chaincode", "fcn"},
		StatsdFormat: "%{#fqname}.%{channel}.%{chaincode}.%{fcn}",
	}
	submissionDuration = metrics.HistogramOpts{
		Namespace:    "gateway",
		Name:         "submission_duration",
		Help:         "The time to endorse, order and commit a submitted transaction.",
		LabelNames:   []string{"channel", "chaincode", "fcn"},
		StatsdFormat: "%{#fqname}.%{channel}.%{chaincode}.%{fcn}",
	}
	evaluationsReceived = metrics.CounterOpts{
		Namespace:    "gateway",
		Name:         "evaluations_received",
		Help:         "The number of transactions evaluated through a contract.",
		LabelNames:   []string{"channel", "chaincode", "fcn"},
		StatsdFormat: "%{#fqname}.%{channel}.%{chaincode}.%{fcn}",
	}
	evaluationsFailed = metrics.CounterOpts{
		Namespace:    "gateway",
		Name:         "evaluations_failed",
		Help:         "The number of evaluated transactions that failed.",
		LabelNames:   []string{"channel", "chaincode", "fcn", "fail"},
		StatsdFormat: "%{#fqname}.%{channel}.%{chaincode}.%{fcn}.%{fail}",
	}
	evaluationDuration = metrics.HistogramOpts{
		Namespace:    "gateway",
		Name:         "evaluation_duration",
		Help:         "The time to evaluate a transaction.",
		LabelNames:   []string{"channel", "chaincode", "fcn"},
		StatsdFormat: "%{#fqname}.%{channel}.%{chaincode}.%{fcn}",
	}
	commitOutcomes = metrics.CounterOpts{
		Namespace:    "gateway",
		Name:         "commit_outcomes",
		Help:         "The number of settled commit waits by event strategy and outcome.",
		LabelNames:   []string{"channel", "strategy", "outcome"},
		StatsdFormat: "%{#fqname}.%{channel}.%{strategy}.%{outcome}",
	}
	queryFailovers = metrics.CounterOpts{
		Namespace:    "gateway",
		Name:         "query_failovers",
		Help:         "The number of times a query moved away from an unavailable peer.",
		LabelNames:   []string{"channel", "peer"},
		StatsdFormat: "%{#fqname}.%{channel}.%{peer}",
	}
)

// ClientMetrics contains the metrics recorded by the gateway
type ClientMetrics struct {
	SubmissionsReceived metrics.Counter
	SubmissionsFailed   metrics.Counter
	SubmissionTimeouts  metrics.Counter
	SubmissionDuration  metrics.Histogram
	EvaluationsReceived metrics.Counter
	EvaluationsFailed   metrics.Counter
	EvaluationDuration  metrics.Histogram
	CommitOutcomes      metrics.Counter
	QueryFailovers      metrics.Counter
}

// NewClientMetrics builds a new instance of ClientMetrics
func NewClientMetrics(p metrics.Provider) *ClientMetrics {
	return &ClientMetrics{
		SubmissionsReceived: p.NewCounter(submissionsReceived),
		SubmissionsFailed:   p.NewCounter(submissionsFailed),
		SubmissionTimeouts:  p.NewCounter(submissionTimeouts),
		SubmissionDuration:  p.NewHistogram(submissionDuration),
		EvaluationsReceived: p.NewCounter(evaluationsReceived),
		EvaluationsFailed:   p.NewCounter(evaluationsFailed),
		EvaluationDuration:  p.NewHistogram(evaluationDuration),
		CommitOutcomes:      p.NewCounter(commitOutcomes),
		QueryFailovers:      p.NewCounter(queryFailovers),
	}
}
