/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package strategy decides when a transaction is considered committed, given the
// results delivered by the event sources listening for it.
//
// Built-in strategies:
//
//  MSPID_SCOPE_ALLFORTX   wait for every connected source of the client's organization;
//                         at least one of them must deliver a valid event
//  MSPID_SCOPE_ANYFORTX   wait for the first valid event from the client's organization
//  CHANNEL_SCOPE_ALLFORTX wait for every organization of the channel to deliver at least
//                         one valid event
//  CHANNEL_SCOPE_ANYFORTX wait for the first valid event from any organization
//
// An explicit rejection of the transaction by any peer is handled by the caller and
// never reaches a strategy.
package strategy

import (
	"fmt"
	"strings"

	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	"github.com/hyperledger/fabric-network-go/pkg/common/logging"
)

var logger = logging.NewLogger("fabnet/client")

// Built-in strategy names
const (
	MSPIDScopeAllForTx   = "MSPID_SCOPE_ALLFORTX"
	MSPIDScopeAnyForTx   = "MSPID_SCOPE_ANYFORTX"
	ChannelScopeAllForTx = "CHANNEL_SCOPE_ALLFORTX"
	ChannelScopeAnyForTx = "CHANNEL_SCOPE_ANYFORTX"
)

// Outcome is the result of a strategy evaluation
type Outcome int

const (
	// Pending means that more results are needed
	Pending Outcome = iota
	// Passed means that the transaction is considered committed
	Passed
	// Failed means that the strategy can no longer be satisfied
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "PENDING"
	case Passed:
		return "PASSED"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Scope determines the event sources that a strategy listens to
type Scope int

const (
	// OrgScope listens to the event sources of the client's organization
	OrgScope Scope = iota
	// ChannelScope listens to the event sources of all organizations in the channel
	ChannelScope
)

func (s Scope) String() string {
	if s == ChannelScope {
		return "channel"
	}
	return "org"
}

// ParseScope returns the scope for the given name ("org", "mspid" or "channel")
func ParseScope(name string) (Scope, error) {
	switch strings.ToLower(name) {
	case "", "org", "mspid":
		return OrgScope, nil
	case "channel":
		return ChannelScope, nil
	default:
		return OrgScope, status.New(status.ClientStatus, status.UnknownStrategy.ToInt32(), fmt.Sprintf("unknown event strategy scope: %s", name), nil)
	}
}

// Strategy is a commit policy. All functions are evaluated with the counts of the
// transaction's event source group after the result has been recorded.
type Strategy interface {
	// Name returns the name of the strategy
	Name() string
	// Scope returns the event sources required by the strategy
	Scope() Scope
	// CheckInitialState returns an error if the connected sources cannot satisfy the strategy
	CheckInitialState(counts Counts) error
	// OnEvent is called after a valid commit event was received from mspID
	OnEvent(mspID string, counts Counts) Outcome
	// OnError is called after a source of mspID failed to deliver a result
	OnError(mspID string, counts Counts) Outcome
}

type outcomeFunc func(mspID string, counts Counts) Outcome

type builtin struct {
	name         string
	scope        Scope
	initialState func(counts Counts) error
	onEvent      outcomeFunc
	onError      outcomeFunc
}

func (s *builtin) Name() string { return s.name }
func (s *builtin) Scope() Scope { return s.scope }
func (s *builtin) CheckInitialState(counts Counts) error { return s.initialState(counts) }
func (s *builtin) OnEvent(mspID string, counts Counts) Outcome { return s.onEvent(mspID, counts) }
func (s *builtin) OnError(mspID string, counts Counts) Outcome { return s.onError(mspID, counts) }

var builtins = map[string]*builtin{
	MSPIDScopeAllForTx: {
		name:         MSPIDScopeAllForTx,
		scope:        OrgScope,
		initialState: checkInitialCountByOrg,
		onEvent:      checkRemainingForOrg,
		onError:      checkRemainingForOrg,
	},
	MSPIDScopeAnyForTx: {
		name:         MSPIDScopeAnyForTx,
		scope:        OrgScope,
		initialState: checkInitialCountByOrg,
		onEvent:      passed,
		onError:      checkRemainingForOrg,
	},
	ChannelScopeAllForTx: {
		name:         ChannelScopeAllForTx,
		scope:        ChannelScope,
		initialState: checkInitialCountByOrg,
		onEvent:      checkEachOrg,
		onError:      checkEachOrg,
	},
	ChannelScopeAnyForTx: {
		name:         ChannelScopeAnyForTx,
		scope:        ChannelScope,
		initialState: checkInitialCountTotal,
		onEvent:      passed,
		onError:      checkRemainingTotal,
	},
}

// FromName returns the built-in strategy with the given name
func FromName(name string) (Strategy, error) {
	s, ok := builtins[strings.ToUpper(name)]
	if !ok {
		return nil, status.New(status.ClientStatus, status.UnknownStrategy.ToInt32(), "unknown event handling strategy: "+name, nil)
	}
	return s, nil
}

// Names returns the names of the built-in strategies
func Names() []string {
	return []string{MSPIDScopeAllForTx, MSPIDScopeAnyForTx, ChannelScopeAllForTx, ChannelScopeAnyForTx}
}

// Default returns the default strategy (MSPID_SCOPE_ALLFORTX)
func Default() Strategy {
	return builtins[MSPIDScopeAllForTx]
}

// checkInitialCountByOrg requires at least one connected source per organization
func checkInitialCountByOrg(counts Counts) error {
	if counts.Len() == 0 {
		return status.New(status.ClientStatus, status.NoEventSources.ToInt32(), "no event hubs available", nil)
	}

	var missing []interface{}
	for _, org := range counts.Orgs() {
		if counts.Org(org).Initial < 1 {
			missing = append(missing, org)
		}
	}
	if len(missing) > 0 {
		return status.New(status.ClientStatus, status.InsufficientEventSources.ToInt32(),
			fmt.Sprintf("not enough connected event hubs to satisfy strategy: no connected event hubs for %v", missing), missing)
	}
	return nil
}

// checkInitialCountTotal requires at least one connected source
func checkInitialCountTotal(counts Counts) error {
	if counts.Total().Initial < 1 {
		return status.New(status.ClientStatus, status.InsufficientEventSources.ToInt32(), "not enough connected event hubs to satisfy strategy", nil)
	}
	return nil
}

func passed(string, Counts) Outcome {
	return Passed
}

// checkRemainingForOrg passes once every source of the organization has resolved and at
// least one of them was valid
func checkRemainingForOrg(mspID string, counts Counts) Outcome {
	count := counts.Org(mspID)
	if count.Remaining > 0 {
		return Pending
	}
	if count.Valid > 0 {
		return Passed
	}
	return Failed
}

// checkEachOrg passes once every organization has a valid event and fails as soon as an
// organization has no sources left without a valid event
func checkEachOrg(_ string, counts Counts) Outcome {
	outcome := Passed
	for _, org := range counts.Orgs() {
		count := counts.Org(org)
		if count.Valid > 0 {
			continue
		}
		if count.Remaining == 0 {
			return Failed
		}
		outcome = Pending
	}
	return outcome
}

// checkRemainingTotal fails once no source of any organization is left
func checkRemainingTotal(_ string, counts Counts) Outcome {
	if counts.Total().Remaining == 0 {
		return Failed
	}
	return Pending
}
