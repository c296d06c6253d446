/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package strategy

import (
	"sync"
	"testing"

	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	org1 = "Org1MSP"
	org2 = "Org2MSP"
)

func newGroup(sources ...string) *EventSourceGroup {
	g := NewEventSourceGroup()
	for _, mspID := range sources {
		g.AddSource(mspID)
	}
	return g
}

func mustFromName(t *testing.T, name string) Strategy {
	s, err := FromName(name)
	require.NoError(t, err)
	require.Equal(t, name, s.Name())
	return s
}

func TestFromName(t *testing.T) {
	for _, name := range Names() {
		mustFromName(t, name)
	}

	s, err := FromName("channel_scope_anyfortx")
	require.NoError(t, err)
	assert.Equal(t, ChannelScopeAnyForTx, s.Name())

	_, err = FromName("FOO")
	require.Error(t, err)
	assert.True(t, status.IsClientCode(err, status.UnknownStrategy))
	assert.Contains(t, err.Error(), "unknown event handling strategy: FOO")

	assert.Equal(t, MSPIDScopeAllForTx, Default().Name())
}

func TestScopes(t *testing.T) {
	assert.Equal(t, OrgScope, mustFromName(t, MSPIDScopeAllForTx).Scope())
	assert.Equal(t, OrgScope, mustFromName(t, MSPIDScopeAnyForTx).Scope())
	assert.Equal(t, ChannelScope, mustFromName(t, ChannelScopeAllForTx).Scope())
	assert.Equal(t, ChannelScope, mustFromName(t, ChannelScopeAnyForTx).Scope())

	scope, err := ParseScope("Channel")
	require.NoError(t, err)
	assert.Equal(t, ChannelScope, scope)
	scope, err = ParseScope("mspid")
	require.NoError(t, err)
	assert.Equal(t, OrgScope, scope)
	_, err = ParseScope("planet")
	assert.Error(t, err)
}

func TestCheckInitialState(t *testing.T) {
	byOrg := []string{MSPIDScopeAllForTx, MSPIDScopeAnyForTx, ChannelScopeAllForTx}

	for _, name := range byOrg {
		s := mustFromName(t, name)

		err := NewEventSourceGroup().CheckInitialState(s)
		assert.True(t, status.IsClientCode(err, status.NoEventSources), name)

		err = NewEventSourceGroup(org1).CheckInitialState(s)
		assert.True(t, status.IsClientCode(err, status.InsufficientEventSources), name)

		assert.NoError(t, newGroup(org1).CheckInitialState(s), name)
	}

	// Channel scope requires a source for every organization
	g := NewEventSourceGroup(org1, org2)
	g.AddSource(org1)
	err := g.CheckInitialState(mustFromName(t, ChannelScopeAllForTx))
	require.Error(t, err)
	assert.True(t, status.IsClientCode(err, status.InsufficientEventSources))
	assert.Contains(t, err.Error(), org2)

	// ... but a single source is enough for any-for-tx
	assert.NoError(t, g.CheckInitialState(mustFromName(t, ChannelScopeAnyForTx)))
	err = NewEventSourceGroup(org1, org2).CheckInitialState(mustFromName(t, ChannelScopeAnyForTx))
	assert.True(t, status.IsClientCode(err, status.InsufficientEventSources))
}

func TestMSPIDScopeAllForTx(t *testing.T) {
	s := mustFromName(t, MSPIDScopeAllForTx)

	t.Run("all valid", func(t *testing.T) {
		g := newGroup(org1, org1)
		assert.Equal(t, Pending, g.OnEvent(org1, s))
		assert.Equal(t, 1, g.Snapshot().Org(org1).Remaining)
		assert.Equal(t, Passed, g.OnEvent(org1, s))
	})

	t.Run("second source errors", func(t *testing.T) {
		g := newGroup(org1, org1)
		assert.Equal(t, Pending, g.OnEvent(org1, s))
		assert.Equal(t, Passed, g.OnError(org1, s))
	})

	t.Run("all sources error", func(t *testing.T) {
		g := newGroup(org1, org1)
		assert.Equal(t, Pending, g.OnError(org1, s))
		assert.Equal(t, Failed, g.OnError(org1, s))
	})
}

func TestMSPIDScopeAnyForTx(t *testing.T) {
	s := mustFromName(t, MSPIDScopeAnyForTx)

	g := newGroup(org1, org1)
	assert.Equal(t, Passed, g.OnEvent(org1, s))

	g = newGroup(org1, org1)
	assert.Equal(t, Pending, g.OnError(org1, s))
	assert.Equal(t, Failed, g.OnError(org1, s))
}

func TestChannelScopeAllForTx(t *testing.T) {
	s := mustFromName(t, ChannelScopeAllForTx)

	t.Run("valid event from each org", func(t *testing.T) {
		g := newGroup(org1, org2, org2)
		assert.Equal(t, Pending, g.OnEvent(org2, s))
		assert.Equal(t, Passed, g.OnEvent(org1, s))
	})

	t.Run("org loses all sources", func(t *testing.T) {
		g := newGroup(org1, org2)
		assert.Equal(t, Pending, g.OnEvent(org1, s))
		assert.Equal(t, Failed, g.OnError(org2, s))
	})

	t.Run("org recovers after error", func(t *testing.T) {
		g := newGroup(org1, org2, org2)
		assert.Equal(t, Pending, g.OnError(org2, s))
		assert.Equal(t, Pending, g.OnEvent(org2, s))
		assert.Equal(t, Passed, g.OnEvent(org1, s))
	})
}

func TestChannelScopeAnyForTx(t *testing.T) {
	s := mustFromName(t, ChannelScopeAnyForTx)

	g := newGroup(org1, org2)
	assert.Equal(t, Passed, g.OnEvent(org2, s))

	g = newGroup(org1, org2)
	assert.Equal(t, Pending, g.OnError(org1, s))
	assert.Equal(t, Failed, g.OnError(org2, s))
}

func TestRemainingNeverNegative(t *testing.T) {
	s := mustFromName(t, MSPIDScopeAllForTx)

	g := newGroup(org1)
	assert.Equal(t, Passed, g.OnEvent(org1, s))
	assert.Equal(t, Pending, g.OnEvent(org1, s), "late results are discarded")
	assert.Equal(t, Pending, g.OnError(org1, s), "late results are discarded")
	assert.Equal(t, Pending, g.OnEvent(org2, s), "unknown organizations are ignored")

	count := g.Snapshot().Org(org1)
	assert.Equal(t, Count{Initial: 1, Remaining: 0, Valid: 1}, count)
}

func TestOrderIndependence(t *testing.T) {
	s := mustFromName(t, ChannelScopeAllForTx)

	const sources = 50
	g := NewEventSourceGroup()
	for i := 0; i < sources; i++ {
		g.AddSource(org1)
		g.AddSource(org2)
	}

	var passedCount int
	var mutex sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < sources; i++ {
		for _, org := range []string{org1, org2} {
			wg.Add(1)
			go func(org string) {
				defer wg.Done()
				if g.OnEvent(org, s) == Passed {
					mutex.Lock()
					passedCount++
					mutex.Unlock()
				}
			}(org)
		}
	}
	wg.Wait()

	total := g.Snapshot().Total()
	assert.Equal(t, 0, total.Remaining)
	assert.Equal(t, 2*sources, total.Valid)
	assert.True(t, passedCount > 0)
}

func TestCounts(t *testing.T) {
	g := NewEventSourceGroup(org2)
	g.AddSource(org1)
	g.AddSource(org1)

	c := g.Snapshot()
	assert.Equal(t, []string{org2, org1}, c.Orgs())
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Contains(org2))
	assert.False(t, c.Contains("Org3MSP"))
	assert.Equal(t, Count{Initial: 2, Remaining: 2}, c.Total())

	// Snapshots are not affected by later results
	g.OnEvent(org1, Default())
	assert.Equal(t, 2, c.Org(org1).Remaining)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "PENDING", Pending.String())
	assert.Equal(t, "PASSED", Passed.String())
	assert.Equal(t, "FAILED", Failed.String())
	assert.Equal(t, "org", OrgScope.String())
	assert.Equal(t, "channel", ChannelScope.String())
}
