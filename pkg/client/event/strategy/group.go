/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package strategy

import (
	"sync"
)

// Count holds the event counts of one organization
type Count struct {
	// Initial is the number of sources connected when listening started
	Initial int
	// Remaining is the number of sources that have not yet delivered a result
	Remaining int
	// Valid is the number of sources that delivered a valid commit event
	Valid int
}

// Counts is an immutable view of the counts of an EventSourceGroup
type Counts struct {
	orgs  []string
	byOrg map[string]Count
}

// Orgs returns the organizations in the order they were added
func (c Counts) Orgs() []string {
	orgs := make([]string, len(c.orgs))
	copy(orgs, c.orgs)
	return orgs
}

// Org returns the counts of the given organization
func (c Counts) Org(mspID string) Count {
	return c.byOrg[mspID]
}

// Contains returns true if the organization is part of the group
func (c Counts) Contains(mspID string) bool {
	_, ok := c.byOrg[mspID]
	return ok
}

// Total returns the counts summed over all organizations
func (c Counts) Total() Count {
	var total Count
	for _, count := range c.byOrg {
		total.Initial += count.Initial
		total.Remaining += count.Remaining
		total.Valid += count.Valid
	}
	return total
}

// Len returns the number of organizations
func (c Counts) Len() int {
	return len(c.orgs)
}

// EventSourceGroup tracks the per-organization event counts of one transaction.
// All strategy evaluations happen under the group's lock.
type EventSourceGroup struct {
	mutex  sync.Mutex
	orgs   []string
	counts map[string]*Count
}

// NewEventSourceGroup returns a group containing the given organizations, each without
// connected sources
func NewEventSourceGroup(orgs ...string) *EventSourceGroup {
	g := &EventSourceGroup{counts: make(map[string]*Count)}
	for _, org := range orgs {
		g.addOrg(org)
	}
	return g
}

// AddSource records a connected source of the given organization
func (g *EventSourceGroup) AddSource(mspID string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	count := g.addOrg(mspID)
	count.Initial++
	count.Remaining++
}

// Snapshot returns a copy of the current counts
func (g *EventSourceGroup) Snapshot() Counts {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.snapshot()
}

// CheckInitialState evaluates the strategy precondition against the current counts
func (g *EventSourceGroup) CheckInitialState(s Strategy) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return s.CheckInitialState(g.snapshot())
}

// OnEvent records a valid commit event from a source of the given organization and
// returns the strategy outcome
func (g *EventSourceGroup) OnEvent(mspID string, s Strategy) Outcome {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if !g.resolve(mspID, true) {
		return Pending
	}
	return s.OnEvent(mspID, g.snapshot())
}

// OnError records the loss of a source of the given organization and returns the
// strategy outcome
func (g *EventSourceGroup) OnError(mspID string, s Strategy) Outcome {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if !g.resolve(mspID, false) {
		return Pending
	}
	return s.OnError(mspID, g.snapshot())
}

func (g *EventSourceGroup) resolve(mspID string, valid bool) bool {
	count, ok := g.counts[mspID]
	if !ok {
		logger.Warnf("Ignoring result from unknown organization [%s]", mspID)
		return false
	}
	if count.Remaining == 0 {
		logger.Warnf("Ignoring result from organization [%s] since all of its sources have already been resolved", mspID)
		return false
	}

	count.Remaining--
	if valid {
		count.Valid++
	}
	return true
}

func (g *EventSourceGroup) addOrg(mspID string) *Count {
	count, ok := g.counts[mspID]
	if !ok {
		count = &Count{}
		g.counts[mspID] = count
		g.orgs = append(g.orgs, mspID)
	}
	return count
}

func (g *EventSourceGroup) snapshot() Counts {
	c := Counts{
		orgs:  make([]string, len(g.orgs)),
		byOrg: make(map[string]Count, len(g.counts)),
	}
	copy(c.orgs, g.orgs)
	for org, count := range g.counts {
		c.byOrg[org] = *count
	}
	return c
}
