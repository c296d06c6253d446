/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package disabled

import (
	"github.com/hyperledger/fabric-network-go/pkg/common/metrics"
)

// Provider is a metrics.Provider whose instruments discard every observation.
type Provider struct{}

// NewCounter returns a no-op counter
func (p *Provider) NewCounter(o metrics.CounterOpts) metrics.Counter { return &Counter{} }

// NewGauge returns a no-op gauge
func (p *Provider) NewGauge(o metrics.GaugeOpts) metrics.Gauge { return &Gauge{} }

// NewHistogram returns a no-op histogram
func (p *Provider) NewHistogram(o metrics.HistogramOpts) metrics.Histogram { return &Histogram{} }

// Counter discards additions
type Counter struct{}

// Add is a no-op
func (c *Counter) Add(delta float64) {}

// With returns the same counter
func (c *Counter) With(labelValues ...string) metrics.Counter {
	return c
}

// Gauge discards updates
type Gauge struct{}

// Add is a no-op
func (g *Gauge) Add(delta float64) {}

// Set is a no-op
func (g *Gauge) Set(delta float64) {}

// With returns the same gauge
func (g *Gauge) With(labelValues ...string) metrics.Gauge {
	return g
}

// Histogram discards observations
type Histogram struct{}

// Observe is a no-op
func (h *Histogram) Observe(value float64) {}

// With returns the same histogram
func (h *Histogram) With(labelValues ...string) metrics.Histogram {
	return h
}
