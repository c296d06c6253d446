/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package prometheus

import (
	kitmetrics "github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/prometheus"
	"github.com/hyperledger/fabric-network-go/pkg/common/metrics"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Provider creates prometheus backed instruments. Instruments are registered
// with Registerer, or with the prometheus default registerer when it is nil.
type Provider struct {
	Registerer prom.Registerer
}

func (p *Provider) registerer() prom.Registerer {
	if p.Registerer != nil {
		return p.Registerer
	}
	return prom.DefaultRegisterer
}

// NewCounter creates and registers a counter vector
func (p *Provider) NewCounter(o metrics.CounterOpts) metrics.Counter {
	cv := prom.NewCounterVec(
		prom.CounterOpts{
			Namespace: o.Namespace,
			Subsystem: o.Subsystem,
			Name:      o.Name,
			Help:      o.Help,
		},
		o.LabelNames,
	)
	p.registerer().MustRegister(cv)
	return &Counter{Counter: prometheus.NewCounter(cv)}
}

// NewGauge creates and registers a gauge vector
func (p *Provider) NewGauge(o metrics.GaugeOpts) metrics.Gauge {
	gv := prom.NewGaugeVec(
		prom.GaugeOpts{
			Namespace: o.Namespace,
			Subsystem: o.Subsystem,
			Name:      o.Name,
			Help:      o.Help,
		},
		o.LabelNames,
	)
	p.registerer().MustRegister(gv)
	return &Gauge{Gauge: prometheus.NewGauge(gv)}
}

// NewHistogram creates and registers a histogram vector
func (p *Provider) NewHistogram(o metrics.HistogramOpts) metrics.Histogram {
	hv := prom.NewHistogramVec(
		prom.HistogramOpts{
			Namespace: o.Namespace,
			Subsystem: o.Subsystem,
			Name:      o.Name,
			Help:      o.Help,
			Buckets:   o.Buckets,
		},
		o.LabelNames,
	)
	p.registerer().MustRegister(hv)
	return &Histogram{Histogram: prometheus.NewHistogram(hv)}
}

// Counter adapts a go-kit counter
type Counter struct{ kitmetrics.Counter }

// With returns a counter bound to the label values
func (c *Counter) With(labelValues ...string) metrics.Counter {
	return &Counter{Counter: c.Counter.With(labelValues...)}
}

// Gauge adapts a go-kit gauge
type Gauge struct{ kitmetrics.Gauge }

// With returns a gauge bound to the label values
func (g *Gauge) With(labelValues ...string) metrics.Gauge {
	return &Gauge{Gauge: g.Gauge.With(labelValues...)}
}

// Histogram adapts a go-kit histogram
type Histogram struct{ kitmetrics.Histogram }

// With returns a histogram bound to the label values
func (h *Histogram) With(labelValues ...string) metrics.Histogram {
	return &Histogram{Histogram: h.Histogram.With(labelValues...)}
}
