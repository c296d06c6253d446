/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"strings"

	"github.com/hyperledger/fabric-network-go/pkg/common/metrics"
	"github.com/hyperledger/fabric-network-go/pkg/common/metrics/disabled"
	"github.com/hyperledger/fabric-network-go/pkg/common/metrics/prometheus"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/core"
	"github.com/hyperledger/fabric-network-go/pkg/core/config/lookup"
	"github.com/pkg/errors"
)

const (
	// PrometheusProvider records metrics in the prometheus default registry
	PrometheusProvider = "prometheus"
	// DisabledProvider discards all metrics
	DisabledProvider = "disabled"
)

// MetricConfig selects the metrics provider
type MetricConfig struct {
	// Provider : prometheus or disabled
	Provider string
}

// ConfigFromBackend reads the "metrics" section of the given backends. The disabled
// provider is selected when nothing is configured.
func ConfigFromBackend(coreBackend ...core.ConfigBackend) (*MetricConfig, error) {
	backend := lookup.New(coreBackend...)

	cfg := &MetricConfig{Provider: strings.ToLower(backend.StringOr("metrics.provider", DisabledProvider))}

	switch cfg.Provider {
	case PrometheusProvider, DisabledProvider:
		return cfg, nil
	default:
		return nil, errors.Errorf("unsupported metrics provider [%s]", cfg.Provider)
	}
}

// NewProvider returns the metrics provider named by the config
func NewProvider(cfg *MetricConfig) metrics.Provider {
	if cfg != nil && strings.EqualFold(cfg.Provider, PrometheusProvider) {
		return &prometheus.Provider{}
	}
	return &disabled.Provider{}
}
