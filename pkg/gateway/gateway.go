/*
Copyright 2020 IBM All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hyperledger/fabric-network-go/pkg/client/event/strategy"
	"github.com/hyperledger/fabric-network-go/pkg/client/metrics"
	"github.com/hyperledger/fabric-network-go/pkg/common/logging"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	"github.com/hyperledger/fabric-network-go/pkg/core/config"
	"github.com/pkg/errors"
)

var logger = logging.NewLogger("fabnet/gateway")

// Gateway is the entry point to a Fabric network
type Gateway struct {
	client   fab.Client
	identity fab.IdentityContext
	options  *gatewayOptions
	cfg      *config.GatewayConfig
	strategy strategy.Strategy
	metrics  *metrics.ClientMetrics

	mutex    sync.Mutex
	networks map[string]*Network
	closed   bool
}

// Connect to a gateway using the channel client and identity of the calling user.
// Zero or more options configure how transactions are submitted and evaluated.
func Connect(client fab.Client, identity fab.IdentityContext, options ...Option) (*Gateway, error) {
	if client == nil {
		return nil, errors.New("client is required")
	}
	if identity == nil {
		return nil, errors.New("identity is required")
	}

	gw := &Gateway{
		client:   client,
		identity: identity,
		options:  &gatewayOptions{},
		networks: make(map[string]*Network),
	}

	for _, option := range options {
		if err := option(gw.options); err != nil {
			return nil, errors.Wrap(err, "Failed to apply gateway option")
		}
	}

	if err := gw.loadConfig(); err != nil {
		return nil, err
	}

	s, err := resolveStrategy(gw.options.strategy, gw.cfg)
	if err != nil {
		return nil, err
	}
	gw.strategy = s

	logger.Debugf("Connected gateway for [%s] with strategy [%s]", gw.mspID(), gw.strategy.Name())

	return gw, nil
}

func (gw *Gateway) loadConfig() error {
	gw.cfg = config.DefaultGatewayConfig()
	metricsCfg := &metrics.MetricConfig{Provider: metrics.DisabledProvider}

	if gw.options.configProvider != nil {
		backends, err := gw.options.configProvider()
		if err != nil {
			return errors.WithMessage(err, "Failed to load gateway config")
		}
		if gw.cfg, err = config.GatewayConfigFromBackend(backends...); err != nil {
			return errors.WithMessage(err, "Failed to read gateway config")
		}
		if metricsCfg, err = metrics.ConfigFromBackend(backends...); err != nil {
			return errors.WithMessage(err, "Failed to read metrics config")
		}
	}

	for _, override := range gw.options.overrides {
		override(gw.cfg)
	}

	provider := gw.options.metricsProvider
	if provider == nil {
		provider = metrics.NewProvider(metricsCfg)
	}
	gw.metrics = metrics.NewClientMetrics(provider)

	return nil
}

// resolveStrategy prefers an explicit strategy, then a configured custom strategy and
// finally a built-in one with the configured name
func resolveStrategy(explicit strategy.Strategy, cfg *config.GatewayConfig) (strategy.Strategy, error) {
	if explicit != nil {
		return explicit, nil
	}

	if custom, ok := cfg.CustomStrategies[cfg.EventStrategy]; ok {
		scope, err := strategy.ParseScope(custom.Scope)
		if err != nil {
			return nil, errors.WithMessage(err, fmt.Sprintf("invalid scope for strategy [%s]", cfg.EventStrategy))
		}
		return strategy.NewExpressionStrategy(cfg.EventStrategy, scope, custom.Pass, custom.Fail)
	}

	return strategy.FromName(cfg.EventStrategy)
}

// Config returns the effective gateway settings
func (gw *Gateway) Config() config.GatewayConfig {
	return *gw.cfg
}

// Strategy returns the event strategy used for submitted transactions
func (gw *Gateway) Strategy() strategy.Strategy {
	return gw.strategy
}

// GetNetwork returns the network (channel) with the given name. The network is
// initialized on first use and shared by subsequent calls.
func (gw *Gateway) GetNetwork(name string) (*Network, error) {
	gw.mutex.Lock()
	defer gw.mutex.Unlock()

	if gw.closed {
		return nil, errors.New("gateway is closed")
	}

	if network, ok := gw.networks[name]; ok {
		return network, nil
	}

	channel, err := gw.client.Channel(name)
	if err != nil {
		return nil, errors.WithMessage(err, fmt.Sprintf("Failed to get channel [%s]", name))
	}

	ctx, cancel := context.WithTimeout(context.Background(), gw.initTimeout())
	defer cancel()

	network, err := newNetwork(ctx, gw, channel)
	if err != nil {
		return nil, err
	}

	gw.registerHealthCheck(network)
	gw.networks[name] = network

	return network, nil
}

// initTimeout allows every event source of a network to make one connection attempt
func (gw *Gateway) initTimeout() time.Duration {
	return gw.cfg.CommitTimeout + gw.cfg.ConnectTimeout
}

func (gw *Gateway) registerHealthCheck(network *Network) {
	if gw.options.healthRegistry == nil {
		return
	}

	component := "gateway." + network.Name()
	if err := gw.options.healthRegistry.RegisterChecker(component, network.factory); err != nil {
		logger.Warnf("Unable to register health checker [%s]: %s", component, err)
	}
}

func (gw *Gateway) mspID() string {
	if mspID := gw.identity.MSPID(); mspID != "" {
		return mspID
	}
	return gw.cfg.Organization
}

// Close disconnects the event sources of every network obtained from this gateway.
// The gateway cannot be used afterwards.
func (gw *Gateway) Close() {
	gw.mutex.Lock()
	defer gw.mutex.Unlock()

	gw.closed = true
	for name, network := range gw.networks {
		network.dispose()
		delete(gw.networks, name)
	}
}

func errInvalidTimeout(kind string, timeout time.Duration) error {
	return errors.Errorf("%s timeout must be positive: %s", kind, timeout)
}
