/*
Copyright 2020 IBM All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/hyperledger/fabric-lib-go/healthz"
	"github.com/hyperledger/fabric-network-go/pkg/client/event/strategy"
	"github.com/hyperledger/fabric-network-go/pkg/client/query"
	"github.com/hyperledger/fabric-network-go/pkg/common/metrics"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/core"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/fab"
	"github.com/hyperledger/fabric-network-go/pkg/core/config"
)

// HealthRegistry accepts health checkers, such as the handler returned by healthz.NewHealthHandler
type HealthRegistry interface {
	RegisterChecker(component string, checker healthz.HealthChecker) error
}

type gatewayOptions struct {
	configProvider      core.ConfigProvider
	overrides           []func(cfg *config.GatewayConfig)
	strategy            strategy.Strategy
	queryHandlerFactory query.Factory
	metricsProvider     metrics.Provider
	healthRegistry      HealthRegistry
	compareLocally      bool
}

// Option functional arguments can be supplied when connecting to the gateway.
type Option = func(*gatewayOptions) error

// WithConfig configures the gateway from a config provider, such as config.FromFile.
// Options that set individual values take precedence over the config.
func WithConfig(provider core.ConfigProvider) Option {
	return func(o *gatewayOptions) error {
		o.configProvider = provider
		return nil
	}
}

// WithCommitTimeout sets how long a submitted transaction waits for its commit events
func WithCommitTimeout(timeout time.Duration) Option {
	return func(o *gatewayOptions) error {
		if timeout <= 0 {
			return errInvalidTimeout("commit", timeout)
		}
		o.override(func(cfg *config.GatewayConfig) { cfg.CommitTimeout = timeout })
		return nil
	}
}

// WithConnectTimeout bounds the connection attempt of a single event source
func WithConnectTimeout(timeout time.Duration) Option {
	return func(o *gatewayOptions) error {
		if timeout <= 0 {
			return errInvalidTimeout("connect", timeout)
		}
		o.override(func(cfg *config.GatewayConfig) { cfg.ConnectTimeout = timeout })
		return nil
	}
}

// WithEventStrategy selects a built-in or configured custom event strategy by name
func WithEventStrategy(name string) Option {
	return func(o *gatewayOptions) error {
		o.override(func(cfg *config.GatewayConfig) { cfg.EventStrategy = strings.ToUpper(name) })
		return nil
	}
}

// WithStrategy sets the event strategy used for every submitted transaction,
// taking precedence over any named strategy.
func WithStrategy(s strategy.Strategy) Option {
	return func(o *gatewayOptions) error {
		o.strategy = s
		return nil
	}
}

// WithQueryHandlerFactory replaces the factory that creates the query handler of each network
func WithQueryHandlerFactory(factory query.Factory) Option {
	return func(o *gatewayOptions) error {
		o.queryHandlerFactory = factory
		return nil
	}
}

// WithDiscovery enables or disables service discovery when a network is initialized
func WithDiscovery(discovery bool) Option {
	return func(o *gatewayOptions) error {
		o.override(func(cfg *config.GatewayConfig) { cfg.DiscoveryEnabled = discovery })
		return nil
	}
}

// WithAsLocalhost maps discovered peer addresses to localhost
func WithAsLocalhost(asLocalhost bool) Option {
	return func(o *gatewayOptions) error {
		o.override(func(cfg *config.GatewayConfig) { cfg.AsLocalhost = asLocalhost })
		return nil
	}
}

// WithCheckEventHubs enables or disables the reconnect sweep of event sources before
// each submission
func WithCheckEventHubs(check bool) Option {
	return func(o *gatewayOptions) error {
		o.override(func(cfg *config.GatewayConfig) { cfg.CheckEventHubs = check })
		return nil
	}
}

// WithMetricsProvider sets the provider of the gateway metrics
func WithMetricsProvider(provider metrics.Provider) Option {
	return func(o *gatewayOptions) error {
		o.metricsProvider = provider
		return nil
	}
}

// WithHealthHandler registers a health checker for the event sources of every network
func WithHealthHandler(registry HealthRegistry) Option {
	return func(o *gatewayOptions) error {
		o.healthRegistry = registry
		return nil
	}
}

// WithLocalResultsComparison compares endorsement results without consulting the channel
func WithLocalResultsComparison() Option {
	return func(o *gatewayOptions) error {
		o.compareLocally = true
		return nil
	}
}

func (o *gatewayOptions) override(fn func(cfg *config.GatewayConfig)) {
	o.overrides = append(o.overrides, fn)
}

// TransactionOption functional arguments can be supplied when creating a transaction object
type TransactionOption = func(*Transaction) error

// WithTransient is an optional argument to the CreateTransaction method which
// sets the transient data that will be passed to the transaction function
// but will not be stored on the ledger. This can be used to pass
// private data to a transaction function.
func WithTransient(data map[string][]byte) TransactionOption {
	return func(txn *Transaction) error {
		txn.request.TransientMap = data
		return nil
	}
}

// WithTransactionID submits the transaction under a previously created transaction ID
func WithTransactionID(txID fab.TransactionID) TransactionOption {
	return func(txn *Transaction) error {
		txn.request.TxnID = txID
		return nil
	}
}

// WithCommitStrategy overrides the gateway event strategy for a single submission
func WithCommitStrategy(s strategy.Strategy) TransactionOption {
	return func(txn *Transaction) error {
		txn.strategy = s
		return nil
	}
}

// WithTimeout overrides the gateway commit timeout for a single submission
func WithTimeout(timeout time.Duration) TransactionOption {
	return func(txn *Transaction) error {
		if timeout <= 0 {
			return errInvalidTimeout("commit", timeout)
		}
		txn.commitTimeout = timeout
		return nil
	}
}

// WithContext sets the context that bounds endorsement, ordering and the commit wait
func WithContext(ctx context.Context) TransactionOption {
	return func(txn *Transaction) error {
		txn.ctx = ctx
		return nil
	}
}
