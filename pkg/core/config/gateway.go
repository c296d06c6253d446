/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"strings"
	"time"

	"github.com/hyperledger/fabric-network-go/pkg/common/logging"
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/core"
	"github.com/hyperledger/fabric-network-go/pkg/core/config/lookup"
	"github.com/pkg/errors"
)

var logger = logging.NewLogger("fabnet/core")

const (
	// DefaultCommitTimeout is how long a submitted transaction waits for commit events
	DefaultCommitTimeout = 300 * time.Second
	// DefaultConnectTimeout bounds a single event source connect attempt
	DefaultConnectTimeout = 10 * time.Second
	// DefaultEventStrategy is the event strategy used when none is configured
	DefaultEventStrategy = "MSPID_SCOPE_ALLFORTX"
)

const (
	keyOrganization     = "client.organization"
	keyCommitTimeout    = "gateway.commitTimeout"
	keyEventStrategy    = "gateway.eventStrategy"
	keyConnectTimeout   = "gateway.connectTimeout"
	keyDiscoveryEnabled = "gateway.discovery.enabled"
	keyAsLocalhost      = "gateway.discovery.asLocalhost"
	keyCheckEventHubs   = "gateway.checkEventHubs"
	keyUseFullBlocks    = "gateway.useFullBlocks"
	keyCustomStrategies = "gateway.customStrategies"
)

// CustomStrategyConfig describes an expression based event strategy.
// Scope is "org" or "channel"; Pass and Fail are boolean expressions over
// the event counts of the transaction.
type CustomStrategyConfig struct {
	Scope string
	Pass  string
	Fail  string
}

// GatewayConfig holds the settings that drive transaction submission and evaluation
type GatewayConfig struct {
	Organization     string
	CommitTimeout    time.Duration
	EventStrategy    string
	ConnectTimeout   time.Duration
	DiscoveryEnabled bool
	AsLocalhost      bool
	CheckEventHubs   bool
	UseFullBlocks    bool
	CustomStrategies map[string]CustomStrategyConfig
}

// DefaultGatewayConfig returns the settings used when nothing is configured
func DefaultGatewayConfig() *GatewayConfig {
	return &GatewayConfig{
		CommitTimeout:  DefaultCommitTimeout,
		EventStrategy:  DefaultEventStrategy,
		ConnectTimeout: DefaultConnectTimeout,
		CheckEventHubs: true,
	}
}

// GatewayConfigFromBackend reads gateway settings from the given backends.
// Keys that are not present keep their default value.
func GatewayConfigFromBackend(backends ...core.ConfigBackend) (*GatewayConfig, error) {
	cfg := DefaultGatewayConfig()
	l := lookup.New(backends...)

	var err error
	if cfg.CommitTimeout, err = l.PositiveDuration(keyCommitTimeout, cfg.CommitTimeout); err != nil {
		return nil, err
	}
	if cfg.ConnectTimeout, err = l.PositiveDuration(keyConnectTimeout, cfg.ConnectTimeout); err != nil {
		return nil, err
	}

	cfg.Organization = l.StringOr(keyOrganization, cfg.Organization)
	cfg.EventStrategy = strings.ToUpper(l.StringOr(keyEventStrategy, cfg.EventStrategy))
	cfg.CheckEventHubs = l.BoolOr(keyCheckEventHubs, cfg.CheckEventHubs)
	cfg.DiscoveryEnabled = l.GetBool(keyDiscoveryEnabled)
	cfg.AsLocalhost = l.GetBool(keyAsLocalhost)
	cfg.UseFullBlocks = l.GetBool(keyUseFullBlocks)

	strategies := make(map[string]CustomStrategyConfig)
	if err = l.UnmarshalKey(keyCustomStrategies, &strategies); err != nil {
		return nil, errors.WithMessage(err, "failed to unmarshal custom strategies")
	}
	if len(strategies) > 0 {
		cfg.CustomStrategies = make(map[string]CustomStrategyConfig, len(strategies))
		for name, s := range strategies {
			if s.Pass == "" {
				return nil, errors.Errorf("custom strategy [%s] has no pass expression", name)
			}
			cfg.CustomStrategies[strings.ToUpper(name)] = s
		}
	}

	logger.Debugf("gateway config: strategy [%s], commit timeout [%s], connect timeout [%s]",
		cfg.EventStrategy, cfg.CommitTimeout, cfg.ConnectTimeout)

	return cfg, nil
}
