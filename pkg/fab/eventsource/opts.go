/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package eventsource

import (
	"time"

	"github.com/hyperledger/fabric-network-go/pkg/common/errors/retry"
	"github.com/hyperledger/fabric-network-go/pkg/common/options"
)

const (
	// DefaultConnectTimeout bounds a single connect (including retries)
	DefaultConnectTimeout = 10 * time.Second
)

type params struct {
	connectTimeout time.Duration
	fullBlocks     bool
	retryOpts      retry.Opts
}

func defaultParams() *params {
	return &params{
		connectTimeout: DefaultConnectTimeout,
		retryOpts:      retry.DefaultOpts,
	}
}

// WithConnectTimeout sets the upper bound for establishing the event stream
func WithConnectTimeout(value time.Duration) options.Opt {
	return func(p options.Params) {
		if setter, ok := p.(connectTimeoutSetter); ok {
			setter.SetConnectTimeout(value)
		}
	}
}

// WithFullBlocks requests full blocks instead of filtered blocks from the peer.
// The caller must have sufficient privileges for this option.
func WithFullBlocks(value bool) options.Opt {
	return func(p options.Params) {
		if setter, ok := p.(fullBlocksSetter); ok {
			setter.SetFullBlocks(value)
		}
	}
}

// WithRetryOpts sets the retry options used while connecting
func WithRetryOpts(value retry.Opts) options.Opt {
	return func(p options.Params) {
		if setter, ok := p.(retryOptsSetter); ok {
			setter.SetRetryOpts(value)
		}
	}
}

type connectTimeoutSetter interface {
	SetConnectTimeout(value time.Duration)
}

type fullBlocksSetter interface {
	SetFullBlocks(value bool)
}

type retryOptsSetter interface {
	SetRetryOpts(value retry.Opts)
}

func (p *params) SetConnectTimeout(value time.Duration) {
	if value <= 0 {
		logger.Warnf("Ignoring invalid connect timeout: %s", value)
		return
	}
	logger.Debugf("ConnectTimeout: %s", value)
	p.connectTimeout = value
}

func (p *params) SetFullBlocks(value bool) {
	logger.Debugf("FullBlocks: %t", value)
	p.fullBlocks = value
}

func (p *params) SetRetryOpts(value retry.Opts) {
	logger.Debugf("RetryOpts: %#v", value)
	p.retryOpts = value
}
