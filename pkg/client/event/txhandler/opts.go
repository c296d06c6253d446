/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txhandler

import (
	"time"

	"github.com/hyperledger/fabric-network-go/pkg/common/options"
)

// DefaultReconnectWait bounds the wait for event sources to reconnect when the
// connected sources cannot satisfy the strategy
const DefaultReconnectWait = 5 * time.Second

type params struct {
	reconnectWait time.Duration
}

func defaultParams() *params {
	return &params{reconnectWait: DefaultReconnectWait}
}

// WithReconnectWait sets the maximum time to wait for event sources to reconnect
func WithReconnectWait(value time.Duration) options.Opt {
	return func(p options.Params) {
		if setter, ok := p.(reconnectWaitSetter); ok {
			setter.SetReconnectWait(value)
		}
	}
}

type reconnectWaitSetter interface {
	SetReconnectWait(value time.Duration)
}

func (p *params) SetReconnectWait(value time.Duration) {
	logger.Debugf("ReconnectWait: %s", value)
	p.reconnectWait = value
}
