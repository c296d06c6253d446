/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package query

import (
	"github.com/hyperledger/fabric-network-go/pkg/common/options"
)

// FailoverHandler is invoked when a peer could not serve a query
type FailoverHandler func(peerURL string, err error)

type params struct {
	onFailover FailoverHandler
}

func defaultParams() *params {
	return &params{
		onFailover: func(string, error) {},
	}
}

// WithFailoverHandler sets a function that is called whenever a query fails over to
// another peer
func WithFailoverHandler(value FailoverHandler) options.Opt {
	return func(p options.Params) {
		if setter, ok := p.(failoverHandlerSetter); ok {
			setter.SetFailoverHandler(value)
		}
	}
}

type failoverHandlerSetter interface {
	SetFailoverHandler(value FailoverHandler)
}

func (p *params) SetFailoverHandler(value FailoverHandler) {
	if value == nil {
		return
	}
	p.onFailover = value
}
