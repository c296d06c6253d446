/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type nameSetter interface {
	SetName(value string)
}

type params struct {
	name string
}

func (p *params) SetName(value string) {
	p.name = value
}

func withName(value string) Opt {
	return func(p Params) {
		if setter, ok := p.(nameSetter); ok {
			setter.SetName(value)
		}
	}
}

func TestApply(t *testing.T) {
	p := &params{}
	Apply(p, []Opt{nil, withName("peer0")})
	assert.Equal(t, "peer0", p.name)

	other := struct{}{}
	Apply(other, []Opt{withName("ignored")})
}
