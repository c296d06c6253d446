/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package options applies functional options to parameter holders that
// expose setter interfaces. An option silently ignores a Params value that
// does not implement the setter it needs.
package options

// Params represents a construct that holds
// a set of parameters
type Params interface{}

// Opt is an option that is applied to Params
type Opt func(opts Params)

// Apply applies the given options to the given Params
func Apply(params Params, opts []Opt) {
	for _, opt := range opts {
		if opt != nil {
			opt(params)
		}
	}
}
