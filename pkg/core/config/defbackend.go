/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"github.com/hyperledger/fabric-network-go/pkg/common/providers/core"
	"github.com/spf13/viper"
)

// defConfigBackend represents the default config backend
type defConfigBackend struct {
	configViper *viper.Viper
	opts        options
}

// Lookup gets the config item value by Key
func (c *defConfigBackend) Lookup(key string, opts ...core.LookupOption) (interface{}, bool) {
	if len(opts) > 0 {
		lookupOpts := &core.LookupOpts{}
		for _, option := range opts {
			option(lookupOpts)
		}

		if lookupOpts.UnmarshalType != nil {
			err := c.configViper.UnmarshalKey(key, lookupOpts.UnmarshalType)
			if err != nil {
				logger.Debugf("unable to unmarshal key [%s]: %s", key, err)
				return nil, false
			}
			return lookupOpts.UnmarshalType, true
		}
	}
	value := c.configViper.Get(key)
	if value == nil {
		return nil, false
	}
	return value, true
}
