/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package lookup reads typed gateway settings from an ordered list of config backends.
// The first backend holding a key wins.
package lookup

import (
	"time"

	"github.com/hyperledger/fabric-network-go/pkg/common/providers/core"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// ConfigLookup resolves keys against a list of backends
type ConfigLookup struct {
	backends []core.ConfigBackend
}

// New returns a lookup over the given backends. Nil backends are skipped.
func New(backends ...core.ConfigBackend) *ConfigLookup {
	return &ConfigLookup{backends: backends}
}

// Lookup returns the raw value of key from the first backend that has it
func (c *ConfigLookup) Lookup(key string) (interface{}, bool) {
	for _, backend := range c.backends {
		if backend == nil {
			continue
		}
		if val, ok := backend.Lookup(key); ok {
			return val, true
		}
	}
	return nil, false
}

// GetBool returns the bool value of key, false if absent
func (c *ConfigLookup) GetBool(key string) bool {
	return c.BoolOr(key, false)
}

// GetString returns the string value of key, "" if absent
func (c *ConfigLookup) GetString(key string) string {
	return c.StringOr(key, "")
}

// BoolOr returns the bool value of key or def if the key is absent
func (c *ConfigLookup) BoolOr(key string, def bool) bool {
	value, ok := c.Lookup(key)
	if !ok {
		return def
	}
	return cast.ToBool(value)
}

// StringOr returns the string value of key or def if the key is absent
func (c *ConfigLookup) StringOr(key, def string) string {
	value, ok := c.Lookup(key)
	if !ok {
		return def
	}
	return cast.ToString(value)
}

// PositiveDuration returns the duration value of key or def if the key is absent.
// Values that do not parse or are not positive are rejected.
func (c *ConfigLookup) PositiveDuration(key string, def time.Duration) (time.Duration, error) {
	value, ok := c.Lookup(key)
	if !ok {
		return def, nil
	}

	d, err := cast.ToDurationE(value)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid duration for %s", key)
	}
	if d <= 0 {
		return 0, errors.Errorf("%s must be positive", key)
	}
	return d, nil
}

// UnmarshalKey decodes the value of key into rawVal. Duration strings are converted
// and fields that rawVal does not declare are rejected, so that a misspelt setting
// is reported instead of silently ignored. Nothing is decoded if the key is absent.
func (c *ConfigLookup) UnmarshalKey(key string, rawVal interface{}) error {
	value, ok := c.Lookup(key)
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      rawVal,
	})
	if err != nil {
		return errors.Wrapf(err, "unable to create decoder for %s", key)
	}

	if err := decoder.Decode(value); err != nil {
		return errors.Wrapf(err, "unable to decode %s", key)
	}
	return nil
}
