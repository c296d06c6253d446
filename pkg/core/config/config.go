/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"bytes"
	"io"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/hyperledger/fabric-network-go/pkg/common/logging"
	"github.com/pkg/errors"

	"github.com/hyperledger/fabric-network-go/pkg/common/providers/core"
	"github.com/hyperledger/fabric-network-go/pkg/core/logging/gologging"
)

var logModules = [...]string{"fabnet", "fabnet/client", "fabnet/core", "fabnet/fab", "fabnet/common",
	"fabnet/gateway"}

type options struct {
	envPrefix string
}

const (
	cmdRoot = "FABRIC_NETWORK"
)

// Option configures the package.
type Option func(opts *options) error

// FromReader loads configuration from in.
// configType can be "json" or "yaml".
func FromReader(in io.Reader, configType string, opts ...Option) core.ConfigProvider {
	return func() ([]core.ConfigBackend, error) {
		return initFromReader(in, configType, opts...)
	}
}

// FromFile reads from named config file
func FromFile(name string, opts ...Option) core.ConfigProvider {
	return func() ([]core.ConfigBackend, error) {
		backend, err := newBackend(opts...)
		if err != nil {
			return nil, err
		}

		if name == "" {
			return nil, errors.New("filename is required")
		}

		backend.configViper.SetConfigFile(name)

		err = backend.configViper.MergeInConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "loading config file failed: %s", name)
		}

		if err := setLogLevel(backend); err != nil {
			return nil, err
		}

		return []core.ConfigBackend{backend}, nil
	}
}

// FromRaw will initialize the configs from a byte array
func FromRaw(configBytes []byte, configType string, opts ...Option) core.ConfigProvider {
	return func() ([]core.ConfigBackend, error) {
		buf := bytes.NewBuffer(configBytes)
		return initFromReader(buf, configType, opts...)
	}
}

func initFromReader(in io.Reader, configType string, opts ...Option) ([]core.ConfigBackend, error) {
	backend, err := newBackend(opts...)
	if err != nil {
		return nil, err
	}

	if configType == "" {
		return nil, errors.New("empty config type")
	}

	// viper needs the config type to unmarshal a reader
	backend.configViper.SetConfigType(configType)
	err = backend.configViper.MergeConfig(in)
	if err != nil {
		return nil, errors.Wrap(err, "reading config failed")
	}
	if err := setLogLevel(backend); err != nil {
		return nil, err
	}

	return []core.ConfigBackend{backend}, nil
}

// WithEnvPrefix defines the prefix for environment variable overrides.
// See viper SetEnvPrefix for more information.
func WithEnvPrefix(prefix string) Option {
	return func(opts *options) error {
		if prefix == "" {
			return errors.New("env prefix must not be empty")
		}
		opts.envPrefix = prefix
		return nil
	}
}

func newBackend(opts ...Option) (*defConfigBackend, error) {
	o := options{
		envPrefix: cmdRoot,
	}

	for _, option := range opts {
		err := option(&o)
		if err != nil {
			return nil, errors.WithMessage(err, "Error in options passed to create new config backend")
		}
	}

	return &defConfigBackend{
		configViper: newViper(o.envPrefix),
		opts:        o,
	}, nil
}

func newViper(cmdRootPrefix string) *viper.Viper {
	myViper := viper.New()
	myViper.SetEnvPrefix(cmdRootPrefix)
	myViper.AutomaticEnv()
	replacer := strings.NewReplacer(".", "_")
	myViper.SetEnvKeyReplacer(replacer)
	return myViper
}

// setLogLevel will set the logger provider and the log level of the client
func setLogLevel(backend core.ConfigBackend) error {
	if provider, ok := backend.Lookup("client.logging.provider"); ok {
		switch strings.ToLower(cast.ToString(provider)) {
		case "", "modlog":
		case "gologging":
			logging.Initialize(gologging.New())
		default:
			return errors.Errorf("invalid client.logging.provider: %v", provider)
		}
	}

	loggingLevelString, _ := backend.Lookup("client.logging.level")
	logLevel := logging.INFO
	if loggingLevelString != nil {
		var err error
		logLevel, err = logging.LogLevel(loggingLevelString.(string))
		if err != nil {
			return errors.WithMessage(err, "invalid client.logging.level")
		}
	}

	for _, logModule := range logModules {
		logging.SetLevel(logModule, logLevel)
	}
	return nil
}
