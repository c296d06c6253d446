/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package gologging provides a logger provider backed by github.com/op/go-logging,
// for applications that already configure go-logging backends and formatters.
package gologging

import (
	"github.com/hyperledger/fabric-network-go/pkg/core/logging/api"
	logging "github.com/op/go-logging"
)

// Provider creates go-logging loggers for SDK modules
type Provider struct{}

// New returns a go-logging backed provider
func New() *Provider {
	return &Provider{}
}

// GetLogger returns a logger for the given module
func (p *Provider) GetLogger(module string) api.Logger {
	return &goLogger{Logger: logging.MustGetLogger(module)}
}

type goLogger struct {
	*logging.Logger
}

func (l *goLogger) Warn(args ...interface{}) {
	l.Logger.Warning(args...)
}

func (l *goLogger) Warnf(format string, args ...interface{}) {
	l.Logger.Warningf(format, args...)
}
