/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package logging enables setting custom logger implementation.
//
//  Basic Flow:
//  1) Initialize logger
//  2) Create new logger for specific module
//  3) Call log info
package logging

import (
	"sync"

	"github.com/hyperledger/fabric-network-go/pkg/core/logging/api"
	"github.com/hyperledger/fabric-network-go/pkg/core/logging/metadata"
	"github.com/hyperledger/fabric-network-go/pkg/core/logging/modlog"
)

//Logger basic implementation of api.Logger interface
type Logger struct {
	instance api.Logger // access only via Logger.logger()
	module   string
	once     sync.Once
}

// logger factory singleton - access only via loggerProvider()
var loggerProviderInstance api.LoggerProvider
var loggerProviderOnce sync.Once

// Level defines all available log levels for log messages.
type Level int

// Log levels.
const (
	CRITICAL Level = iota
	ERROR
	WARNING
	INFO
	DEBUG
)

const (
	loggerNotInitializedMsg = "Default logger initialized (please call logging.Initialize if you wish to use a custom logger)"
	loggerModule            = "fabnet/common"
)

// NewLogger creates and returns a Logger object based on the module name.
// The underlying logger instance is bound on first use.
func NewLogger(module string) *Logger {
	return &Logger{module: module}
}

func loggerProvider() api.LoggerProvider {
	loggerProviderOnce.Do(func() {
		loggerProviderInstance = modlog.LoggerProvider()
		logger := loggerProviderInstance.GetLogger(loggerModule)
		logger.Debug(loggerNotInitializedMsg)
	})
	return loggerProviderInstance
}

//Initialize sets new logger which takes over logging operations.
//It must be called before the first log output; later calls are ignored.
func Initialize(l api.LoggerProvider) {
	loggerProviderOnce.Do(func() {
		loggerProviderInstance = l
		logger := loggerProviderInstance.GetLogger(loggerModule)
		logger.Debug("Logger provider initialized")
	})
}

//SetLevel - setting log level for given module
//  Parameters:
//  module is module name
//  level is logging level
func SetLevel(module string, level Level) {
	modlog.SetLevel(module, api.Level(level))
}

//GetLevel - getting log level for given module
func GetLevel(module string) Level {
	return Level(modlog.GetLevel(module))
}

//IsEnabledFor - Check if given log level is enabled for given module
func IsEnabledFor(module string, level Level) bool {
	return modlog.IsEnabledFor(module, api.Level(level))
}

// LogLevel returns the log level from a string representation.
func LogLevel(level string) (Level, error) {
	l, err := metadata.ParseLevel(level)
	return Level(l), err
}

//Debug calls Debug function of underlying logger
func (l *Logger) Debug(args ...interface{}) {
	l.logger().Debug(args...)
}

//Debugf calls Debugf function of underlying logger
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logger().Debugf(format, args...)
}

//Info calls Info function of underlying logger
func (l *Logger) Info(args ...interface{}) {
	l.logger().Info(args...)
}

//Infof calls Infof function of underlying logger
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logger().Infof(format, args...)
}

//Warn calls Warn function of underlying logger
func (l *Logger) Warn(args ...interface{}) {
	l.logger().Warn(args...)
}

//Warnf calls Warnf function of underlying logger
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logger().Warnf(format, args...)
}

//Error calls Error function of underlying logger
func (l *Logger) Error(args ...interface{}) {
	l.logger().Error(args...)
}

//Errorf calls Errorf function of underlying logger
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logger().Errorf(format, args...)
}

func (l *Logger) logger() api.Logger {
	l.once.Do(func() {
		l.instance = loggerProvider().GetLogger(l.module)
	})
	return l.instance
}
