/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package modlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/hyperledger/fabric-network-go/pkg/core/logging/api"
	"github.com/hyperledger/fabric-network-go/pkg/core/logging/metadata"
)

var rwmutex = &sync.RWMutex{}
var moduleLevels = &metadata.ModuleLevels{}

const (
	logLevelFormatter  = "UTC -> %4.4s "
	logPrefixFormatter = " [%s] "
)

// Provider is the default logger implementation
type Provider struct {
	output io.Writer
}

//LoggerProvider returns logging provider for SDK logger
func LoggerProvider() api.LoggerProvider {
	return &Provider{output: os.Stdout}
}

// LoggerProviderWithOutput returns a logging provider writing to the given output
func LoggerProviderWithOutput(output io.Writer) api.LoggerProvider {
	return &Provider{output: output}
}

//GetLogger returns SDK logger implementation
func (p *Provider) GetLogger(module string) api.Logger {
	newDefLogger := log.New(p.output, fmt.Sprintf(logPrefixFormatter, module), log.Ldate|log.Ltime|log.LUTC)
	return &Log{deflogger: newDefLogger, module: module}
}

//SetLevel - setting log level for given module
func SetLevel(module string, level api.Level) {
	rwmutex.Lock()
	defer rwmutex.Unlock()
	moduleLevels.SetLevel(module, level)
}

//GetLevel - getting log level for given module
func GetLevel(module string) api.Level {
	rwmutex.RLock()
	defer rwmutex.RUnlock()
	return moduleLevels.GetLevel(module)
}

//IsEnabledFor - Check if given log level is enabled for given module
func IsEnabledFor(module string, level api.Level) bool {
	rwmutex.RLock()
	defer rwmutex.RUnlock()
	return moduleLevels.IsEnabledFor(module, level)
}

//Log is a standard SDK logger implementation
type Log struct {
	deflogger *log.Logger
	module    string
}

// Debug logs at DEBUG level.
func (l *Log) Debug(args ...interface{}) {
	l.log(api.DEBUG, fmt.Sprint(args...))
}

// Debugf logs at DEBUG level.
func (l *Log) Debugf(format string, args ...interface{}) {
	l.log(api.DEBUG, fmt.Sprintf(format, args...))
}

// Info logs at INFO level.
func (l *Log) Info(args ...interface{}) {
	l.log(api.INFO, fmt.Sprint(args...))
}

// Infof logs at INFO level.
func (l *Log) Infof(format string, args ...interface{}) {
	l.log(api.INFO, fmt.Sprintf(format, args...))
}

// Warn logs at WARNING level.
func (l *Log) Warn(args ...interface{}) {
	l.log(api.WARNING, fmt.Sprint(args...))
}

// Warnf logs at WARNING level.
func (l *Log) Warnf(format string, args ...interface{}) {
	l.log(api.WARNING, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level.
func (l *Log) Error(args ...interface{}) {
	l.log(api.ERROR, fmt.Sprint(args...))
}

// Errorf logs at ERROR level.
func (l *Log) Errorf(format string, args ...interface{}) {
	l.log(api.ERROR, fmt.Sprintf(format, args...))
}

//ChangeOutput for changing output destination for the logger.
func (l *Log) ChangeOutput(output io.Writer) {
	l.deflogger.SetOutput(output)
}

func (l *Log) log(level api.Level, msg string) {
	if !IsEnabledFor(l.module, level) {
		return
	}
	customPrefix := fmt.Sprintf(logLevelFormatter, metadata.ParseString(level))
	if err := l.deflogger.Output(3, customPrefix+msg); err != nil {
		fmt.Printf("error from deflogger.Output %v\n", err)
	}
}
