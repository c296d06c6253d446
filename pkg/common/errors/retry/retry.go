/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package retry provides retransmission capabilities to fabric-network-go.
// It is used to re-establish event source connections after transient
// transport failures.
package retry

import (
	"context"
	"time"

	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
)

// Opts defines the retry parameters
type Opts struct {
	// Attempts the number retry attempts
	Attempts int
	// InitialBackoff the backoff interval for the first retry attempt
	InitialBackoff time.Duration
	// MaxBackoff the maximum backoff interval for any retry attempt
	MaxBackoff time.Duration
	// BackoffFactor the factor by which the InitialBackoff is exponentially
	// incremented for consecutive retry attempts.
	BackoffFactor float64
	// RetryableCodes defines the status codes, mapped by group, that warrant a retry.
	// This will default to retry.DefaultRetryableCodes.
	RetryableCodes map[status.Group][]status.Code
}

// Handler retry handler interface decides whether a retry is required for the given
// error. Backoffs are implemented behind this interface and are abandoned when the
// context is done.
type Handler interface {
	Required(ctx context.Context, err error) bool
}

type impl struct {
	opts    Opts
	retries int
}

// New retry Handler with the given opts
func New(opts Opts) Handler {
	if len(opts.RetryableCodes) == 0 {
		opts.RetryableCodes = DefaultRetryableCodes
	}
	return &impl{opts: opts}
}

// WithDefaults new retry Handler with default opts
func WithDefaults() Handler {
	return &impl{opts: DefaultOpts}
}

// WithAttempts new retry Handler with given attempts. Other opts are set to default.
func WithAttempts(attempts int) Handler {
	opts := DefaultOpts
	opts.Attempts = attempts
	return &impl{opts: opts}
}

// Required determines if retry is required for the given error
func (i *impl) Required(ctx context.Context, err error) bool {
	if i.retries >= i.opts.Attempts {
		return false
	}

	s, ok := status.FromError(err)
	if !ok || !i.isRetryable(s.Group, s.Code) {
		return false
	}

	timer := time.NewTimer(i.backoffPeriod())
	defer timer.Stop()

	select {
	case <-timer.C:
		i.retries++
		return true
	case <-ctx.Done():
		return false
	}
}

func (i *impl) backoffPeriod() time.Duration {
	backoff, max := float64(i.opts.InitialBackoff), float64(i.opts.MaxBackoff)
	for j := 0; j < i.retries && backoff < max; j++ {
		backoff *= i.opts.BackoffFactor
	}
	if backoff > max {
		backoff = max
	}

	return time.Duration(backoff)
}

func (i *impl) isRetryable(g status.Group, c int32) bool {
	for _, code := range i.opts.RetryableCodes[g] {
		if status.Code(c) == code {
			return true
		}
	}
	return false
}
