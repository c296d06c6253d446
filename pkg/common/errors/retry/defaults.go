/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"time"

	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	grpcCodes "google.golang.org/grpc/codes"
)

const (
	// DefaultAttempts number of retry attempts made by default
	DefaultAttempts = 3
	// DefaultInitialBackoff default initial backoff
	DefaultInitialBackoff = 250 * time.Millisecond
	// DefaultMaxBackoff default maximum backoff
	DefaultMaxBackoff = 2 * time.Second
	// DefaultBackoffFactor default backoff factor
	DefaultBackoffFactor = 2.0
)

// DefaultOpts default retry options
var DefaultOpts = Opts{
	Attempts:       DefaultAttempts,
	InitialBackoff: DefaultInitialBackoff,
	MaxBackoff:     DefaultMaxBackoff,
	BackoffFactor:  DefaultBackoffFactor,
	RetryableCodes: DefaultRetryableCodes,
}

// DefaultRetryableCodes these are the error codes, grouped by source of error,
// that are considered to be transient when connecting to an event hub
var DefaultRetryableCodes = map[status.Group][]status.Code{
	status.ClientStatus: {
		status.ConnectionFailed,
	},
	status.GRPCTransportStatus: {
		status.Code(grpcCodes.Unavailable),
		status.Code(grpcCodes.DeadlineExceeded),
	},
}

// TestRetryableCodes are used by tests to determine error situations that can be retried.
var TestRetryableCodes = map[status.Group][]status.Code{
	status.TestStatus: {
		status.Unknown,
	},
	status.ClientStatus: {
		status.ConnectionFailed,
	},
}

// TestRetryOpts are used by tests to determine retry parameters.
var TestRetryOpts = Opts{
	Attempts:       5,
	InitialBackoff: time.Millisecond,
	MaxBackoff:     10 * time.Millisecond,
	BackoffFactor:  1.5,
	RetryableCodes: TestRetryableCodes,
}
