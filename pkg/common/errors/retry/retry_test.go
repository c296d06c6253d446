/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hyperledger/fabric-network-go/pkg/common/errors/status"
	"github.com/hyperledger/fabric-protos-go/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpccodes "google.golang.org/grpc/codes"
)

func TestRetryRequired(t *testing.T) {
	attempts := 3
	transientErr := status.New(status.ClientStatus, status.ConnectionFailed.ToInt32(), "", nil)
	nonTransientErr := status.New(status.OrdererServerStatus, int32(common.Status_BAD_REQUEST), "", nil)
	unknownErr := fmt.Errorf("Unknown")

	r := New(Opts{
		Attempts:       attempts,
		BackoffFactor:  2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     10 * time.Millisecond,
	})
	for i := 1; i <= attempts; i++ {
		assert.True(t, r.Required(context.Background(), transientErr), "Expected retry to be required on transient error")
	}
	assert.False(t, r.Required(context.Background(), transientErr), "Expected retry to not be required after exhausting attempts")

	r = WithDefaults()
	assert.False(t, r.Required(context.Background(), nonTransientErr))
	r = WithAttempts(2)
	assert.False(t, r.Required(context.Background(), unknownErr))
}

func TestRetryAbandonedOnContextDone(t *testing.T) {
	r := New(Opts{
		Attempts:       1,
		BackoffFactor:  1,
		InitialBackoff: time.Minute,
		MaxBackoff:     time.Minute,
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	unavailable := status.New(status.GRPCTransportStatus, int32(grpccodes.Unavailable), "", nil)
	assert.False(t, r.Required(ctx, unavailable))
}

func TestBackoffPeriod(t *testing.T) {
	factor := 3.34
	initial := 2 * time.Second
	max := 30 * time.Second
	r := New(Opts{
		Attempts:       10,
		BackoffFactor:  factor,
		InitialBackoff: initial,
		MaxBackoff:     max,
	})
	i := r.(*impl)
	assert.Equal(t, initial, i.backoffPeriod())
	i.retries = 1
	assert.Equal(t, time.Duration(float64(initial)*factor), i.backoffPeriod())
	i.retries = 2
	assert.Equal(t, time.Duration(float64(initial)*factor*factor), i.backoffPeriod())
	i.retries = 3
	assert.Equal(t, max, i.backoffPeriod())
}

func TestInvoker(t *testing.T) {
	transient := status.New(status.ClientStatus, status.ConnectionFailed.ToInt32(), "refused", nil)

	calls := 0
	beforeRetry := 0
	invoker := NewInvoker(New(TestRetryOpts), WithBeforeRetry(func(error) { beforeRetry++ }))
	result, err := invoker.Invoke(context.Background(), func() (interface{}, error) {
		calls++
		if calls < 3 {
			return nil, transient
		}
		return "connected", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "connected", result)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, beforeRetry)

	calls = 0
	permanent := fmt.Errorf("bad certificate")
	_, err = NewInvoker(New(TestRetryOpts)).Invoke(context.Background(), func() (interface{}, error) {
		calls++
		return nil, permanent
	})
	assert.Equal(t, permanent, err)
	assert.Equal(t, 1, calls)
}
