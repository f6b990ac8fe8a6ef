package couchdb_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docstore-io/couch-client/pkg/couchdb"
)

var errBoom = errors.New("boom")

func TestInterceptorChain_Order(t *testing.T) {
	t.Parallel()

	chain := couchdb.NewInterceptorChain()

	var calls []string

	chain.AddRequestInterceptor(func(ctx context.Context, req *couchdb.Request) error {
		calls = append(calls, "first")

		return nil
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *couchdb.Request) error {
		calls = append(calls, "second")

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &couchdb.Request{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestInterceptorChain_RequestErrorStopsChain(t *testing.T) {
	t.Parallel()

	chain := couchdb.NewInterceptorChain()

	var secondRan bool

	chain.AddRequestInterceptor(func(ctx context.Context, req *couchdb.Request) error {
		return errBoom
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *couchdb.Request) error {
		secondRan = true

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &couchdb.Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "request interceptor failed")
	assert.False(t, secondRan)
}

func TestInterceptorChain_ResponseError(t *testing.T) {
	t.Parallel()

	chain := couchdb.NewInterceptorChain()
	chain.AddResponseInterceptor(func(ctx context.Context, req *couchdb.Request, resp *couchdb.Response) error {
		return errBoom
	})

	err := chain.ExecuteResponseInterceptors(context.Background(), &couchdb.Request{}, &couchdb.Response{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "response interceptor failed")
}

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := couchdb.HeaderInterceptor("X-Trace", "abc")

	req := &couchdb.Request{Method: http.MethodGet, Path: "/db"}
	require.NoError(t, interceptor(context.Background(), req))
	assert.Equal(t, "abc", req.Headers["X-Trace"])

	// An existing header is never overwritten
	req.Headers["X-Trace"] = "caller"
	require.NoError(t, interceptor(context.Background(), req))
	assert.Equal(t, "caller", req.Headers["X-Trace"])
}

func TestRateLimitInterceptor_AllowsBurst(t *testing.T) {
	t.Parallel()

	interceptor := couchdb.RateLimitInterceptor(5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, interceptor(ctx, &couchdb.Request{}))
	}
}

func TestRateLimitInterceptor_ContextCancellation(t *testing.T) {
	t.Parallel()

	interceptor := couchdb.RateLimitInterceptor(1)

	// Drain the single token
	require.NoError(t, interceptor(context.Background(), &couchdb.Request{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := interceptor(ctx, &couchdb.Request{})
	assert.ErrorIs(t, err, context.Canceled)
}
