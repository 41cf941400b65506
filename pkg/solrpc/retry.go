package solrpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

const (
	defaultMaxAttempts = 4
	defaultBaseBackoff = 500 * time.Millisecond
	defaultMaxBackoff  = 5 * time.Second
)

type RetryOptions struct {
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

func (o *RetryOptions) withDefaults() RetryOptions {
	var opt RetryOptions
	if o != nil {
		opt = *o
	}
	if opt.MaxAttempts <= 0 {
		opt.MaxAttempts = defaultMaxAttempts
	}
	if opt.BaseBackoff <= 0 {
		opt.BaseBackoff = defaultBaseBackoff
	}
	if opt.MaxBackoff <= 0 {
		opt.MaxBackoff = defaultMaxBackoff
	}
	return opt
}

func (o RetryOptions) backOff() backoff.BackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     o.BaseBackoff,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         o.MaxBackoff,
	}
	b.Reset()
	return b
}

// WithRetry wraps inner so that transport failures and busy responses are retried with
// exponential backoff. Other errors are returned after the first attempt.
func WithRetry(inner solanarpc.JSONRPCClient, opt *RetryOptions) solanarpc.JSONRPCClient {
	return &retryingClient{inner: inner, opt: opt.withDefaults()}
}

type retryingClient struct {
	inner solanarpc.JSONRPCClient
	opt   RetryOptions
}

func (c *retryingClient) CallForInto(ctx context.Context, out any, method string, params []any) error {
	_, err := retry(ctx, c.opt, func() (struct{}, error) {
		return struct{}{}, c.inner.CallForInto(ctx, out, method, params)
	})
	return err
}

func (c *retryingClient) CallWithCallback(ctx context.Context, method string, params []any, callback func(*http.Request, *http.Response) error) error {
	_, err := retry(ctx, c.opt, func() (struct{}, error) {
		return struct{}{}, c.inner.CallWithCallback(ctx, method, params, callback)
	})
	return err
}

func (c *retryingClient) CallBatch(ctx context.Context, requests jsonrpc.RPCRequests) (jsonrpc.RPCResponses, error) {
	return retry(ctx, c.opt, func() (jsonrpc.RPCResponses, error) {
		return c.inner.CallBatch(ctx, requests)
	})
}

func retry[T any](ctx context.Context, opt RetryOptions, f func() (T, error)) (T, error) {
	res, err := backoff.Retry(ctx, func() (T, error) {
		res, err := f()
		if err != nil && !isRetryable(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}, backoff.WithBackOff(opt.backOff()), backoff.WithMaxTries(uint(opt.MaxAttempts)))
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return res, permanent.Unwrap()
	}
	return res, err
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation is authoritative.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection reset by peer") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "use of closed network connection") {
		return true
	}

	type hasStatusCode interface{ StatusCode() int }
	var sc hasStatusCode
	if errors.As(err, &sc) {
		switch sc.StatusCode() {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	// Node is behind or busy.
	type hasCode interface{ Code() int }
	var ce hasCode
	if errors.As(err, &ce) {
		switch ce.Code() {
		case -32005, -32004, -32003:
			return true
		}
	}

	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return false
	}

	return false
}
