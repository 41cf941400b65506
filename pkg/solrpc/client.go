// Package solrpc builds Solana RPC clients that compress responses and retry transient failures.
package solrpc

import (
	"net"
	"net/http"
	"time"

	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/klauspost/compress/gzhttp"
)

const (
	defaultMaxConnsPerHost     = 9
	defaultTimeout             = 5 * time.Minute
	defaultKeepAlive           = 180 * time.Second
	defaultTLSHandshakeTimeout = 10 * time.Second
)

// NewWithRetries returns a Solana RPC client for endpoint with retrying requests.
func NewWithRetries(endpoint string, retryOpt *RetryOptions) *solanarpc.Client {
	return NewWithHeadersAndRetries(endpoint, nil, retryOpt)
}

// NewWithHeadersAndRetries is NewWithRetries with custom headers sent on every request.
func NewWithHeadersAndRetries(endpoint string, headers map[string]string, retryOpt *RetryOptions) *solanarpc.Client {
	inner := jsonrpc.NewClientWithOpts(endpoint, &jsonrpc.RPCClientOpts{
		HTTPClient:    newHTTPClient(),
		CustomHeaders: headers,
	})
	return solanarpc.NewWithCustomRPCClient(WithRetry(inner, retryOpt))
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout:   defaultTimeout,
		Transport: gzhttp.Transport(newHTTPTransport()),
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		IdleConnTimeout:     defaultTimeout,
		MaxConnsPerHost:     defaultMaxConnsPerHost,
		MaxIdleConnsPerHost: defaultMaxConnsPerHost,
		Proxy:               http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaultTimeout,
			KeepAlive: defaultKeepAlive,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		TLSHandshakeTimeout: defaultTLSHandshakeTimeout,
	}
}
