// Package http implements the shared HTTP transport every resource client
// delegates to. It owns connection handling, retries, authentication header
// injection, and error-envelope decoding; request construction happens
// upstream in pkg/couchdb.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/docstore-io/couch-client/internal/auth"
	"github.com/docstore-io/couch-client/internal/constants"
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// Client is the shared HTTP transport.
type Client struct {
	baseURL       string
	authenticator auth.Authenticator
	retryClient   *retryablehttp.Client
	streamClient  *retryablehttp.Client
	logger        couchdb.Logger
	debug         bool
	userAgent     string
	interceptors  *couchdb.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug and retry output.
func WithLogger(logger couchdb.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging through the logger.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig sets the retry count and backoff window.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryClient.RetryMax = retryMax
		c.retryClient.RetryWaitMin = waitMin
		c.retryClient.RetryWaitMax = waitMax
	}
}

// WithHTTPClient replaces the underlying standard client, e.g. to install a
// custom TLS configuration.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.retryClient.HTTPClient = httpClient
	}
}

// WithInterceptors installs an interceptor chain run around every request.
func WithInterceptors(chain *couchdb.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a transport for the given server base URL. The
// authenticator may be nil for unauthenticated access.
func NewClient(baseURL string, authenticator auth.Authenticator, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultTimeout
	retryClient.Logger = nil

	client := &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		authenticator: authenticator,
		retryClient:   retryClient,
		userAgent:     constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.logger != nil {
		client.retryClient.Logger = &retryLogger{logger: client.logger}
	}

	client.streamClient = newStreamClient(client.retryClient)

	return client
}

// newStreamClient mirrors the configured client without the client-level
// timeout. http.Client.Timeout covers reading the response body, which would
// sever a continuous changes feed or a large attachment download mid-stream;
// streamed requests are bounded by the caller's context instead.
func newStreamClient(base *retryablehttp.Client) *retryablehttp.Client {
	streamClient := retryablehttp.NewClient()
	streamClient.RetryMax = base.RetryMax
	streamClient.RetryWaitMin = base.RetryWaitMin
	streamClient.RetryWaitMax = base.RetryWaitMax
	streamClient.Logger = base.Logger

	httpClient := *base.HTTPClient
	httpClient.Timeout = 0
	streamClient.HTTPClient = &httpClient

	return streamClient
}

// Do sends a built request descriptor and returns the response envelope. For
// error statuses the decoded server error is returned alongside the envelope
// so callers can still inspect status and headers.
func (c *Client) Do(ctx context.Context, req *couchdb.Request) (*couchdb.Response, error) {
	if c.interceptors != nil {
		if err := c.interceptors.ExecuteRequestInterceptors(ctx, req); err != nil {
			return nil, err
		}
	}

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    httpReq.URL.String(),
		})
	}

	sender := c.retryClient
	if req.Stream {
		sender = c.streamClient
	}

	httpResp, err := sender.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	if req.Stream && httpResp.StatusCode < 400 {
		// Hand the body to the caller unread; they own closing it.
		return &couchdb.Response{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Headers:    httpResp.Header,
			Raw:        httpResp.Body,
		}, nil
	}

	defer func() { _ = httpResp.Body.Close() }()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &couchdb.Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Body:       data,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         httpReq.URL.String(),
			"status_code": httpResp.StatusCode,
		})
	}

	if httpResp.StatusCode >= 400 {
		return resp, couchdb.ParseServerError(httpResp.StatusCode, data)
	}

	if c.interceptors != nil {
		if err := c.interceptors.ExecuteResponseInterceptors(ctx, req, resp); err != nil {
			return nil, err
		}
	}

	return resp, nil
}

// newHTTPRequest translates the request descriptor into a retryable request.
func (c *Client) newHTTPRequest(ctx context.Context, req *couchdb.Request) (*retryablehttp.Request, error) {
	requestURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		requestURL += "?" + req.Query.Encode()
	}

	headers := make(map[string]string, len(req.Headers))
	for name, value := range req.Headers {
		headers[name] = value
	}

	var body any

	switch payload := req.Body.(type) {
	case nil:
	case io.Reader:
		// Streamed bodies pass through untouched; retryablehttp buffers
		// what it can for retries.
		body = payload
	case []byte:
		body = payload
	case json.RawMessage:
		body = []byte(payload)
	default:
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		body = data

		if _, ok := headers["Content-Type"]; !ok {
			headers["Content-Type"] = constants.ContentTypeJSON
		}
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for name, value := range headers {
		httpReq.Header.Set(name, value)
	}

	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	if c.authenticator != nil {
		if err := c.authenticator.Authenticate(ctx, httpReq.Request); err != nil {
			return nil, fmt.Errorf("authenticating request: %w", err)
		}
	}

	return httpReq, nil
}

// Convenience wrappers used by tests and simple callers that bypass the
// operation catalog.

// Get performs a GET against path.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*couchdb.Response, error) {
	return c.Do(ctx, &couchdb.Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST with a JSON body against path.
func (c *Client) Post(ctx context.Context, path string, body any) (*couchdb.Response, error) {
	return c.Do(ctx, &couchdb.Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT with a JSON body against path.
func (c *Client) Put(ctx context.Context, path string, body any) (*couchdb.Response, error) {
	return c.Do(ctx, &couchdb.Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE against path.
func (c *Client) Delete(ctx context.Context, path string) (*couchdb.Response, error) {
	return c.Do(ctx, &couchdb.Request{Method: http.MethodDelete, Path: path})
}

// Head performs a HEAD against path.
func (c *Client) Head(ctx context.Context, path string) (*couchdb.Response, error) {
	return c.Do(ctx, &couchdb.Request{Method: http.MethodHead, Path: path})
}

// retryLogger adapts couchdb.Logger to retryablehttp's leveled logger.
type retryLogger struct {
	logger couchdb.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fieldsFromPairs(keysAndValues))
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, fieldsFromPairs(keysAndValues))
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, fieldsFromPairs(keysAndValues))
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fieldsFromPairs(keysAndValues))
}

func fieldsFromPairs(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keysAndValues[i])
		}

		fields[key] = keysAndValues[i+1]
	}

	return fields
}
