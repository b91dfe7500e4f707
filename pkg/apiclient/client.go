package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
	"github.com/noah-isme/siakad-cli/pkg/logger"
	"github.com/noah-isme/siakad-cli/pkg/middleware/requestid"
	"github.com/noah-isme/siakad-cli/pkg/observability"
	"github.com/noah-isme/siakad-cli/pkg/response"
)

// authPrefix marks endpoints that must not carry credentials.
const authPrefix = "/auth/"

// TokenSource yields the bearer token of the current session, or "".
type TokenSource interface {
	Token() string
}

// RequestObserver receives one observation per completed request.
type RequestObserver interface {
	ObserveHTTPRequest(method, path string, status int, duration time.Duration)
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is still
// wrapped with request IDs and logging.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers a metrics sink.
func WithObserver(o RequestObserver) Option {
	return func(c *Client) { c.observer = o }
}

// Client issues JSON requests against the academic API.
type Client struct {
	baseURL  string
	tokens   TokenSource
	http     *http.Client
	timeout  time.Duration
	logger   *zap.Logger
	observer RequestObserver
}

// New constructs a Client for baseURL.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	wrapped := *c.http
	wrapped.Transport = requestid.Transport(logger.Transport(c.logger, c.http.Transport))
	if c.timeout > 0 {
		wrapped.Timeout = c.timeout
	}
	c.http = &wrapped
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request and decodes the body into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do performs a single request. Non-2xx responses become *errors.Error
// carrying the backend message when one is present. Requests are never
// retried.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" && !strings.HasPrefix(path, authPrefix) {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(method, path, 0, time.Since(start))
		if errors.Is(err, context.Canceled) {
			return appErrors.Wrap(err, appErrors.ErrCancelled.Code, appErrors.ErrCancelled.Status, appErrors.ErrCancelled.Message)
		}
		transportErr := appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, appErrors.ErrTransport.Message)
		transportErr.Fallback = true
		observability.CaptureErr(transportErr)
		return transportErr
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	c.observe(method, path, resp.StatusCode, time.Since(start))
	if err != nil {
		transportErr := appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to read response")
		transportErr.Fallback = true
		return transportErr
	}

	if resp.StatusCode/100 != 2 {
		return c.failure(method, path, resp.StatusCode, raw)
	}

	if err := response.Decode(raw, out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, resp.StatusCode, "failed to decode response")
	}
	return nil
}

func (c *Client) failure(method, path string, status int, raw []byte) error {
	base := appErrors.FromStatus(status)
	apiErr := &appErrors.Error{Code: base.Code, Status: status}
	if msg := response.ErrorMessage(raw); msg != "" {
		apiErr.Message = msg
	} else {
		apiErr.Message = fmt.Sprintf("%s (http %d)", appErrors.ErrRequestFailed.Message, status)
		apiErr.Fallback = true
	}
	if status >= http.StatusInternalServerError {
		observability.CaptureErr(fmt.Errorf("%s %s: %w", method, path, apiErr))
	}
	c.logger.Debug("api_error",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.String("code", apiErr.Code),
		zap.String("message", apiErr.Message),
	)
	return apiErr
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

func (c *Client) observe(method, path string, status int, d time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveHTTPRequest(method, path, status, d)
}
