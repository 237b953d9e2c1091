// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package httpclient provides an HTTP client with bounded retry and
// exponential backoff, used by callers that issue one request per logical
// operation but still want transient network/5xx failures absorbed before
// surfacing an error.
package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// Client wraps http.Client with bounded retry and exponential backoff.
type Client struct {
	client     *http.Client
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithMaxRetries sets the maximum number of retries. 0 disables retrying.
func WithMaxRetries(max int) Option {
	return func(c *Client) {
		c.maxRetries = max
	}
}

// New creates a new Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		client:     &http.Client{Timeout: 120 * time.Second},
		maxRetries: 5,
		baseDelay:  2 * time.Second,
		maxDelay:   60 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusRequestTimeout,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// Do executes req, retrying on a retryable status code or network error up
// to maxRetries times with exponential backoff and jitter. The request body
// is buffered up front so it can be replayed on every attempt.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: read request body: %w", err)
		}
		req.Body.Close()
	}

	var resp *http.Response
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		resp, err = c.client.Do(req)
		if err == nil && !isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}
		if attempt >= c.maxRetries {
			break
		}
		time.Sleep(c.backoff(attempt))
	}

	if err != nil {
		return nil, err
	}
	return resp, &RetryableError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("max retries (%d) exceeded", c.maxRetries),
		Err:        fmt.Errorf("http %d", resp.StatusCode),
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempt))) * c.baseDelay
	jitter := time.Duration(rand.Float64() * float64(delay) * 0.1)
	if delay+jitter > c.maxDelay {
		return c.maxDelay
	}
	return delay + jitter
}
