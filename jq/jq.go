// Copyright 2023 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package jq

import (
	"context"
	"net/http"
	"sync"
	"time"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default endpoint of the service. It may be overwritten in tests
// before creating a new client.
var URL = "https://dataapi.joinquant.com/apis"

// DefaultTimeout bounds a single request round trip unless overridden by
// WithTimeout or WithHTTPClient.
const DefaultTimeout = 60 * time.Second

// Credentials identify a service account: the registered mobile number and
// its password. Immutable for the lifetime of a Client.
type Credentials struct {
	Mobile   string
	Password string
}

// Client executes calls against the service. Data methods require a
// successful Initialize first; the token it acquires is valid until the end
// of the calendar day (server-enforced, never tracked locally).
//
// A Client is safe for concurrent use. The token is the only mutable state:
// Initialize is its single writer, every dispatched call reads it.
type Client struct {
	url        string
	creds      Credentials
	httpClient *http.Client
	perMinute  int // outgoing request budget; 0 = unlimited

	mu    sync.Mutex
	token string
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithURL overrides the service endpoint, e.g. for a proxy or a test server.
func WithURL(url string) Option {
	return func(c *Client) { c.url = url }
}

// WithHTTPClient supplies the underlying HTTP client, replacing the default
// one and any WithTimeout applied before it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the round-trip timeout on the current HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit caps the outgoing request rate at perMinute requests per
// minute; the service's published budget is 1800. Requests over the budget
// are delayed, not dropped. Zero or negative disables the cap.
func WithRateLimit(perMinute int) Option {
	return func(c *Client) { c.perMinute = perMinute }
}

// New creates a Client for the given credentials. Without options it talks to
// the public endpoint with the default timeout and no rate limiting.
func New(creds Credentials, options ...Option) *Client {
	c := &Client{
		url:        URL,
		creds:      creds,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range options {
		opt(c)
	}
	if c.perMinute > 0 {
		c.httpClient = rateLimited(c.httpClient, c.perMinute)
	}
	return c
}

// Token returns the current authentication token, or "" before the first
// successful Initialize.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// GetClient extracts the Client from the context, if any.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return nil
	}
	return c
}

// UseClient injects the Client into the context for the layers that pick it
// up from there, such as the equities downloads.
func UseClient(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, clientContextKey, c)
}
