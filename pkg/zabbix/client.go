// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package zabbix

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/NVIDIA/zbx-archive/pkg/defaults"
	"github.com/NVIDIA/zbx-archive/pkg/errors"
)

const (
	// DefaultUserAgent is sent when Config.UserAgent is empty.
	DefaultUserAgent = "zbxarchive"

	contentType    = "application/json-rpc"
	jsonRPCVersion = "2.0"

	methodLogin   = "user.login"
	methodHostGet = "host.get"
	methodItemGet = "item.get"
)

var (
	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes int64 = 64 << 20

	hostOutput = []string{"hostid", "host"}
	itemOutput = []string{"itemid", "name", "lastvalue", "units", "lastclock"}
)

// Config holds the connection settings for a Client.
type Config struct {
	// URL is the JSON-RPC endpoint, e.g. https://zabbix.example.com/api_jsonrpc.php.
	URL string

	// User and Password are used by Login.
	User     string
	Password string

	// APIToken is sent as a bearer token until Login replaces it.
	APIToken string

	// Timeout bounds every API call. Required.
	Timeout time.Duration

	// LoginTimeout bounds user.login. Zero means defaults.APILoginTimeout.
	LoginTimeout time.Duration

	// RequestInterval is the minimum spacing between calls. Zero disables pacing.
	RequestInterval time.Duration

	UserAgent string

	// HTTPClient overrides the default pooled client.
	HTTPClient *http.Client
}

// Client talks to the Zabbix JSON-RPC API.
// A Client is safe for concurrent use.
type Client struct {
	endpoint     string
	userAgent    string
	user         string
	password     string
	timeout      time.Duration
	loginTimeout time.Duration
	httpClient   *http.Client
	limiter      *rate.Limiter
	nextID       atomic.Int64

	mu    sync.RWMutex
	token string
}

// NewClient validates cfg and returns a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "zabbix url is required")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"zabbix url must be an absolute http(s) url", map[string]any{"url": cfg.URL})
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "zabbix request timeout must be greater than zero")
	}
	if cfg.RequestInterval < 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "zabbix request interval must not be negative")
	}

	c := &Client{
		endpoint:     u.String(),
		userAgent:    cfg.UserAgent,
		user:         cfg.User,
		password:     cfg.Password,
		timeout:      cfg.Timeout,
		loginTimeout: cfg.LoginTimeout,
		httpClient:   cfg.HTTPClient,
		token:        cfg.APIToken,
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.loginTimeout <= 0 {
		c.loginTimeout = defaults.APILoginTimeout
	}
	if c.httpClient == nil {
		c.httpClient = newHTTPClient()
	}
	if cfg.RequestInterval > 0 {
		c.limiter = rate.NewLimiter(rate.Every(cfg.RequestInterval), 1)
	}

	return c, nil
}

func newHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   defaults.HTTPConnectTimeout,
		KeepAlive: defaults.HTTPKeepAlive,
	}).DialContext
	transport.TLSHandshakeTimeout = defaults.HTTPTLSHandshakeTimeout
	transport.IdleConnTimeout = defaults.HTTPIdleConnTimeout
	transport.MaxIdleConnsPerHost = 4

	// Per-call deadlines come from the request context.
	return &http.Client{Transport: transport}
}

// Token returns the bearer token currently in use, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login authenticates with user.login and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context) error {
	if c.user == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "zabbix user is required for login")
	}

	var token string
	params := loginParams{Username: c.user, Password: c.password}
	if err := c.call(ctx, methodLogin, params, c.loginTimeout, false, &token); err != nil {
		return err
	}
	if token == "" {
		return errors.New(errors.ErrCodeUnauthorized, "zabbix login returned an empty token")
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	slog.Debug("zabbix login succeeded", slog.String("user", c.user))
	return nil
}

// Hosts lists enabled hosts.
func (c *Client) Hosts(ctx context.Context) ([]Host, error) {
	params := hostGetParams{
		Output: hostOutput,
		Filter: map[string]string{"status": "0"},
	}

	var hosts []Host
	if err := c.call(ctx, methodHostGet, params, c.timeout, true, &hosts); err != nil {
		return nil, err
	}
	return hosts, nil
}

// Items lists the enabled, supported items of one host.
func (c *Client) Items(ctx context.Context, hostID string) ([]Item, error) {
	if hostID == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "host id is required")
	}

	params := itemGetParams{
		Output:  itemOutput,
		HostIDs: hostID,
		Filter:  map[string]int{"state": 0, "status": 0},
	}

	var items []Item
	if err := c.call(ctx, methodItemGet, params, c.timeout, true, &items); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].HostID == "" {
			items[i].HostID = hostID
		}
	}
	return items, nil
}

// call performs one JSON-RPC round trip bounded by timeout and decodes the
// result member into out.
func (c *Client) call(ctx context.Context, method string, params any, timeout time.Duration, auth bool, out any) (err error) {
	start := time.Now()
	defer func() {
		apiRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		status := "success"
		if err != nil {
			status = string(errors.CodeOf(err))
		}
		apiRequestsTotal.WithLabelValues(method, status).Inc()
	}()

	if c.limiter != nil {
		if werr := c.limiter.Wait(ctx); werr != nil {
			return classifyTransport(method, werr)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(request{
		JSONRPC: jsonRPCVersion,
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to encode %s request", method), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to build %s request", method), err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)
	if auth {
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(method, err)
	}
	defer func() {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.NewWithContext(errors.ErrCodeUnauthorized,
			fmt.Sprintf("zabbix rejected %s", method),
			map[string]any{"method": method, "status": resp.StatusCode})
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return errors.NewWithContext(errors.ErrCodeUnavailable,
			fmt.Sprintf("zabbix returned HTTP %d for %s", resp.StatusCode, method),
			map[string]any{"method": method, "status": resp.StatusCode})
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return classifyTransport(method, err)
	}
	if int64(len(data)) > maxResponseBytes {
		return errors.NewWithContext(errors.ErrCodeUpstream,
			fmt.Sprintf("zabbix response for %s is too large", method),
			map[string]any{"method": method, "limit_bytes": maxResponseBytes})
	}

	var rpcResp response
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return errors.WrapWithContext(errors.ErrCodeUpstream,
			fmt.Sprintf("failed to decode %s response", method), err,
			map[string]any{"method": method})
	}
	if rpcResp.Error != nil {
		return errors.WrapWithContext(errors.ErrCodeUpstream,
			fmt.Sprintf("zabbix %s failed", method), rpcResp.Error,
			map[string]any{"method": method, "rpc_code": strconv.Itoa(rpcResp.Error.Code)})
	}
	if len(rpcResp.Result) == 0 {
		return errors.NewWithContext(errors.ErrCodeUpstream,
			fmt.Sprintf("zabbix %s response has no result", method),
			map[string]any{"method": method})
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return errors.WrapWithContext(errors.ErrCodeUpstream,
			fmt.Sprintf("failed to decode %s result", method), err,
			map[string]any{"method": method})
	}

	return nil
}

func classifyTransport(method string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.WrapWithContext(errors.ErrCodeTimeout,
			fmt.Sprintf("zabbix %s timed out", method), err, map[string]any{"method": method})
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.WrapWithContext(errors.ErrCodeTimeout,
			fmt.Sprintf("zabbix %s timed out", method), err, map[string]any{"method": method})
	}
	return errors.WrapWithContext(errors.ErrCodeUnavailable,
		fmt.Sprintf("zabbix %s request failed", method), err, map[string]any{"method": method})
}
