// Package oanda implements the broker abstraction against an OANDA
// v20-style REST API. The client rate-limits itself with a fixed minimum
// inter-request interval and fails fast behind a circuit breaker; it never
// retries; retry policy belongs to the caller.
package oanda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/pkg/circuit"
)

const (
	defaultTimeout      = 15 * time.Second
	minRequestInterval  = 120 * time.Millisecond
	quoteFreshnessLimit = 5 * time.Second

	breakerThreshold = 5
	breakerCooldown  = 2 * time.Minute
)

// Config describes how to reach one OANDA account.
type Config struct {
	APIURL         string
	APIKey         string
	AccountID      string
	TimeoutSeconds int
}

// Client talks to a single OANDA account over REST.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	apiKey     string
	accountID  string
	breaker    *circuit.Breaker

	reqMu       sync.Mutex
	lastRequest time.Time
	minInterval time.Duration

	quoteMu    sync.RWMutex
	quoteCache map[string]broker.PriceQuote
	freshness  time.Duration

	nowFn func() time.Time
}

// NewClient constructs an OANDA client from configuration. It performs no
// network I/O; use AccountInfo as a connectivity probe.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.APIURL)
	if raw == "" {
		return nil, &broker.ConfigurationError{Field: "api_url", Reason: "cannot be empty"}
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, &broker.ConfigurationError{Field: "api_url", Reason: err.Error()}
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &broker.ConfigurationError{Field: "api_key", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(cfg.AccountID) == "" {
		return nil, &broker.ConfigurationError{Field: "account_id", Reason: "cannot be empty"}
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:     parsed,
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      strings.TrimSpace(cfg.APIKey),
		accountID:   strings.TrimSpace(cfg.AccountID),
		breaker:     circuit.NewBreaker("oanda:"+cfg.AccountID, breakerThreshold, breakerCooldown),
		minInterval: minRequestInterval,
		quoteCache:  make(map[string]broker.PriceQuote),
		freshness:   quoteFreshnessLimit,
		nowFn:       time.Now,
	}, nil
}

func (c *Client) Name() string { return "oanda" }

// SetHTTPClient sets the HTTP client for testing.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// throttle enforces the minimum inter-request interval by sleeping.
func (c *Client) throttle() {
	c.reqMu.Lock()
	defer c.reqMu.Unlock()
	now := c.nowFn()
	if wait := c.minInterval - now.Sub(c.lastRequest); wait > 0 {
		time.Sleep(wait)
	}
	c.lastRequest = c.nowFn()
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload any, out any) error {
	if c == nil || c.httpClient == nil {
		return &broker.ConfigurationError{Reason: "oanda client not initialized"}
	}
	if !c.breaker.Allow() {
		return &broker.NetworkError{Op: method + " " + path, Err: fmt.Errorf("circuit open")}
	}
	endpoint, err := c.resolveEndpoint(path)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request failed: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("building request failed: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.throttle()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.breaker.RecordFailure()
		return &broker.NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.breaker.RecordFailure()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(data) == 0 {
			return &broker.NetworkError{Op: method + " " + path, Err: fmt.Errorf("status %s", resp.Status)}
		}
		return &broker.NetworkError{
			Op:  method + " " + path,
			Err: fmt.Errorf("status %s: %s", resp.Status, strings.TrimSpace(string(data))),
		}
	}
	c.breaker.RecordSuccess()
	if out == nil {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decoding oanda response failed: %w", err)
	}
	return nil
}

func (c *Client) resolveEndpoint(path string) (*url.URL, error) {
	if c.baseURL == nil {
		return nil, &broker.ConfigurationError{Field: "api_url", Reason: "not set"}
	}
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = "/"
	}
	query := ""
	if idx := strings.Index(trimmed, "?"); idx >= 0 {
		query = trimmed[idx+1:]
		trimmed = trimmed[:idx]
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	base := *c.baseURL
	base.Path = strings.TrimSuffix(base.Path, "/") + trimmed
	base.RawPath = ""
	base.RawQuery = query
	base.Fragment = ""
	return &base, nil
}

func (c *Client) accountPath(suffix string) string {
	return "/v3/accounts/" + c.accountID + suffix
}
