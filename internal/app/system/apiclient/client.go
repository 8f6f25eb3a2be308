// internal/app/system/apiclient/client.go
//
// Package apiclient talks to the backend REST API that owns employees,
// coupons, analytics, notifications and the marketing content. Every
// screen in this app is a view over one or more of these calls.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxErrorBody bounds how much of a failed response we read for the message.
const maxErrorBody = 64 << 10

// Config configures a Client.
type Config struct {
	BaseURL       string        // e.g. http://127.0.0.1:8000
	Timeout       time.Duration // per-call deadline; 0 means 10s
	RatePerSecond float64       // client-side throttle; 0 disables
	Burst         int
	HTTPClient    *http.Client // optional; defaults to an otelhttp-instrumented client
	Metrics       *Metrics     // optional
}

// Client is safe for concurrent use.
type Client struct {
	base    string
	http    *http.Client
	timeout time.Duration
	limiter *rate.Limiter
	metrics *Metrics
	log     *zap.Logger
}

// New validates cfg and returns a Client.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("apiclient: invalid base URL %q", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var lim *rate.Limiter
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		base:    base,
		http:    hc,
		timeout: timeout,
		limiter: lim,
		metrics: cfg.Metrics,
		log:     logger,
	}, nil
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string { return c.base }

// call describes one backend request.
type call struct {
	op     string // metrics label, e.g. "employees.list"
	method string
	path   string
	query  url.Values
	body   any
	out    any
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, out any) error {
	return c.do(ctx, call{op: op, method: http.MethodGet, path: path, query: q, out: out})
}

func (c *Client) send(ctx context.Context, op, method, path string, body, out any) error {
	return c.do(ctx, call{op: op, method: method, path: path, body: body, out: out})
}

func (c *Client) do(ctx context.Context, k call) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s %s: throttled: %w", k.method, k.path, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.base + k.path
	if len(k.query) > 0 {
		target += "?" + k.query.Encode()
	}

	var body io.Reader
	if k.body != nil {
		buf, err := json.Marshal(k.body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", k.method, k.path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, k.method, target, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", k.method, k.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if k.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(k.op, 0, elapsed)
		c.log.Warn("backend call failed",
			zap.String("method", k.method),
			zap.String("path", k.path),
			zap.Duration("duration", elapsed),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", k.method, k.path, err)
	}
	defer resp.Body.Close()
	c.metrics.observe(k.op, resp.StatusCode, elapsed)

	if resp.StatusCode >= 400 {
		apiErr := parseError(resp, k.path)
		c.log.Warn("backend returned error",
			zap.String("method", k.method),
			zap.String("path", k.path),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", elapsed),
			zap.String("message", apiErr.Message))
		return apiErr
	}

	if k.out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(k.out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("%s %s: decode response: %w", k.method, k.path, err)
	}
	return nil
}

// Ping checks that the backend answers. Used by /health.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "test", "/api/test", nil, nil)
}
