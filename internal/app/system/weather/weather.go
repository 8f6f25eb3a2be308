// internal/app/system/weather/weather.go
//
// Package weather fetches forecasts from weatherapi.com for the
// marketing site's weather widget.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultBaseURL is the weatherapi.com v1 root.
const DefaultBaseURL = "https://api.weatherapi.com/v1"

var (
	ErrEmpty      = errors.New("Empty response from WeatherAPI")
	ErrIncomplete = errors.New("Missing weather data (current or forecast)")
	ErrNoKey      = errors.New("weather API key is not configured")
)

// UpstreamError is a non-2xx answer from weatherapi.com.
type UpstreamError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("WeatherAPI error: %d %s", e.Status, e.StatusText)
}

// Client calls the forecast endpoint.
type Client struct {
	base string
	key  string
	http *http.Client
}

// New builds a client. An empty base uses DefaultBaseURL.
func New(base, key string, timeout time.Duration) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		key:  key,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Forecast returns the raw four-day forecast JSON for lat,lon.
func (c *Client) Forecast(ctx context.Context, lat, lon string) (json.RawMessage, error) {
	if c.key == "" {
		return nil, ErrNoKey
	}
	q := url.Values{}
	q.Set("key", c.key)
	q.Set("q", lat+","+lon)
	q.Set("days", "4")
	q.Set("aqi", "no")
	q.Set("alerts", "no")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/forecast.json?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("weather read: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, ErrEmpty
	}

	var shape struct {
		Current  json.RawMessage `json:"current"`
		Forecast json.RawMessage `json:"forecast"`
	}
	if err := json.Unmarshal(body, &shape); err != nil {
		return nil, fmt.Errorf("weather decode: %w", err)
	}
	if isNull(shape.Current) || isNull(shape.Forecast) {
		return nil, ErrIncomplete
	}
	return json.RawMessage(body), nil
}

func isNull(m json.RawMessage) bool {
	s := strings.TrimSpace(string(m))
	return s == "" || s == "null"
}
