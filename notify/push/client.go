// Package push implements the Notifier interface against an HTTP
// push-delivery gateway (FCM-style: token plus title/body/data payload).
package push

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
)

// Config holds the delivery gateway settings.
type Config struct {
	// Endpoint is the full URL messages are POSTed to.
	Endpoint string
	// APIKey, if set, is sent as a Bearer token.
	APIKey string
	// Timeout bounds a single delivery attempt.
	Timeout time.Duration
	// Breaker tunes the circuit breaker guarding the gateway.
	Breaker BreakerConfig
}

// BreakerConfig tunes the delivery circuit breaker.
type BreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
}

// DefaultConfig returns settings suitable for a local gateway.
func DefaultConfig() Config {
	return Config{
		Timeout: 5 * time.Second,
		Breaker: BreakerConfig{
			MaxRequests:  1,
			Interval:     30 * time.Second,
			Timeout:      15 * time.Second,
			FailureRatio: 0.6,
		},
	}
}

// Client sends notifications over HTTP. The engine never retries delivery;
// the breaker only stops hammering a gateway that is already failing.
type Client struct {
	http *resty.Client
	cb   *gobreaker.CircuitBreaker[*resty.Response]
}

type message struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// New creates a push client for the configured gateway.
func New(cfg Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(cfg.Timeout)
	if cfg.APIKey != "" {
		httpClient.SetAuthToken(cfg.APIKey)
	}

	settings := gobreaker.Settings{
		Name:        "push-gateway",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && ratio >= cfg.Breaker.FailureRatio
		},
	}

	return &Client{
		http: httpClient,
		cb:   gobreaker.NewCircuitBreaker[*resty.Response](settings),
	}
}

// NewWithHTTPClient creates a Client with an injected resty client (tests).
func NewWithHTTPClient(httpClient *resty.Client, cfg Config) *Client {
	c := New(cfg)
	c.http = httpClient
	return c
}

// Send attempts a single delivery. Any non-2xx response counts as a failure.
func (c *Client) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	_, err := c.cb.Execute(func() (*resty.Response, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(message{Token: token, Title: title, Body: body, Data: data}).
			Post("")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("push gateway returned status %d", resp.StatusCode())
		}
		return resp, nil
	})
	if err != nil {
		return fmt.Errorf("sending push notification: %w", err)
	}
	return nil
}
