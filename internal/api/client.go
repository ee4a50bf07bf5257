// Package api provides the HTTP client for the chat endpoint.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/diogo/mcchat/internal/config"
	"github.com/diogo/mcchat/internal/models"
	"github.com/diogo/mcchat/internal/telemetry"
)

// ChatClient sends one user message and returns the decoded reply
type ChatClient interface {
	Send(ctx context.Context, text string) (*models.Reply, error)
	Endpoint() string
}

// Client posts chat messages to a fixed endpoint
type Client struct {
	httpClient  tls_client.HttpClient
	endpoint    string
	companion   bool
	restrict    bool
	timeout     time.Duration
	logger      *slog.Logger
	tracer      trace.Tracer
	instruments *telemetry.Instruments
	mu          sync.RWMutex
	closed      bool
}

// Ensure Client implements ChatClient
var _ ChatClient = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithEndpoint sets the URL messages are posted to
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithCompanionMode adds the companion flag to every request
func WithCompanionMode(enabled bool) ClientOption {
	return func(c *Client) {
		c.companion = enabled
	}
}

// WithRestrictScope asks the server to keep answers to its own subject area
func WithRestrictScope(enabled bool) ClientOption {
	return func(c *Client) {
		c.restrict = enabled
	}
}

// WithTimeout bounds each request. Zero, the default, means no timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTelemetry sets the tracer and instruments from a telemetry provider
func WithTelemetry(p *telemetry.Provider) ClientOption {
	return func(c *Client) {
		if p == nil {
			return
		}
		c.tracer = p.Tracer()
		c.instruments = p.Instruments()
	}
}

// WithTracer sets the tracer used for request spans
func WithTracer(tracer trace.Tracer) ClientOption {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// WithHTTPClient replaces the underlying transport
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		endpoint: models.DefaultEndpoint,
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := config.ValidateEndpoint(client.endpoint); err != nil {
		return nil, err
	}
	if client.timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative")
	}
	if client.logger == nil {
		client.logger = slog.Default()
	}
	if client.tracer == nil {
		client.tracer = tracenoop.NewTracerProvider().Tracer("mcchat")
	}

	if client.httpClient == nil {
		// tls-client defaults to a 30s timeout; zero disables it.
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutMilliseconds(int(client.timeout / time.Millisecond)),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// NewClientFromConfig creates a Client from user configuration
func NewClientFromConfig(cfg config.Config, opts ...ClientOption) (*Client, error) {
	base := []ClientOption{
		WithEndpoint(cfg.Endpoint),
		WithCompanionMode(cfg.CompanionMode),
		WithRestrictScope(cfg.RestrictScope),
		WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second),
	}
	return NewClient(append(base, opts...)...)
}

// Endpoint returns the URL messages are posted to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// CompanionMode reports whether requests carry the companion flag
func (c *Client) CompanionMode() bool {
	return c.companion
}

// RestrictScope reports whether requests carry the restrict_scope flag
func (c *Client) RestrictScope() bool {
	return c.restrict
}

// Close releases idle connections. Further sends fail.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
