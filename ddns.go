package zeddns

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout is applied to every network call when WithTimeout is not used.
const DefaultTimeout = 10 * time.Second

// New builds a Client from the given options.
//
// A provider option is required - use zeddns.UsingZoneEdit or similar.
// When no resolver option is given, the client detects the public IPv4
// with a WebResolver over DefaultIPServices.
func New(options ...Option) (*Client, error) {
	c := &Client{
		logger:  zerolog.Nop(),
		timeout: DefaultTimeout,
	}
	for i, opt := range options {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("zeddns.New: option %d returned an error: %w", i, err)
		}
	}

	if c.Provider == nil {
		return nil, fmt.Errorf("zeddns.New: no DDNS provider was registered - use zeddns.UsingZoneEdit or similar")
	}
	if c.Resolver == nil {
		c.Resolver = WebResolver(DefaultIPServices...)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}

	// re-apply so dependencies registered after WithLogger/UsingHTTPClient
	// still receive the shared logger and http client
	usingHTTPClient(c.httpClient)(c)
	withLogger(c.logger)(c)
	return c, nil
}

// Option configures a Client during New.
type Option func(*Client) error

// UsingZoneEdit registers the ZoneEdit dyn update endpoint as the provider.
func UsingZoneEdit(user, token string) Option {
	return func(c *Client) error {
		c.Provider = NewZoneEdit(user, token)
		return nil
	}
}

// UsingCloudflare registers a Cloudflare API provider.
func UsingCloudflare(token string) Option {
	return func(c *Client) (err error) {
		if c.Provider, err = NewCloudflare(token); err != nil {
			return fmt.Errorf("zeddns.UsingCloudflare: error creating cloudflare DNS provider: %w", err)
		}
		return nil
	}
}

// UsingProvider registers an arbitrary provider implementation.
func UsingProvider(p Provider) Option {
	return func(c *Client) error {
		c.Provider = p
		return nil
	}
}

// UsingResolver registers the resolver used to detect the IP to publish.
// A nil resolver restores the default web detection.
func UsingResolver(resolver Resolver) Option {
	return func(c *Client) error {
		if resolver == nil {
			resolver = WebResolver(DefaultIPServices...)
		}
		c.Resolver = resolver
		return nil
	}
}

// UsingWebResolver registers a web resolver over the given IP-echo services.
func UsingWebResolver(serviceURL ...string) Option {
	return func(c *Client) error {
		c.Resolver = WebResolver(serviceURL...)
		return nil
	}
}

// WithTimeout sets the timeout applied to each individual network call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			d = DefaultTimeout
		}
		c.timeout = d
		return nil
	}
}

// UsingHTTPClient replaces the http client shared by the resolver and provider.
func UsingHTTPClient(httpclient *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = httpclient
		return nil
	}
}

func usingHTTPClient(httpclient *http.Client) Option {
	return func(c *Client) error {
		if httpclient == nil {
			httpclient = http.DefaultClient
		}
		type setHTTPClient interface {
			SetHTTPClient(*http.Client)
		}
		if r, ok := c.Resolver.(setHTTPClient); ok {
			r.SetHTTPClient(httpclient)
		}
		if p, ok := c.Provider.(setHTTPClient); ok {
			p.SetHTTPClient(httpclient)
		}
		return nil
	}
}

// WithLogger sets the logger used for diagnostic output.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

func withLogger(logger zerolog.Logger) Option {
	return func(c *Client) error {
		type setLogger interface {
			SetLogger(zerolog.Logger)
		}
		if r, ok := c.Resolver.(setLogger); ok {
			r.SetLogger(logger)
		}
		if p, ok := c.Provider.(setLogger); ok {
			p.SetLogger(logger)
		}
		return nil
	}
}

// Client bundles IP detection and record updates for one run.
// It should be constructed with New.
type Client struct {
	Resolver
	Provider
	httpClient *http.Client
	logger     zerolog.Logger
	timeout    time.Duration
}
