// Package whois determines domain registration liveness from registry data.
//
// A domain is considered alive when its WHOIS record carries an expiration
// timestamp strictly in the future. Anything else — an unregistered domain,
// an expired registration, a record without a usable expiration, or a failed
// query — is not alive. The Checker keeps the failure cause as a tagged
// Status so callers can log it before collapsing to a boolean.
package whois

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	lxwhois "github.com/likexian/whois"
	"golang.org/x/net/publicsuffix"
)

// Status is the outcome of a registration check.
type Status int

const (
	// StatusFailed means the registry query itself could not complete.
	StatusFailed Status = iota

	// StatusDead means the domain is unregistered, expired, or its record
	// carries no usable expiration.
	StatusDead

	// StatusAlive means the domain is registered with a future expiration.
	StatusAlive
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusAlive:
		return "alive"
	case StatusDead:
		return "dead"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Alive reports whether the status collapses to a positive liveness result.
// Failed statuses are not alive: the check fails closed.
func (s Status) Alive() bool {
	return s == StatusAlive
}

// Fetcher performs the raw registry query for a domain.
type Fetcher interface {
	Fetch(ctx context.Context, domain string) (string, error)
}

// FetchFunc adapts a function to the Fetcher interface.
type FetchFunc func(ctx context.Context, domain string) (string, error)

// Fetch calls f.
func (f FetchFunc) Fetch(ctx context.Context, domain string) (string, error) {
	return f(ctx, domain)
}

// Client is a Fetcher backed by github.com/likexian/whois.
type Client struct {
	client *lxwhois.Client
}

// NewClient creates a WHOIS client with the given query timeout.
func NewClient(timeout time.Duration) *Client {
	c := lxwhois.NewClient()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &Client{client: c}
}

// Fetch queries the registry for the given domain. The underlying client
// enforces its own dial timeout; the context is not consulted mid-query.
func (c *Client) Fetch(_ context.Context, domain string) (string, error) {
	return c.client.Whois(domain)
}

// Checker classifies domain registration liveness from registry responses.
type Checker struct {
	fetcher Fetcher
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger used for absorbed lookup failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) { c.logger = l }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(c *Checker) { c.now = now }
}

// NewChecker creates a Checker on top of the given Fetcher.
func NewChecker(f Fetcher, opts ...Option) *Checker {
	c := &Checker{
		fetcher: f,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check determines registration liveness for the given domain.
// The query targets the registrable domain (eTLD+1), so a check for
// mail.example.co.uk consults the registration of example.co.uk.
func (c *Checker) Check(ctx context.Context, domain string) Status {
	target := RegistrableDomain(domain)

	raw, err := c.fetcher.Fetch(ctx, target)
	if err != nil {
		c.logger.Debug("whois query failed", "domain", target, "error", err)
		return StatusFailed
	}

	exp, ok := expirationTime(raw)
	if !ok {
		c.logger.Debug("whois record has no usable expiration", "domain", target)
		return StatusDead
	}

	if exp.After(c.now().UTC()) {
		return StatusAlive
	}
	return StatusDead
}

// RegistrableDomain returns the domain directly under the public suffix
// (eTLD+1). For example sub.example.co.uk yields example.co.uk. When the
// registrable domain cannot be determined the input is returned lower-cased
// as-is, which handles hosts like "localhost".
func RegistrableDomain(domain string) string {
	domain = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
	if domain == "" {
		return ""
	}

	etld1, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return domain
	}
	return etld1
}
