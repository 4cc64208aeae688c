package mailvet

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/quentale/mailvet/cache"
	"github.com/quentale/mailvet/dns"
	"github.com/quentale/mailvet/whois"
)

// RegistrationChecker determines registration liveness for a domain.
// whois.Checker is the production implementation.
type RegistrationChecker interface {
	Check(ctx context.Context, domain string) whois.Status
}

// Verifier resolves domain liveness facts through a cache.
//
// A Verifier owns no state of its own; the cache passed to Resolve carries
// all cross-address state for a run. Not safe for concurrent use against
// the same cache.
type Verifier struct {
	registration RegistrationChecker
	mail         dns.Resolver
	logger       *slog.Logger
	now          func() time.Time
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithLogger sets the logger used for cache and lookup events.
func WithLogger(l *slog.Logger) VerifierOption {
	return func(v *Verifier) { v.logger = l }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) VerifierOption {
	return func(v *Verifier) { v.now = now }
}

// NewVerifier creates a Verifier from the two lookup collaborators.
func NewVerifier(registration RegistrationChecker, mail dns.Resolver, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		registration: registration,
		mail:         mail,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Resolve returns the liveness fact for a domain, consulting the cache
// first. On a hit the cached fact is returned unchanged with no lookups and
// no cache mutation. On a miss the registration is checked; the MX lookup
// only runs when the registration is alive. The resulting fact is stamped
// with the current UTC instant and written to the cache, so repeated calls
// for the same domain within a run perform the lookups at most once.
//
// Lookup failures never surface as errors: both checks fail closed into
// false fact values.
func (v *Verifier) Resolve(ctx context.Context, domain string, c *cache.Cache) cache.Fact {
	domain = cache.NormalizeDomain(domain)

	if fact, ok := c.Get(domain); ok {
		v.logger.Debug("domain cache hit", "domain", domain)
		return fact
	}

	status := v.registration.Check(ctx, domain)
	if status == whois.StatusFailed {
		v.logger.Warn("registration lookup failed, treating domain as dead", "domain", domain)
	}

	alive := status.Alive()
	mx := false
	if alive {
		// MX is only worth asking about for a live registration; a dead
		// domain's records are never trusted.
		mx = dns.HasMailExchange(ctx, v.mail, domain)
	}

	fact := cache.NewFact(alive, mx, v.now())
	c.Put(domain, fact)

	v.logger.Debug("domain resolved",
		"domain", domain,
		"registration", status.String(),
		"mail_exchange", mx,
	)
	return fact
}
