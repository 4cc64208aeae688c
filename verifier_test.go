package mailvet

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/quentale/mailvet/cache"
	"github.com/quentale/mailvet/dns"
	"github.com/quentale/mailvet/whois"
)

var verifierNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestVerifier(registration *whois.MockChecker, mail *dns.MockResolver) *Verifier {
	return NewVerifier(registration, mail, WithNow(func() time.Time { return verifierNow }))
}

func TestResolveAliveDomain(t *testing.T) {
	registration := &whois.MockChecker{
		Statuses: map[string]whois.Status{"b.com": whois.StatusAlive},
	}
	mail := &dns.MockResolver{
		MX: map[string][]*net.MX{
			"b.com.": {{Host: "mx1.b.com.", Pref: 10}},
		},
	}

	v := newTestVerifier(registration, mail)
	facts := cache.New()

	fact := v.Resolve(context.Background(), "b.com", facts)

	if !fact.RegistrationAlive {
		t.Error("expected alive registration")
	}
	if !fact.MailExchangeExists {
		t.Error("expected mail-exchange records")
	}
	if !fact.CheckedAt.Equal(verifierNow) {
		t.Errorf("expected checked_at %v, got %v", verifierNow, fact.CheckedAt)
	}

	if _, ok := facts.Get("b.com"); !ok {
		t.Error("expected fact to be cached")
	}
}

func TestResolveDeadDomainShortCircuitsMX(t *testing.T) {
	// Scenario C: the registration check fails, so the fact is all-false
	// and the MX lookup is never invoked.
	registration := &whois.MockChecker{
		Statuses: map[string]whois.Status{"z.io": whois.StatusFailed},
	}
	mail := &dns.MockResolver{}

	v := newTestVerifier(registration, mail)
	fact := v.Resolve(context.Background(), "z.io", cache.New())

	if fact.RegistrationAlive || fact.MailExchangeExists {
		t.Errorf("expected all-false fact, got %+v", fact)
	}
	if got := mail.CallCount("z.io"); got != 0 {
		t.Errorf("MX lookup must not run for a dead domain, got %d calls", got)
	}
}

func TestResolveDeadRegistration(t *testing.T) {
	registration := &whois.MockChecker{
		Statuses: map[string]whois.Status{"d.org": whois.StatusDead},
	}
	mail := &dns.MockResolver{
		// Even configured MX records must not be consulted.
		MX: map[string][]*net.MX{
			"d.org.": {{Host: "mx.d.org.", Pref: 10}},
		},
	}

	v := newTestVerifier(registration, mail)
	fact := v.Resolve(context.Background(), "d.org", cache.New())

	if fact.RegistrationAlive {
		t.Error("expected dead registration")
	}
	if fact.MailExchangeExists {
		t.Error("dead registration must not report mail-exchange records")
	}
	if got := mail.CallCount("d.org"); got != 0 {
		t.Errorf("expected 0 MX lookups, got %d", got)
	}
}

func TestResolveCacheHitSkipsLookups(t *testing.T) {
	// Scenario B: a pre-populated cache short-circuits both lookups and the
	// cached fact is returned unchanged.
	registration := &whois.MockChecker{
		Statuses: map[string]whois.Status{"b.com": whois.StatusDead},
	}
	mail := &dns.MockResolver{}

	cached := cache.Fact{
		RegistrationAlive:  true,
		MailExchangeExists: true,
		CheckedAt:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	facts := cache.New()
	facts.Put("b.com", cached)

	v := newTestVerifier(registration, mail)
	fact := v.Resolve(context.Background(), "b.com", facts)

	if fact != cached {
		t.Errorf("expected cached fact returned unchanged, got %+v", fact)
	}
	if got := registration.CallCount("b.com"); got != 0 {
		t.Errorf("expected 0 registration checks, got %d", got)
	}
	if got := mail.CallCount("b.com"); got != 0 {
		t.Errorf("expected 0 MX lookups, got %d", got)
	}
}

func TestResolveIdempotentWithinRun(t *testing.T) {
	registration := &whois.MockChecker{
		Statuses: map[string]whois.Status{"b.com": whois.StatusAlive},
	}
	mail := &dns.MockResolver{
		MX: map[string][]*net.MX{
			"b.com.": {{Host: "mx1.b.com.", Pref: 10}},
		},
	}

	v := newTestVerifier(registration, mail)
	facts := cache.New()
	ctx := context.Background()

	first := v.Resolve(ctx, "b.com", facts)
	second := v.Resolve(ctx, "b.com", facts)
	third := v.Resolve(ctx, "B.COM", facts)

	if first != second || first != third {
		t.Error("repeated resolution must return equal facts")
	}
	if got := registration.CallCount("b.com"); got != 1 {
		t.Errorf("expected exactly 1 registration check, got %d", got)
	}
	if got := mail.CallCount("b.com"); got != 1 {
		t.Errorf("expected exactly 1 MX lookup, got %d", got)
	}
}

func TestResolveMXFailureAbsorbed(t *testing.T) {
	registration := &whois.MockChecker{
		Statuses: map[string]whois.Status{"b.com": whois.StatusAlive},
	}
	mail := &dns.MockResolver{
		Fail: []string{"b.com."},
	}

	v := newTestVerifier(registration, mail)
	fact := v.Resolve(context.Background(), "b.com", cache.New())

	if !fact.RegistrationAlive {
		t.Error("registration should stay alive")
	}
	if fact.MailExchangeExists {
		t.Error("failed MX lookup must yield false")
	}
}

func TestResolveInvariant(t *testing.T) {
	// For every produced fact: dead registration implies no mail exchange.
	registration := &whois.MockChecker{
		Statuses: map[string]whois.Status{
			"alive.example":  whois.StatusAlive,
			"dead.example":   whois.StatusDead,
			"failed.example": whois.StatusFailed,
		},
	}
	mail := &dns.MockResolver{
		MX: map[string][]*net.MX{
			"alive.example.":  {{Host: "mx.alive.example.", Pref: 10}},
			"dead.example.":   {{Host: "mx.dead.example.", Pref: 10}},
			"failed.example.": {{Host: "mx.failed.example.", Pref: 10}},
		},
	}

	v := newTestVerifier(registration, mail)
	facts := cache.New()

	for _, domain := range []string{"alive.example", "dead.example", "failed.example"} {
		fact := v.Resolve(context.Background(), domain, facts)
		if !fact.RegistrationAlive && fact.MailExchangeExists {
			t.Errorf("%s: invariant violated: %+v", domain, fact)
		}
	}
}
