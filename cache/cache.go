// Package cache holds resolved domain facts and persists them across runs.
//
// A Fact records what was learned about one domain: whether its registration
// is alive, whether it has mail-exchange records, and when the resolution
// was performed. Facts live in an in-memory Cache for the duration of a run
// and are snapshotted through a Store at the end. Snapshots never expire:
// a cached fact is trusted until the snapshot is deleted.
package cache

import (
	"sort"
	"strings"
	"time"
)

// Fact is the cached outcome of resolving one domain.
//
// Invariant: a dead registration never reports mail-exchange records.
// NewFact and Cache.Put both enforce it.
type Fact struct {
	RegistrationAlive  bool
	MailExchangeExists bool

	// CheckedAt is when the resolution was performed, in UTC.
	CheckedAt time.Time

	// CheckedAtRaw preserves a snapshot timestamp that could not be parsed,
	// so it survives a load/save round trip as opaque text.
	CheckedAtRaw string
}

// NewFact builds a Fact, forcing the mail-exchange flag to false when the
// registration is not alive.
func NewFact(alive, mx bool, checkedAt time.Time) Fact {
	if !alive {
		mx = false
	}
	return Fact{
		RegistrationAlive:  alive,
		MailExchangeExists: mx,
		CheckedAt:          checkedAt.UTC(),
	}
}

// CheckedAtText returns the timestamp to persist for the fact. An opaque
// raw value wins, then the recorded time; a fact missing both is stamped
// with now.
func (f Fact) CheckedAtText(now time.Time) string {
	if f.CheckedAtRaw != "" {
		return f.CheckedAtRaw
	}
	if !f.CheckedAt.IsZero() {
		return f.CheckedAt.UTC().Format(time.RFC3339)
	}
	return now.UTC().Format(time.RFC3339)
}

// checkedAtLayouts are tried in order when parsing snapshot timestamps.
// The naive layout covers timestamps written without a zone; they are
// treated as UTC.
var checkedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// parseCheckedAt parses a snapshot timestamp. The raw text is returned for
// retention when no layout matches.
func parseCheckedAt(s string) (time.Time, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ""
	}
	for _, layout := range checkedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), ""
		}
	}
	return time.Time{}, s
}

// NormalizeDomain lower-cases and trims a cache key.
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// Cache maps lower-cased domains to facts. It is owned by a single run and
// is not safe for concurrent use.
type Cache struct {
	facts map[string]Fact
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{facts: make(map[string]Fact)}
}

// Get returns the fact for the given domain, if present.
func (c *Cache) Get(domain string) (Fact, bool) {
	f, ok := c.facts[NormalizeDomain(domain)]
	return f, ok
}

// Put inserts or fully replaces the fact for the given domain. Empty keys
// are ignored; the dead-registration invariant is enforced on write.
func (c *Cache) Put(domain string, f Fact) {
	key := NormalizeDomain(domain)
	if key == "" {
		return
	}
	if !f.RegistrationAlive {
		f.MailExchangeExists = false
	}
	c.facts[key] = f
}

// Len returns the number of cached domains.
func (c *Cache) Len() int {
	return len(c.facts)
}

// Domains returns the cached domains in sorted order, so snapshots are
// deterministic.
func (c *Cache) Domains() []string {
	domains := make([]string, 0, len(c.facts))
	for d := range c.facts {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}
