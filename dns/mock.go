package dns

import (
	"context"
	"net"
	"slices"
	"strings"
)

// MockResolver is a Resolver used for testing.
// Set MX records in the MX field, which maps FQDNs (with trailing dot) to
// values. Lookups are counted per FQDN so tests can assert how many network
// queries an operation would have issued.
type MockResolver struct {
	MX map[string][]*net.MX

	// Fail contains FQDNs that will return a temporary error (SERVFAIL).
	Fail []string

	// Calls counts LookupMX invocations per FQDN.
	Calls map[string]int
}

var _ Resolver = (*MockResolver)(nil)

// ensureFQDN ensures the name ends with a dot.
func ensureFQDN(name string) string {
	if len(name) == 0 || name[len(name)-1] != '.' {
		return name + "."
	}
	return name
}

// LookupMX returns the configured MX records for the given domain.
func (r *MockResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	fqdn := ensureFQDN(strings.ToLower(domain))

	if r.Calls == nil {
		r.Calls = make(map[string]int)
	}
	r.Calls[fqdn]++

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if slices.Contains(r.Fail, fqdn) {
		return nil, ErrDNSServFail
	}

	records, ok := r.MX[fqdn]
	if !ok || len(records) == 0 {
		return nil, ErrDNSNotFound
	}

	return records, nil
}

// CallCount returns the number of lookups performed for the given domain.
func (r *MockResolver) CallCount(domain string) int {
	return r.Calls[ensureFQDN(strings.ToLower(domain))]
}
