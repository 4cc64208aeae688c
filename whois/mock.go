package whois

import (
	"context"
	"strings"
)

// MockChecker is a registration checker used for testing.
// Statuses map lower-cased domains to their check outcome; domains not in
// the map report StatusDead. Checks are counted per domain so tests can
// assert how many registry queries an operation would have issued.
type MockChecker struct {
	Statuses map[string]Status

	// Calls counts Check invocations per lower-cased domain.
	Calls map[string]int
}

// Check returns the configured status for the given domain.
func (m *MockChecker) Check(_ context.Context, domain string) Status {
	d := strings.ToLower(strings.TrimSpace(domain))

	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[d]++

	if s, ok := m.Statuses[d]; ok {
		return s
	}
	return StatusDead
}

// CallCount returns the number of checks performed for the given domain.
func (m *MockChecker) CallCount(domain string) int {
	return m.Calls[strings.ToLower(strings.TrimSpace(domain))]
}
