package whois

import (
	"context"
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusAlive, "alive"},
		{StatusDead, "dead"},
		{StatusFailed, "failed"},
		{Status(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatusAlive(t *testing.T) {
	if !StatusAlive.Alive() {
		t.Error("StatusAlive should be alive")
	}
	if StatusDead.Alive() {
		t.Error("StatusDead should not be alive")
	}
	// Failed collapses to not-alive: fail-closed.
	if StatusFailed.Alive() {
		t.Error("StatusFailed should not be alive")
	}
}

func TestCheckerAlive(t *testing.T) {
	fetcher := FetchFunc(func(_ context.Context, domain string) (string, error) {
		return "Domain Name: b.com\nRegistry Expiry Date: 2099-01-01T00:00:00Z\n", nil
	})

	c := NewChecker(fetcher, WithNow(fixedNow))

	if got := c.Check(context.Background(), "b.com"); got != StatusAlive {
		t.Errorf("Check(b.com) = %v, want alive", got)
	}
}

func TestCheckerExpired(t *testing.T) {
	fetcher := FetchFunc(func(_ context.Context, domain string) (string, error) {
		return "Domain Name: d.org\nRegistry Expiry Date: 2020-01-01T00:00:00Z\n", nil
	})

	c := NewChecker(fetcher, WithNow(fixedNow))

	if got := c.Check(context.Background(), "d.org"); got != StatusDead {
		t.Errorf("Check(d.org) = %v, want dead", got)
	}
}

func TestCheckerExpirationAtNowIsDead(t *testing.T) {
	// Liveness requires the expiration to be strictly after now.
	fetcher := FetchFunc(func(_ context.Context, domain string) (string, error) {
		return "Registry Expiry Date: " + testNow.Format(time.RFC3339) + "\n", nil
	})

	c := NewChecker(fetcher, WithNow(fixedNow))

	if got := c.Check(context.Background(), "edge.example"); got != StatusDead {
		t.Errorf("Check at exact expiration = %v, want dead", got)
	}
}

func TestCheckerNoExpiration(t *testing.T) {
	fetcher := FetchFunc(func(_ context.Context, domain string) (string, error) {
		return "Domain Name: x.net\nRegistrar: Example Registrar\n", nil
	})

	c := NewChecker(fetcher, WithNow(fixedNow))

	if got := c.Check(context.Background(), "x.net"); got != StatusDead {
		t.Errorf("Check without expiration = %v, want dead", got)
	}
}

func TestCheckerQueryFailure(t *testing.T) {
	fetcher := FetchFunc(func(_ context.Context, domain string) (string, error) {
		return "", errors.New("connection refused")
	})

	c := NewChecker(fetcher, WithNow(fixedNow))

	if got := c.Check(context.Background(), "z.io"); got != StatusFailed {
		t.Errorf("Check with failing fetcher = %v, want failed", got)
	}
}

func TestCheckerQueriesRegistrableDomain(t *testing.T) {
	var queried string
	fetcher := FetchFunc(func(_ context.Context, domain string) (string, error) {
		queried = domain
		return "Registry Expiry Date: 2099-01-01T00:00:00Z\n", nil
	})

	c := NewChecker(fetcher, WithNow(fixedNow))
	c.Check(context.Background(), "mail.example.co.uk")

	if queried != "example.co.uk" {
		t.Errorf("expected query for example.co.uk, got %q", queried)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{
			name:  "rfc3339 with Z",
			input: "2024-05-01T10:00:00Z",
			want:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "rfc3339 with explicit offset",
			input: "2024-05-01T12:00:00+02:00",
			want:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "naive datetime treated as UTC",
			input: "2024-05-01T10:00:00",
			want:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "space-separated datetime",
			input: "2024-05-01 10:00:00",
			want:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "date only",
			input: "2024-05-01",
			want:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "surrounding whitespace",
			input: "  2024-05-01T10:00:00Z  ",
			want:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "garbage",
			input: "not a date",
			ok:    false,
		},
		{
			name:  "empty",
			input: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTimestamp(tt.input)
			if ok != tt.ok {
				t.Fatalf("parseTimestamp(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestScanExpirationFirstCandidateWins(t *testing.T) {
	raw := "Registrar: Example\n" +
		"Registry Expiry Date: 2030-01-01T00:00:00Z\n" +
		"Expiration Date: 2040-01-01T00:00:00Z\n"

	got, ok := scanExpiration(raw)
	if !ok {
		t.Fatal("expected an expiration")
	}

	want := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("scanExpiration = %v, want first candidate %v", got, want)
	}
}

func TestScanExpirationRuStyle(t *testing.T) {
	got, ok := scanExpiration("paid-till: 2030.06.15\n")
	if !ok {
		t.Fatal("expected an expiration")
	}
	if got.Year() != 2030 || got.Month() != time.June || got.Day() != 15 {
		t.Errorf("unexpected time %v", got)
	}
}

func TestScanExpirationUnparseable(t *testing.T) {
	if _, ok := scanExpiration("Expiration Date: soon\n"); ok {
		t.Error("expected no expiration for unparseable value")
	}
}

func TestRegistrableDomain(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"example.com", "example.com"},
		{"sub.example.com", "example.com"},
		{"mail.example.co.uk", "example.co.uk"},
		{"Example.COM.", "example.com"},
		{"localhost", "localhost"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := RegistrableDomain(tt.input); got != tt.want {
			t.Errorf("RegistrableDomain(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMockCheckerCounting(t *testing.T) {
	mock := &MockChecker{
		Statuses: map[string]Status{"b.com": StatusAlive},
	}

	ctx := context.Background()
	mock.Check(ctx, "b.com")
	mock.Check(ctx, "B.COM")

	if got := mock.CallCount("b.com"); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
	if got := mock.Check(ctx, "unknown.example"); got != StatusDead {
		t.Errorf("unknown domain = %v, want dead", got)
	}
}
