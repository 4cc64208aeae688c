package whois

import (
	"strings"
	"time"

	whoisparser "github.com/likexian/whois-parser"
)

// expiryKeys are the record labels scanned for an expiration value when the
// structured parser cannot produce one. Matched case-insensitively; the
// first line carrying any of these keys wins.
var expiryKeys = []string{
	"registry expiry date",
	"registrar registration expiration date",
	"expiration date",
	"expiration time",
	"expiry date",
	"paid-till",
	"expires",
}

// timestampLayouts are tried in order when parsing expiration text.
// Layouts without a zone produce UTC times.
var timestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
}

// expirationTime extracts the expiration timestamp from a raw WHOIS
// response. It prefers the structured parser and falls back to scanning the
// response for a known expiry label. The second return value is false when
// no expiration could be extracted or parsed.
func expirationTime(raw string) (time.Time, bool) {
	if info, err := whoisparser.Parse(raw); err == nil && info.Domain != nil {
		if info.Domain.ExpirationDateInTime != nil {
			return info.Domain.ExpirationDateInTime.UTC(), true
		}
		if t, ok := parseTimestamp(info.Domain.ExpirationDate); ok {
			return t, true
		}
	}

	return scanExpiration(raw)
}

// scanExpiration finds the first line carrying a known expiry key and
// parses its value.
func scanExpiration(raw string) (time.Time, bool) {
	for _, line := range strings.Split(raw, "\n") {
		lower := strings.ToLower(line)

		matched := false
		for _, key := range expiryKeys {
			if strings.Contains(lower, key) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		_, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		if t, ok := parseTimestamp(value); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseTimestamp parses an expiration value as an ISO-8601 style timestamp.
// A trailing literal Z is accepted as the UTC offset; values without a zone
// are treated as UTC.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}
