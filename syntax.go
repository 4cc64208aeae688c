package mailvet

import (
	"regexp"
	"strings"
)

// addressPattern is deliberately permissive, not RFC 5322: something before
// the @, something after it, and at least one dot in the domain part. No
// whitespace or second @ anywhere.
var addressPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsValidAddress reports whether the candidate string looks like an email
// address. Surrounding whitespace is trimmed first; empty input is invalid.
func IsValidAddress(address string) bool {
	address = strings.TrimSpace(address)
	if address == "" {
		return false
	}
	return addressPattern.MatchString(address)
}

// ExtractDomain returns the lower-cased domain part of the address:
// everything after the first @. The address should already have passed
// IsValidAddress; an address without an @ yields ErrMissingAtSign.
func ExtractDomain(address string) (string, error) {
	_, domain, found := strings.Cut(strings.TrimSpace(address), "@")
	if !found {
		return "", ErrMissingAtSign
	}
	return strings.ToLower(domain), nil
}
