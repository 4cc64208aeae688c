// Package dns provides mail-exchange record lookups for domain
// deliverability classification.
//
// The package exposes a small Resolver interface with two production
// implementations: MXResolver built on github.com/miekg/dns with
// configurable nameservers, and StdResolver built on net.Resolver. A
// MockResolver with call counting is provided for tests.
package dns

import (
	"context"
	"errors"
	"net"
)

// DNS lookup errors.
var (
	// ErrDNSNotFound indicates the domain or record does not exist (NXDOMAIN
	// or an empty answer section).
	ErrDNSNotFound = errors.New("dns: record not found")

	// ErrDNSTimeout indicates the query timed out.
	ErrDNSTimeout = errors.New("dns: query timeout")

	// ErrDNSServFail indicates the server returned SERVFAIL or a temporary
	// failure occurred.
	ErrDNSServFail = errors.New("dns: server failure")

	// ErrDNSRefused indicates the server refused the query.
	ErrDNSRefused = errors.New("dns: query refused")
)

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDNSNotFound)
}

// IsTimeout reports whether the error indicates a query timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrDNSTimeout)
}

// IsServFail reports whether the error indicates a server failure.
func IsServFail(err error) bool {
	return errors.Is(err, ErrDNSServFail)
}

// IsTemporary reports whether the error may succeed on retry.
func IsTemporary(err error) bool {
	return IsTimeout(err) || IsServFail(err)
}

// Resolver is the interface for mail-exchange lookups.
type Resolver interface {
	// LookupMX retrieves MX records for the given domain.
	// It returns ErrDNSNotFound when the domain has no MX records.
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

// HasMailExchange reports whether the domain has at least one MX record.
// Any lookup failure yields false: a domain that cannot be resolved is
// treated as unable to receive mail rather than surfacing the error.
func HasMailExchange(ctx context.Context, r Resolver, domain string) bool {
	records, err := r.LookupMX(ctx, domain)
	return err == nil && len(records) > 0
}
