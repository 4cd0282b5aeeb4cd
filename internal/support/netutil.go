package support

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

var (
	// ErrInvalidCIDR marks input that does not parse as an IPv4 or IPv6 network.
	ErrInvalidCIDR = errors.New("invalid CIDR notation")

	// ErrInvalidIP marks input that does not parse as an IPv4 or IPv6 address.
	ErrInvalidIP = errors.New("invalid IP address")
)

// ParseCIDR parses and normalizes CIDR text. Host bits are collapsed, so
// "173.99.253.17/24" comes back as 173.99.253.0/24. Mapped IPv4-in-IPv6
// prefixes are not unwrapped; families stay as written.
func ParseCIDR(raw string) (netip.Prefix, error) {
	prefix, err := netip.ParsePrefix(strings.TrimSpace(raw))
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("%w: %q", ErrInvalidCIDR, raw)
	}
	return prefix.Masked(), nil
}

// ParseIP parses a single address. IPv4-mapped IPv6 addresses are unmapped so
// that "::ffff:10.0.0.5" and "10.0.0.5" compare equal everywhere downstream.
func ParseIP(raw string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil || addr.Zone() != "" {
		return netip.Addr{}, fmt.Errorf("%w: %q", ErrInvalidIP, raw)
	}
	return addr.Unmap(), nil
}
