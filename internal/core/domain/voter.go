package domain

import (
	"fmt"
	"net/netip"
)

// VoterFromAddr turns a peer address into the single-address network used
// as voter identity. IPv4-mapped IPv6 addresses are unmapped first so the
// same client always yields the same voter.
func VoterFromAddr(addr netip.Addr) (netip.Prefix, error) {
	if !addr.IsValid() {
		return netip.Prefix{}, fmt.Errorf("invalid voter address")
	}
	addr = addr.Unmap().WithZone("")
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// ParseVoter accepts either a bare address ("10.0.0.1") or a network
// ("10.0.0.1/32") as found in storage and returns the voter identity.
func ParseVoter(s string) (netip.Prefix, error) {
	if prefix, err := netip.ParsePrefix(s); err == nil {
		return VoterFromAddr(prefix.Addr())
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid voter address %q: %w", s, err)
	}
	return VoterFromAddr(addr)
}
