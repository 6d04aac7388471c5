package match

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yl2chen/cidranger"

	"github.com/macropower/netsense/pkg/mac"
)

var errNotAnAddress = errors.New("not an IP address or CIDR network")

// Network is a parsed IP network criterion.
type Network struct {
	ranger cidranger.Ranger
	ipNet  net.IPNet
}

// ParseNetwork parses CIDR notation or a bare address. A bare IPv4 address
// is treated as a /32 network and a bare IPv6 address as a /128 network.
func ParseNetwork(s string) (*Network, error) {
	s = strings.TrimSpace(s)

	var ipNet *net.IPNet

	if strings.Contains(s, "/") {
		_, n, err := net.ParseCIDR(s)
		if err != nil {
			return nil, err //nolint:wrapcheck // Wrapped by FormatError.
		}

		ipNet = n
	} else {
		ip, err := parseIP(s)
		if err != nil {
			return nil, err
		}

		bits := 8 * len(ip)
		ipNet = &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}
	}

	ranger := cidranger.NewPCTrieRanger()

	err := ranger.Insert(cidranger.NewBasicRangerEntry(*ipNet))
	if err != nil {
		return nil, fmt.Errorf("insert network: %w", err)
	}

	return &Network{ipNet: *ipNet, ranger: ranger}, nil
}

// Contains reports whether ip falls within the network.
func (n *Network) Contains(ip net.IP) (bool, error) {
	ok, err := n.ranger.Contains(ip)
	if err != nil {
		return false, fmt.Errorf("lookup %s in %s: %w", ip, n, err)
	}

	return ok, nil
}

func (n *Network) String() string {
	return n.ipNet.String()
}

// Membership evaluates an IP-type criterion. It returns [NoOpinion] when
// value is nil, otherwise [Match] if observed falls within the configured
// network and [NoMatch] if it does not.
func Membership(key string, value *string, observed string) (TriState, error) {
	if value == nil {
		return NoOpinion, nil
	}

	network, err := ParseNetwork(*value)
	if err != nil {
		return NoOpinion, &FormatError{Key: key, Value: *value, Err: err}
	}

	ip, err := parseIP(observed)
	if err != nil {
		return NoOpinion, &FormatError{Key: key, Value: observed, Observed: true, Err: err}
	}

	ok, err := network.Contains(ip)
	if err != nil {
		return NoOpinion, &FormatError{Key: key, Value: observed, Observed: true, Err: err}
	}

	return FromBool(ok), nil
}

// Equality evaluates a MAC-type criterion. It returns [NoOpinion] when value
// is nil, otherwise [Match] if the normalized configured and observed
// addresses are equal and [NoMatch] if they differ.
func Equality(key string, value *string, observed string) (TriState, error) {
	if value == nil {
		return NoOpinion, nil
	}

	configured, err := mac.Normalize(strings.TrimSpace(*value))
	if err != nil {
		return NoOpinion, &FormatError{Key: key, Value: *value, Err: err}
	}

	actual, err := mac.Normalize(strings.TrimSpace(observed))
	if err != nil {
		return NoOpinion, &FormatError{Key: key, Value: observed, Observed: true, Err: err}
	}

	return FromBool(configured == actual), nil
}

// parseIP parses an address, returning the 4-byte form for IPv4.
func parseIP(s string) (net.IP, error) {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return nil, errNotAnAddress
	}

	if v4 := ip.To4(); v4 != nil {
		return v4, nil
	}

	return ip, nil
}
