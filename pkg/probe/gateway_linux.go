//go:build linux

package probe

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
)

type netlinkTable struct{}

// SystemRouteTable returns the host's route table, read via netlink.
//
//nolint:ireturn // Platform-specific implementation.
func SystemRouteTable() RouteTable {
	return netlinkTable{}
}

// DefaultRoute returns the default IPv4 route with the lowest metric.
func (netlinkTable) DefaultRoute() (Route, error) {
	routes, err := netlink.RouteList(nil, netlink.FAMILY_V4)
	if err != nil {
		return Route{}, fmt.Errorf("list routes: %w", err)
	}

	var (
		best  *netlink.Route
		found bool
	)

	for i := range routes {
		r := &routes[i]
		if r.Gw == nil || !isDefault(r.Dst) {
			continue
		}

		if !found || r.Priority < best.Priority {
			best = r
			found = true
		}
	}

	if !found {
		return Route{}, ErrNoDefaultRoute
	}

	return Route{Gateway: best.Gw, LinkIndex: best.LinkIndex}, nil
}

// Neighbor looks up the gateway in the IPv4 neighbor table of the route's
// link. Entries in the FAILED or INCOMPLETE state are ignored.
func (netlinkTable) Neighbor(r Route) (net.HardwareAddr, error) {
	neighs, err := netlink.NeighList(r.LinkIndex, netlink.FAMILY_V4)
	if err != nil {
		return nil, fmt.Errorf("list neighbors: %w", err)
	}

	for _, n := range neighs {
		if !n.IP.Equal(r.Gateway) || len(n.HardwareAddr) == 0 {
			continue
		}

		if n.State&(netlink.NUD_FAILED|netlink.NUD_INCOMPLETE) != 0 {
			continue
		}

		return n.HardwareAddr, nil
	}

	return nil, ErrNoNeighbor
}

func isDefault(dst *net.IPNet) bool {
	if dst == nil {
		return true
	}

	ones, _ := dst.Mask.Size()

	return ones == 0 && dst.IP.IsUnspecified()
}
