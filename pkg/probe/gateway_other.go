//go:build !linux

package probe

import "net"

type unsupportedTable struct{}

// SystemRouteTable returns a route table that reports
// [ErrUnsupportedPlatform] on this platform.
//
//nolint:ireturn // Platform-specific implementation.
func SystemRouteTable() RouteTable {
	return unsupportedTable{}
}

func (unsupportedTable) DefaultRoute() (Route, error) {
	return Route{}, ErrUnsupportedPlatform
}

func (unsupportedTable) Neighbor(Route) (net.HardwareAddr, error) {
	return nil, ErrUnsupportedPlatform
}
