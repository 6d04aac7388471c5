package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"
)

// Route is the default route of the host.
type Route struct {
	Gateway   net.IP
	LinkIndex int
}

// RouteTable reads the host's routing and neighbor tables.
type RouteTable interface {
	// DefaultRoute returns the default IPv4 route.
	DefaultRoute() (Route, error)
	// Neighbor returns the hardware address of the route's gateway from
	// the neighbor (ARP) table, or [ErrNoNeighbor] if there is no usable
	// entry.
	Neighbor(r Route) (net.HardwareAddr, error)
}

var (
	// ErrNoDefaultRoute indicates that the host has no default IPv4 route.
	ErrNoDefaultRoute = errors.New("no default route")

	// ErrNoNeighbor indicates that the gateway is not in the neighbor table.
	ErrNoNeighbor = errors.New("gateway not in neighbor table")
)

// Gateway probes the default gateway.
type Gateway struct {
	table      RouteTable
	warm       func(ctx context.Context, ip net.IP) error
	warmupPort int
	warmupWait time.Duration
	warmup     bool
}

// GatewayOpt configures a [Gateway].
type GatewayOpt func(*Gateway)

// WithRouteTable sets the route table. The default is the host's table.
func WithRouteTable(t RouteTable) GatewayOpt {
	return func(g *Gateway) {
		g.table = t
	}
}

// WithWarmup enables or disables the neighbor table warm-up.
func WithWarmup(enabled bool) GatewayOpt {
	return func(g *Gateway) {
		g.warmup = enabled
	}
}

// WithWarmupFunc replaces the function used to provoke address resolution.
func WithWarmupFunc(fn func(ctx context.Context, ip net.IP) error) GatewayOpt {
	return func(g *Gateway) {
		g.warm = fn
	}
}

// WithWarmupWait sets how long to wait after the warm-up before reading the
// neighbor table again.
func WithWarmupWait(d time.Duration) GatewayOpt {
	return func(g *Gateway) {
		g.warmupWait = d
	}
}

// NewGateway creates a [Gateway].
func NewGateway(opts ...GatewayOpt) *Gateway {
	g := &Gateway{
		table:      SystemRouteTable(),
		warmup:     true,
		warmupPort: 9,
		warmupWait: 250 * time.Millisecond,
	}
	g.warm = g.sendDatagram

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// IP returns the default gateway's IP address.
func (g *Gateway) IP(_ context.Context) (string, error) {
	r, err := g.table.DefaultRoute()
	if err != nil {
		return "", newError(SignalGatewayIP, err)
	}

	return r.Gateway.String(), nil
}

// MAC returns the default gateway's MAC address. When the gateway is not in
// the neighbor table and warm-up is enabled, it sends one datagram to the
// gateway and reads the table once more.
func (g *Gateway) MAC(ctx context.Context) (string, error) {
	r, err := g.table.DefaultRoute()
	if err != nil {
		return "", newError(SignalGatewayMAC, err)
	}

	hw, err := g.table.Neighbor(r)
	if errors.Is(err, ErrNoNeighbor) && g.warmup {
		slog.DebugContext(ctx, "gateway not in neighbor table, warming up",
			slog.String("gateway", r.Gateway.String()),
		)

		hw, err = g.warmAndRetry(ctx, r)
	}
	if err != nil {
		return "", newError(SignalGatewayMAC, fmt.Errorf("gateway %s: %w", r.Gateway, err))
	}

	return hw.String(), nil
}

func (g *Gateway) warmAndRetry(ctx context.Context, r Route) (net.HardwareAddr, error) {
	err := g.warm(ctx, r.Gateway)
	if err != nil {
		return nil, fmt.Errorf("warm up neighbor table: %w", err)
	}

	timer := time.NewTimer(g.warmupWait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err() //nolint:wrapcheck // Return the original error.
	case <-timer.C:
	}

	return g.table.Neighbor(r)
}

// sendDatagram sends a single empty UDP datagram to the discard port, which
// makes the kernel resolve the gateway's hardware address.
func (g *Gateway) sendDatagram(ctx context.Context, ip net.IP) error {
	var d net.Dialer

	conn, err := d.DialContext(ctx, "udp4", net.JoinHostPort(ip.String(), strconv.Itoa(g.warmupPort)))
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close() //nolint:errcheck // Ignore errors.

	_, err = conn.Write([]byte{0})
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}
