package probe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/macropower/netsense/pkg/probe")

// System probes the host's network state.
type System struct {
	external ExternalIPResolver
	gateway  *Gateway
	timeout  time.Duration
}

// SystemOpt configures a [System] prober.
type SystemOpt func(*System)

// WithExternalIPResolver replaces the external IP resolver.
func WithExternalIPResolver(r ExternalIPResolver) SystemOpt {
	return func(s *System) {
		s.external = r
	}
}

// WithGateway replaces the gateway prober.
func WithGateway(g *Gateway) SystemOpt {
	return func(s *System) {
		s.gateway = g
	}
}

// NewSystem creates a [System] prober from cfg.
func NewSystem(cfg *Config, opts ...SystemOpt) (*System, error) {
	cfg.EnsureDefaults()

	s := &System{
		timeout: cfg.Timeout.Duration,
		gateway: NewGateway(WithWarmup(*cfg.ARPWarmup)),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.external == nil {
		r, err := NewExternalIPResolver(cfg.ExternalIP)
		if err != nil {
			return nil, err
		}

		s.external = r
	}

	return s, nil
}

// ExternalIP implements [Prober].
func (s *System) ExternalIP(ctx context.Context) (string, error) {
	return s.probe(ctx, SignalExternalIP, func(ctx context.Context) (string, error) {
		ip, err := s.external.ExternalIP(ctx)
		if err != nil {
			return "", err //nolint:wrapcheck // Wrapped by probe.
		}

		return parseAddress(ip)
	})
}

// GatewayIP implements [Prober].
func (s *System) GatewayIP(ctx context.Context) (string, error) {
	return s.probe(ctx, SignalGatewayIP, s.gateway.IP)
}

// GatewayMAC implements [Prober].
func (s *System) GatewayMAC(ctx context.Context) (string, error) {
	return s.probe(ctx, SignalGatewayMAC, s.gateway.MAC)
}

func (s *System) probe(ctx context.Context, signal string, fn func(context.Context) (string, error)) (string, error) {
	ctx, span := tracer.Start(ctx, "probe "+signal,
		trace.WithAttributes(attribute.String("signal", signal)),
	)
	defer span.End()

	if s.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	v, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return "", newError(signal, err)
	}

	span.SetAttributes(attribute.String("value", v))

	return v, nil
}
