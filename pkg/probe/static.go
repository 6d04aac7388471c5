package probe

import "context"

// Static is a [Prober] that returns fixed values. An empty value is
// reported as [ErrNotSet].
type Static struct {
	state ObservedState
}

// NewStatic creates a [Static] prober returning state.
func NewStatic(state ObservedState) Static {
	return Static{state: state}
}

// ExternalIP implements [Prober].
func (s Static) ExternalIP(context.Context) (string, error) {
	return value(SignalExternalIP, s.state.ExternalIP)
}

// GatewayIP implements [Prober].
func (s Static) GatewayIP(context.Context) (string, error) {
	return value(SignalGatewayIP, s.state.GatewayIP)
}

// GatewayMAC implements [Prober].
func (s Static) GatewayMAC(context.Context) (string, error) {
	return value(SignalGatewayMAC, s.state.GatewayMAC)
}

func value(signal, v string) (string, error) {
	if v == "" {
		return "", &Error{Signal: signal, Err: ErrNotSet}
	}

	return v, nil
}

// Override is a [Prober] that returns the non-empty values of Values and
// consults Prober for the rest.
type Override struct {
	Prober Prober
	Values ObservedState
}

// ExternalIP implements [Prober].
func (o Override) ExternalIP(ctx context.Context) (string, error) {
	if o.Values.ExternalIP != "" {
		return o.Values.ExternalIP, nil
	}

	return o.Prober.ExternalIP(ctx) //nolint:wrapcheck // Return the original error.
}

// GatewayIP implements [Prober].
func (o Override) GatewayIP(ctx context.Context) (string, error) {
	if o.Values.GatewayIP != "" {
		return o.Values.GatewayIP, nil
	}

	return o.Prober.GatewayIP(ctx) //nolint:wrapcheck // Return the original error.
}

// GatewayMAC implements [Prober].
func (o Override) GatewayMAC(ctx context.Context) (string, error) {
	if o.Values.GatewayMAC != "" {
		return o.Values.GatewayMAC, nil
	}

	return o.Prober.GatewayMAC(ctx) //nolint:wrapcheck // Return the original error.
}
