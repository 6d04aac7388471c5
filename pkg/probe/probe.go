package probe

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrProbe indicates that a signal could not be observed.
	ErrProbe = errors.New("probe failed")

	// ErrUnsupportedPlatform is returned by gateway probes on platforms
	// without a route table implementation.
	ErrUnsupportedPlatform = errors.New("gateway probing is not supported on this platform")

	// ErrNotSet is returned by [Static] for signals without a value.
	ErrNotSet = errors.New("no value set")
)

// Signal names, matching the names used in match decisions.
const (
	SignalExternalIP = "external IP"
	SignalGatewayIP  = "gateway IP"
	SignalGatewayMAC = "gateway MAC"
)

// Prober observes network signals.
type Prober interface {
	ExternalIP(ctx context.Context) (string, error)
	GatewayIP(ctx context.Context) (string, error)
	GatewayMAC(ctx context.Context) (string, error)
}

// Error reports a failure to observe a signal.
type Error struct {
	Err    error
	Signal string
}

func (e *Error) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Signal, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrProbe, e.Err}
}

func newError(signal string, err error) error {
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}

	return &Error{Signal: signal, Err: err}
}

// ObservedState is the observed value of every signal.
type ObservedState struct {
	ExternalIP string `json:"external_ip"`
	GatewayIP  string `json:"gateway_ip"`
	GatewayMAC string `json:"gateway_mac"`
}

// Observe probes every signal. It stops at the first error.
func Observe(ctx context.Context, p Prober) (ObservedState, error) {
	var (
		state ObservedState
		err   error
	)

	state.ExternalIP, err = p.ExternalIP(ctx)
	if err != nil {
		return ObservedState{}, err
	}

	state.GatewayIP, err = p.GatewayIP(ctx)
	if err != nil {
		return ObservedState{}, err
	}

	state.GatewayMAC, err = p.GatewayMAC(ctx)
	if err != nil {
		return ObservedState{}, err
	}

	return state, nil
}
