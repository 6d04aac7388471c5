package probe

import (
	"context"
	"sync"
	"time"
)

type observation struct {
	err   error
	value string
}

// Snapshot is a [Prober] that observes each signal at most once. The first
// result for a signal, including an error, is returned for every later
// call. Signals are only probed when first requested.
type Snapshot struct {
	prober  Prober
	values  map[string]observation
	takenAt time.Time
	mu      sync.Mutex
}

// NewSnapshot creates a [Snapshot] of p.
func NewSnapshot(p Prober) *Snapshot {
	return &Snapshot{
		prober:  p,
		values:  map[string]observation{},
		takenAt: time.Now(),
	}
}

// TakenAt returns the time the snapshot was created.
func (s *Snapshot) TakenAt() time.Time {
	return s.takenAt
}

// ExternalIP implements [Prober].
func (s *Snapshot) ExternalIP(ctx context.Context) (string, error) {
	return s.get(ctx, SignalExternalIP, s.prober.ExternalIP)
}

// GatewayIP implements [Prober].
func (s *Snapshot) GatewayIP(ctx context.Context) (string, error) {
	return s.get(ctx, SignalGatewayIP, s.prober.GatewayIP)
}

// GatewayMAC implements [Prober].
func (s *Snapshot) GatewayMAC(ctx context.Context) (string, error) {
	return s.get(ctx, SignalGatewayMAC, s.prober.GatewayMAC)
}

// Observed returns the values observed so far. Signals that were never
// requested, or that failed, are empty.
func (s *Snapshot) Observed() ObservedState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ObservedState{
		ExternalIP: s.values[SignalExternalIP].value,
		GatewayIP:  s.values[SignalGatewayIP].value,
		GatewayMAC: s.values[SignalGatewayMAC].value,
	}
}

func (s *Snapshot) get(ctx context.Context, signal string, fn func(context.Context) (string, error)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o, ok := s.values[signal]; ok {
		return o.value, o.err
	}

	v, err := fn(ctx)
	if err != nil {
		err = newError(signal, err)
	}

	s.values[signal] = observation{value: v, err: err}

	return v, err
}
