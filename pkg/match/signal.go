package match

import (
	"context"
	"fmt"
)

// Criterion keys as they appear in network definition files.
const (
	KeyExternalIPAddress = "external_ip_address"
	KeyGatewayIPAddress  = "gateway_ip_address"
	KeyGatewayMACAddress = "gateway_mac_address"
)

// Observer provides the observed network state. Implementations must return
// the same values for the duration of a single evaluation run.
type Observer interface {
	ExternalIP(ctx context.Context) (string, error)
	GatewayIP(ctx context.Context) (string, error)
	GatewayMAC(ctx context.Context) (string, error)
}

// Criteria holds the match criteria of a single network definition. A nil
// value means the criterion is not configured.
type Criteria struct {
	ExternalIPAddress *string
	GatewayIPAddress  *string
	GatewayMACAddress *string
	Policy            Policy
}

// Evaluator evaluates one criterion value against one observed value.
type Evaluator func(key string, value *string, observed string) (TriState, error)

// Signal binds an [Evaluator] to a criterion key and an observed value.
type Signal struct {
	value    func(Criteria) *string
	observe  func(Observer, context.Context) (string, error)
	evaluate Evaluator

	// Name is a short human-readable name for the signal.
	Name string
	// Key is the criterion key in network definition files.
	Key string
}

var (
	// SignalExternalIP compares the external IP against external_ip_address.
	SignalExternalIP = Signal{
		Name:     "external IP",
		Key:      KeyExternalIPAddress,
		value:    func(c Criteria) *string { return c.ExternalIPAddress },
		observe:  Observer.ExternalIP,
		evaluate: Membership,
	}

	// SignalGatewayIP compares the default gateway's IP against
	// gateway_ip_address.
	SignalGatewayIP = Signal{
		Name:     "gateway IP",
		Key:      KeyGatewayIPAddress,
		value:    func(c Criteria) *string { return c.GatewayIPAddress },
		observe:  Observer.GatewayIP,
		evaluate: Membership,
	}

	// SignalGatewayMAC compares the default gateway's MAC against
	// gateway_mac_address.
	SignalGatewayMAC = Signal{
		Name:     "gateway MAC",
		Key:      KeyGatewayMACAddress,
		value:    func(c Criteria) *string { return c.GatewayMACAddress },
		observe:  Observer.GatewayMAC,
		evaluate: Equality,
	}

	// Signals lists every signal in evaluation order.
	Signals = []Signal{SignalExternalIP, SignalGatewayIP, SignalGatewayMAC}
)

// SignalResult is the outcome of evaluating one [Signal].
type SignalResult struct {
	// Configured is the criterion value, empty when not configured.
	Configured string
	// Observed is the observed value, empty when not configured (the
	// observer is not consulted in that case).
	Observed string
	Signal   string
	Key      string
	Result   TriState
}

// Value returns the criterion value for the signal, or nil when it is not
// configured.
func (s Signal) Value(c Criteria) *string {
	return s.value(c)
}

// Evaluate evaluates the signal for the given criteria. The observer is only
// consulted when the criterion is configured.
func (s Signal) Evaluate(ctx context.Context, c Criteria, obs Observer) (SignalResult, error) {
	res := SignalResult{
		Signal: s.Name,
		Key:    s.Key,
		Result: NoOpinion,
	}

	value := s.Value(c)
	if value == nil {
		return res, nil
	}

	res.Configured = *value

	observed, err := s.observe(obs, ctx)
	if err != nil {
		return res, fmt.Errorf("observe %s: %w", s.Name, err)
	}

	res.Observed = observed

	res.Result, err = s.evaluate(s.Key, value, observed)
	if err != nil {
		return res, err
	}

	return res, nil
}

// Decision is the outcome of evaluating all signals for one definition.
type Decision struct {
	Results []SignalResult
	Policy  Policy
	Matched bool
}

// TriStates returns the result of each signal, in [Signals] order.
func (d Decision) TriStates() []TriState {
	out := make([]TriState, 0, len(d.Results))
	for _, r := range d.Results {
		out = append(out, r.Result)
	}

	return out
}

// Evaluate evaluates every signal in [Signals] and combines the results with
// the criteria's [Policy].
//
// Evaluation stops at the first error. Errors from the observer are returned
// wrapped; malformed values are returned as [*FormatError].
func Evaluate(ctx context.Context, c Criteria, obs Observer) (Decision, error) {
	d := Decision{
		Policy:  c.Policy,
		Results: make([]SignalResult, 0, len(Signals)),
	}

	for _, s := range Signals {
		res, err := s.Evaluate(ctx, c, obs)
		if err != nil {
			return Decision{}, err
		}

		d.Results = append(d.Results, res)
	}

	d.Matched = c.Policy.Combine(d.TriStates()...)

	return d, nil
}
