package match

// TriState is the result of evaluating a single signal.
type TriState int

const (
	// NoOpinion means the definition does not configure the signal.
	NoOpinion TriState = iota
	// Match means the signal is configured and the observed value satisfies it.
	Match
	// NoMatch means the signal is configured and the observed value does not
	// satisfy it.
	NoMatch
)

// AllTriStates contains every [TriState] value.
var AllTriStates = []TriState{NoOpinion, Match, NoMatch}

func (t TriState) String() string {
	switch t {
	case NoOpinion:
		return "no opinion"
	case Match:
		return "match"
	case NoMatch:
		return "no match"
	}

	return "unknown"
}

// FromBool converts a comparison result into [Match] or [NoMatch].
func FromBool(ok bool) TriState {
	if ok {
		return Match
	}

	return NoMatch
}
