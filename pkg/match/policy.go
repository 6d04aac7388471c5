package match

import (
	"fmt"
	"slices"
)

// Policy selects how signal results are combined into a single decision.
type Policy int

const (
	// RequireAll matches unless some signal is [NoMatch].
	RequireAll Policy = iota
	// RequireAny matches only if some signal is [Match].
	RequireAny
)

// PolicyFor returns the [Policy] selected by an optional
// require_all_matches value. Absent or true selects [RequireAll]; an
// explicit false selects [RequireAny].
func PolicyFor(requireAllMatches *bool) Policy {
	if requireAllMatches != nil && !*requireAllMatches {
		return RequireAny
	}

	return RequireAll
}

func (p Policy) String() string {
	switch p {
	case RequireAll:
		return "require all"
	case RequireAny:
		return "require any"
	}

	return fmt.Sprintf("Policy(%d)", int(p))
}

// Combine applies the policy to a set of signal results.
//
// [NoOpinion] never blocks [RequireAll] and never satisfies [RequireAny], so
// with zero results [RequireAll] is true and [RequireAny] is false.
func (p Policy) Combine(results ...TriState) bool {
	switch p {
	case RequireAll:
		return !slices.Contains(results, NoMatch)
	case RequireAny:
		return slices.Contains(results, Match)
	}

	panic(fmt.Errorf("unknown policy: %d", int(p)))
}
