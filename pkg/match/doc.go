// Package match decides whether a network definition applies to the observed
// network state.
//
// Each of the three signals (external IP, gateway IP, gateway MAC) produces a
// [TriState]: [Match], [NoMatch], or [NoOpinion] when the definition does not
// configure that signal at all. A [Policy] then combines the three results:
//
//   - [RequireAll] matches when no signal is [NoMatch]. A definition with no
//     criteria matches everything.
//   - [RequireAny] matches when at least one signal is [Match]. A definition
//     with no criteria matches nothing.
//
// Malformed configured or observed values produce a [*FormatError]. They are
// never folded into [NoMatch] or [NoOpinion].
package match
