// Package engine evaluates network definitions against the observed network
// state.
//
// Each definition is evaluated independently, in load order. A malformed
// criterion value fails only its own definition; a failure to observe a
// signal fails the whole run.
package engine
