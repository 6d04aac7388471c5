// Package probe observes the local network state used to identify a network:
// the external IP address, and the IP and MAC address of the default gateway.
//
// [System] queries the host. [Static] returns fixed values. [Cached] bounds
// how often an inner [Prober] is consulted across runs, and [Snapshot]
// memoizes each signal for the duration of a single run so that every
// network definition is evaluated against the same state.
package probe
