// Package mcp serves network detection over the Model Context Protocol.
package mcp

const (
	name         = "netsense"
	instructions = `MCP Server 'netsense' detects which known network this machine is connected to, using network definition files that describe each network by its external IP, default gateway IP and default gateway MAC address.

When to use these tools:
- Finding out which network (home, office, VPN, ...) the machine is on
- Getting the commands that should be run to connect to the current network
- Debugging why a network definition does or does not match

Workflow:
1. Use 'detect_networks' to observe the network and list every matching definition with its connect commands
2. Use 'explain_network' with a definition name from the 'detect_networks' output to see how each criterion compared with the observed value
`

	detectToolName  = "detect_networks"
	explainToolName = "explain_network"

	// Commands are shown in text content up to this many bytes.
	maxPreviewBytes = 2000
)

// truncate shortens s to maxLen bytes, marking the cut.
func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "\n[OUTPUT TRUNCATED]"
	}

	return s
}
