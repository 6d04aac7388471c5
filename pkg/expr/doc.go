// Package expr provides CEL (Common Expression Language) functionality for
// selecting network definitions.
//
// Selection expressions have access to variables:
//   - `name` (string): The definition's display name
//   - `source` (string): Path of the rule file
//   - `criteria` (map<string, string>): Configured criteria, keyed by YAML key
//   - `policy` (string): "require all" or "require any"
//   - `commands` (list<string>): The connect commands
//
// And to functions:
//   - pathBase, pathDir, pathExt: Path operations on strings
//   - inCIDR(address, network): Whether an address is within a CIDR network
//   - macEqual(a, b): Whether two MAC addresses are equal after normalization
package expr
