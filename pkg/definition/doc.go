// Package definition models network definitions and loads them from rule
// files.
//
// A network definition is a YAML mapping with optional criteria
// (external_ip_address, gateway_ip_address, gateway_mac_address), an
// optional policy selector (require_all_matches) and an optional
// connect_commands payload. Rule files are located with a glob pattern and
// loaded in lexical path order. Files that fail to parse or validate are
// logged and skipped.
package definition
