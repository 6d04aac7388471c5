// Package render formats the connect commands of matching network
// definitions. Commands are only ever rendered as text, never executed.
package render
