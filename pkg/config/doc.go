// Package config loads YAML documents into typed configuration values.
//
// A [Loader] decodes a document, validates it against a JSON schema, and
// applies defaults. It is used for the netsense configuration file and for
// every network definition file.
package config
