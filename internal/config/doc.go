// Package config loads the server configuration.
//
// Sources are merged with mergo in this order, earlier sources winning for
// every field they set:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The entry point is [GetStructuredConfig].
package config
