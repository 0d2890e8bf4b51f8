// Package config loads and validates the server configuration.
//
// Values come from built-in defaults, then an optional YAML file, then
// environment variables prefixed with CATALOG_ (server.port is read from
// CATALOG_SERVER_PORT).
package config
