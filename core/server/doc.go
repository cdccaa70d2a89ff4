// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// configuration structure for server settings.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key and the per-request
// timeout applied to comparison runs.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the start command to build the Fiber app.
package server
