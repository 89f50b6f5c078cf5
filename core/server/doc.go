// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application; this package only defines the
// settings it needs: listen port, API key and graceful shutdown budget.
package server
