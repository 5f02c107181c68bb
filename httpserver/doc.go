// Package httpserver provides the base HTTP server shared by the
// collection server binary: router assembly with standard middleware,
// health and drain endpoints, and graceful shutdown.
package httpserver
