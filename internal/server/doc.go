// Package server runs the HTTP server and the background workers of the
// claim vault and stops both gracefully on SIGINT, SIGTERM or SIGQUIT.
package server
