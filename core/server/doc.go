// Package server holds the HTTP server configuration.
//
// The serve command builds the Fiber app itself; this package only defines
// the listen port, the API key protecting the endpoints and the graceful
// shutdown window.
package server
