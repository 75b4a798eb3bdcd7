// Package server holds the HTTP preview server configuration.
//
// The serve command owns the fiber application; this package only defines the
// settings it reads: the listen address, the API key checked by the auth
// middleware and the graceful shutdown bound.
package server
