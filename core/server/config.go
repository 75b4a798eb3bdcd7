package server

import (
	"net"
	"time"
)

// Config holds configuration for the HTTP preview server.
type Config struct {
	// Host is the interface to bind. Empty binds every interface.
	Host string `mapstructure:"host" default:""`
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// ShutdownTimeoutSeconds bounds the graceful shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" default:"10"`
}

// Address returns the listen address.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// ShutdownTimeout returns the graceful shutdown bound, at least one second.
func (c Config) ShutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSeconds <= 0 {
		return time.Second
	}
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}
