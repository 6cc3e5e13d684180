package config

import (
	"fmt"
	"net"
	"strconv"
)

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Logging.Level == "info" && c.Logging.Format == "json"
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.HTTPPort))
}

// GetGRPCAddress returns the gRPC listen address
func (c *Config) GetGRPCAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.GRPCPort))
}

// String describes the auth mode for startup logs
func (c *AuthConfig) String() string {
	if !c.Enabled {
		return "disabled"
	}
	return fmt.Sprintf("%s store, %s sessions, %d api keys, jwt=%t",
		c.CredentialStore, c.Session.Storage, len(c.APIKeys), c.JWT.Secret != "")
}
