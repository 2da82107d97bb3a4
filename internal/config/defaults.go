package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAPITimeout        = 15 * time.Second
	DefaultMaxRetries        = 3
	DefaultRatePerSec        = 10.0
	DefaultRateBurst         = 10
	DefaultReconnectBaseWait = 1 * time.Second
	DefaultReconnectMaxWait  = 60 * time.Second
	DefaultPingTimeout       = 60 * time.Second
	DefaultWriteTimeout      = 5 * time.Second
	DefaultBufferSize        = 1000
	DefaultKeychainPath      = "gameclient.db"
	DefaultExpirySkew        = 30 * time.Second
	DefaultLogLevel          = "info"
)

func (c *ClientConfig) applyDefaults() {
	// Server defaults
	if c.Server.Timeout == 0 {
		c.Server.Timeout = DefaultAPITimeout
	}
	if c.Server.MaxRetries == 0 {
		c.Server.MaxRetries = DefaultMaxRetries
	}
	if c.Server.RatePerSec == 0 {
		c.Server.RatePerSec = DefaultRatePerSec
	}
	if c.Server.RateBurst == 0 {
		c.Server.RateBurst = DefaultRateBurst
	}

	// Push defaults
	if c.Push.ReconnectBaseWait == 0 {
		c.Push.ReconnectBaseWait = DefaultReconnectBaseWait
	}
	if c.Push.ReconnectMaxWait == 0 {
		c.Push.ReconnectMaxWait = DefaultReconnectMaxWait
	}
	if c.Push.PingTimeout == 0 {
		c.Push.PingTimeout = DefaultPingTimeout
	}
	if c.Push.WriteTimeout == 0 {
		c.Push.WriteTimeout = DefaultWriteTimeout
	}
	if c.Push.BufferSize == 0 {
		c.Push.BufferSize = DefaultBufferSize
	}

	// Auth defaults
	if c.Auth.KeychainPath == "" {
		c.Auth.KeychainPath = DefaultKeychainPath
	}
	if c.Auth.ExpirySkew == 0 {
		c.Auth.ExpirySkew = DefaultExpirySkew
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}
