package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *ClientConfig) Validate() error {
	if c.Server.APIURL == "" {
		return errors.New("server.api_url is required")
	}
	if c.Push.WSURL == "" {
		return errors.New("push.ws_url is required")
	}

	if c.Server.RatePerSec <= 0 {
		return fmt.Errorf("server.rate_per_sec must be > 0, got %v", c.Server.RatePerSec)
	}
	if c.Push.BufferSize < 1 {
		return errors.New("push.buffer_size must be >= 1")
	}
	if c.Push.ReconnectBaseWait > c.Push.ReconnectMaxWait {
		return fmt.Errorf("push.reconnect_base_wait (%v) cannot exceed reconnect_max_wait (%v)",
			c.Push.ReconnectBaseWait, c.Push.ReconnectMaxWait)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}

	return nil
}
