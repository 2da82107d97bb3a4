package config

import "time"

// ClientConfig is the root configuration for the game client.
type ClientConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Push    PushConfig    `yaml:"push"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds command-endpoint settings.
type ServerConfig struct {
	APIURL     string        `yaml:"api_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	RatePerSec float64       `yaml:"rate_per_sec"` // Command rate limit
	RateBurst  int           `yaml:"rate_burst"`
}

// PushConfig holds push-channel settings.
type PushConfig struct {
	WSURL             string        `yaml:"ws_url"`
	ReconnectBaseWait time.Duration `yaml:"reconnect_base_wait"`
	ReconnectMaxWait  time.Duration `yaml:"reconnect_max_wait"`
	PingTimeout       time.Duration `yaml:"ping_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	BufferSize        int           `yaml:"buffer_size"`
}

// AuthConfig holds credential-store settings.
type AuthConfig struct {
	KeychainPath string        `yaml:"keychain_path"` // SQLite file for the persisted credential
	ExpirySkew   time.Duration `yaml:"expiry_skew"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
