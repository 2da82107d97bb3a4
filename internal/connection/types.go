package connection

import (
	"errors"
	"time"

	"github.com/tradeoff/gameclient/internal/model"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
	ErrNoToken         = errors.New("no usable access token")
)

// TimestampedMessage wraps raw frame data with a receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw frame bytes from the push channel
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// MessageSink receives every successfully parsed push message, in delivery
// order. The State Reconciliation Engine implements this.
type MessageSink interface {
	HandleMessage(env model.Envelope)
}

// ClientConfig configures a single push-channel client.
type ClientConfig struct {
	URL          string        // WebSocket URL (e.g., wss://game.example.com/ws)
	Token        string        // Access token, sent as the token query parameter
	PingTimeout  time.Duration // Max time without ping before considering the channel stale
	WriteTimeout time.Duration // Write deadline for control frames
	BufferSize   int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		PingTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Second,
		BufferSize:   1000,
	}
}

// ManagerConfig configures the Connection Manager.
type ManagerConfig struct {
	WSURL             string        // Push channel URL
	ExpirySkew        time.Duration // Skew used when deciding to refresh before connect
	ReconnectBaseWait time.Duration // Base wait for the Run reconnect loop
	ReconnectMaxWait  time.Duration // Max wait for the Run reconnect loop
	PingTimeout       time.Duration
	WriteTimeout      time.Duration
	BufferSize        int
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		ExpirySkew:        30 * time.Second,
		ReconnectBaseWait: 1 * time.Second,
		ReconnectMaxWait:  60 * time.Second,
		PingTimeout:       60 * time.Second,
		WriteTimeout:      5 * time.Second,
		BufferSize:        1000,
	}
}
