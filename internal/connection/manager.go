package connection

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tradeoff/gameclient/internal/model"
)

// CredentialSource is the subset of the credential store the manager needs.
// Reads go through accessors; the manager never holds the credential itself.
type CredentialSource interface {
	AccessToken() string
	IsExpired(skew time.Duration) bool
	Refresh(ctx context.Context) (model.Credential, error)
}

// Manager owns the single push-channel instance and its lifecycle status.
// Transitions: disconnected → connecting → connected; error is reachable from
// connecting or connected; error and connected return to disconnected on close.
type Manager struct {
	cfg    ManagerConfig
	creds  CredentialSource
	sink   MessageSink
	logger *slog.Logger

	mu     sync.Mutex
	status model.ConnectionStatus
	client Client
	gen    int // bumped on every connect/disconnect so stale watchers stand down

	notify chan struct{}
}

// NewManager creates a Connection Manager. Initial status is disconnected.
func NewManager(cfg ManagerConfig, creds CredentialSource, sink MessageSink, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		cfg:    cfg,
		creds:  creds,
		sink:   sink,
		logger: logger,
		status: model.StatusDisconnected,
		notify: make(chan struct{}, 1),
	}
}

// Status returns the current lifecycle status.
func (m *Manager) Status() model.ConnectionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Notify returns a coalescing channel signaled on every status change.
func (m *Manager) Notify() <-chan struct{} {
	return m.notify
}

// Connect opens the push channel. A no-op while already connecting or
// connected, so duplicate UI triggers cannot open duplicate channels. The
// token is resolved before dialing: tokenHint if given, otherwise the stored
// access token, refreshed first when absent or expired.
func (m *Manager) Connect(ctx context.Context, tokenHint string) error {
	m.mu.Lock()
	if m.status == model.StatusConnecting || m.status == model.StatusConnected {
		m.mu.Unlock()
		return nil
	}
	// Close any stale handle before opening a new one.
	if m.client != nil {
		m.client.Close()
		m.client = nil
	}
	m.gen++
	gen := m.gen
	m.setStatusLocked(model.StatusConnecting)
	m.mu.Unlock()

	token := tokenHint
	if token == "" {
		token = m.creds.AccessToken()
		if token == "" || m.creds.IsExpired(m.cfg.ExpirySkew) {
			cred, err := m.creds.Refresh(ctx)
			if err != nil {
				m.logger.Warn("token refresh failed before connect", "error", err)
				m.setStatusIf(gen, model.StatusError)
				return err
			}
			token = cred.AccessToken
		}
	}
	if token == "" {
		m.setStatusIf(gen, model.StatusError)
		return ErrNoToken
	}

	cl := NewClient(ClientConfig{
		URL:          m.cfg.WSURL,
		Token:        token,
		PingTimeout:  m.cfg.PingTimeout,
		WriteTimeout: m.cfg.WriteTimeout,
		BufferSize:   m.cfg.BufferSize,
	}, m.logger)

	if err := cl.Connect(ctx); err != nil {
		m.logger.Warn("push channel open failed", "error", err)
		m.setStatusIf(gen, model.StatusError)
		return err
	}

	m.mu.Lock()
	if m.gen != gen {
		// Superseded by a disconnect or newer connect while dialing.
		m.mu.Unlock()
		cl.Close()
		return nil
	}
	m.client = cl
	m.setStatusLocked(model.StatusConnected)
	m.mu.Unlock()

	go m.watch(cl, gen)

	m.logger.Info("push channel connected")
	return nil
}

// Disconnect closes the channel with a normal-closure code. Idempotent.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		m.client.Close()
		m.client = nil
	}
	m.gen++
	m.setStatusLocked(model.StatusDisconnected)
}

// Run keeps the channel alive until ctx is cancelled, reconnecting with
// jittered exponential backoff. After every reconnect the server re-baselines
// the engine with a full state sync, so gaps in delivery are recovered.
func (m *Manager) Run(ctx context.Context) {
	wait := m.cfg.ReconnectBaseWait

	for {
		if ctx.Err() != nil {
			return
		}

		if err := m.Connect(ctx, ""); err == nil {
			wait = m.cfg.ReconnectBaseWait
			m.waitWhileUp(ctx)
			if ctx.Err() != nil {
				return
			}
		}

		// Jitter: wait * (0.5 to 1.5)
		jitter := wait/2 + time.Duration(rand.Int64N(int64(wait)))
		m.logger.Debug("reconnect backoff", "wait", jitter)

		select {
		case <-ctx.Done():
			return
		case <-time.After(jitter):
		}

		wait *= 2
		if wait > m.cfg.ReconnectMaxWait {
			wait = m.cfg.ReconnectMaxWait
		}
	}
}

// waitWhileUp blocks until the channel is no longer connecting or connected.
func (m *Manager) waitWhileUp(ctx context.Context) {
	for {
		status := m.Status()
		if status != model.StatusConnected && status != model.StatusConnecting {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-m.notify:
		}
	}
}

// watch consumes one client's channels: parses and forwards frames, and maps
// transport events onto lifecycle status. A watcher whose generation no
// longer matches has been superseded and must not touch status.
func (m *Manager) watch(cl Client, gen int) {
	for {
		select {
		case err := <-cl.Errors():
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				m.dropClient(cl, gen, model.StatusDisconnected)
				return
			}
			m.logger.Warn("push channel error", "error", err)
			m.dropClient(cl, gen, model.StatusError)
			return

		case msg, ok := <-cl.Messages():
			if !ok {
				m.dropClient(cl, gen, model.StatusDisconnected)
				return
			}

			var env model.Envelope
			if err := json.Unmarshal(msg.Data, &env); err != nil {
				// Non-fatal: unparseable frames are dropped.
				m.logger.Debug("dropping unparseable frame", "error", err)
				continue
			}
			m.sink.HandleMessage(env)
		}
	}
}

// dropClient clears the handle and records the terminal status for this
// channel, unless a newer connect/disconnect has already superseded it.
func (m *Manager) dropClient(cl Client, gen int, status model.ConnectionStatus) {
	cl.Close()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return
	}
	m.client = nil
	m.setStatusLocked(status)
}

// setStatusIf records a status transition only if gen still identifies the
// current connect attempt.
func (m *Manager) setStatusIf(gen int, status model.ConnectionStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return
	}
	m.setStatusLocked(status)
}

func (m *Manager) setStatusLocked(status model.ConnectionStatus) {
	if m.status == status {
		return
	}
	m.status = status
	select {
	case m.notify <- struct{}{}:
	default:
	}
}
