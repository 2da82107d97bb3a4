package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tradeoff/gameclient/internal/api"
	"github.com/tradeoff/gameclient/internal/model"
)

// Errors
var (
	ErrNoRefreshToken  = errors.New("no refresh token")
	ErrRefreshRejected = errors.New("refresh rejected")
	ErrLoginRejected   = errors.New("login rejected")
)

// DefaultExpirySkew is subtracted from the token's remaining lifetime so a
// token is refreshed before the server would reject it.
const DefaultExpirySkew = 30 * time.Second

// Commander is the subset of the command client the store needs.
type Commander interface {
	Login(ctx context.Context, username string) (api.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (api.AuthResponse, error)
}

// Keychain persists the credential across process restarts under a single
// named record. A missing record loads as (nil, nil).
type Keychain interface {
	Save(cred model.Credential) error
	Load() (*model.Credential, error)
	Delete() error
}

// Store is the sole owner of the session credential. Every mutating operation
// either fully succeeds (new credential present and persisted) or fully
// clears: no partial identity/token combination is ever observable.
type Store struct {
	commands Commander
	keychain Keychain
	logger   *slog.Logger

	mu   sync.RWMutex
	cred *model.Credential
}

// NewStore creates a credential store and rehydrates any persisted credential.
func NewStore(commands Commander, keychain Keychain, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		commands: commands,
		keychain: keychain,
		logger:   logger,
	}

	if keychain != nil {
		cred, err := keychain.Load()
		if err != nil {
			logger.Warn("failed to rehydrate credential", "error", err)
		} else if cred != nil {
			s.cred = cred
			logger.Info("credential rehydrated", "username", usernameOf(cred))
		}
	}

	return s
}

// Login exchanges a username for a fresh credential and persists it.
func (s *Store) Login(ctx context.Context, username string) (model.Credential, error) {
	resp, err := s.commands.Login(ctx, username)
	if err != nil {
		s.clear()
		return model.Credential{}, fmt.Errorf("%w: %w", ErrLoginRejected, err)
	}

	cred := credentialFrom(resp)
	s.set(cred)
	return cred, nil
}

// Refresh uses the current refresh token to obtain a new credential. On any
// failure the store fails closed: all credential state is cleared.
func (s *Store) Refresh(ctx context.Context) (model.Credential, error) {
	s.mu.RLock()
	var refreshToken string
	if s.cred != nil {
		refreshToken = s.cred.RefreshToken
	}
	s.mu.RUnlock()

	if refreshToken == "" {
		s.clear()
		return model.Credential{}, ErrNoRefreshToken
	}

	resp, err := s.commands.Refresh(ctx, refreshToken)
	if err != nil {
		s.clear()
		return model.Credential{}, fmt.Errorf("%w: %w", ErrRefreshRejected, err)
	}

	cred := credentialFrom(resp)
	s.set(cred)
	return cred, nil
}

// Logout clears all credential state. Idempotent.
func (s *Store) Logout() {
	s.clear()
}

// IsExpired reports whether the access token is absent, malformed, or expires
// within the given skew. Malformed tokens are always expired, never valid.
func (s *Store) IsExpired(skew time.Duration) bool {
	s.mu.RLock()
	var token string
	if s.cred != nil {
		token = s.cred.AccessToken
	}
	s.mu.RUnlock()

	return tokenExpired(token, skew, time.Now())
}

// AccessToken returns the current access token, or "" when logged out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return ""
	}
	return s.cred.AccessToken
}

// Identity returns a copy of the authenticated identity, or nil.
func (s *Store) Identity() *model.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil || s.cred.Identity == nil {
		return nil
	}
	id := *s.cred.Identity
	return &id
}

func (s *Store) set(cred model.Credential) {
	s.mu.Lock()
	c := cred
	s.cred = &c
	s.mu.Unlock()

	if s.keychain != nil {
		if err := s.keychain.Save(cred); err != nil {
			s.logger.Warn("failed to persist credential", "error", err)
		}
	}
}

func (s *Store) clear() {
	s.mu.Lock()
	s.cred = nil
	s.mu.Unlock()

	if s.keychain != nil {
		if err := s.keychain.Delete(); err != nil {
			s.logger.Warn("failed to delete persisted credential", "error", err)
		}
	}
}

// tokenExpired decodes the token's exp claim without network access or
// signature verification (the client holds no signing key).
func tokenExpired(token string, skew time.Duration, now time.Time) bool {
	if token == "" {
		return true
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return !now.Add(skew).Before(exp.Time)
}

func credentialFrom(resp api.AuthResponse) model.Credential {
	identity := resp.User
	return model.Credential{
		AccessToken:  resp.Token,
		RefreshToken: resp.RefreshToken,
		Identity:     &identity,
	}
}

func usernameOf(cred *model.Credential) string {
	if cred.Identity == nil {
		return ""
	}
	return cred.Identity.Username
}
