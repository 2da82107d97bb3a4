package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tradeoff/gameclient/internal/model"
)

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://game.example.com")

		if c.baseURL != "https://game.example.com" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://game.example.com")
		}
		if c.httpClient.Timeout != 15*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 15*time.Second)
		}
		if c.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 3)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
		if c.limiter == nil {
			t.Error("limiter should not be nil")
		}
	})

	t.Run("with options", func(t *testing.T) {
		c := NewClient("https://game.example.com",
			WithTimeout(5*time.Second),
			WithRetries(5, 2*time.Second),
		)
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 5*time.Second)
		}
		if c.maxRetries != 5 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 5)
		}
	})
}

func TestLogin(t *testing.T) {
	id := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req loginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "alice" {
			t.Errorf("username = %q, want %q", req.Username, "alice")
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(AuthResponse{
			User:         model.Identity{ID: id, Username: "alice"},
			Token:        "access-token",
			RefreshToken: "refresh-token",
		})
	}))
	defer server.Close()

	c := NewClient(server.URL)
	resp, err := c.Login(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.User.ID != id {
		t.Errorf("User.ID = %v, want %v", resp.User.ID, id)
	}
	if resp.Token != "access-token" {
		t.Errorf("Token = %q, want %q", resp.Token, "access-token")
	}
}

func TestCommandErrorTyped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "refresh token has expired", http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.Refresh(context.Background(), "stale")
	if err == nil {
		t.Fatal("expected error")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %T", err)
	}
	if cmdErr.Op != OpRefresh {
		t.Errorf("Op = %q, want %q", cmdErr.Op, OpRefresh)
	}
	if cmdErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want %d", cmdErr.StatusCode, http.StatusUnauthorized)
	}
	if cmdErr.IsRetryable() {
		t.Error("401 must not be retryable")
	}
}

func TestTradeIntentsNotRetried(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, WithRetries(3, time.Millisecond))
	_, err := c.OpenPosition(context.Background(), model.PositionLong)
	if err == nil {
		t.Fatal("expected error")
	}
	if n := atomic.LoadInt64(&calls); n != 1 {
		t.Errorf("server called %d times, want 1 (no retry on trade intents)", n)
	}
}

func TestAuthRetriedOnServerError(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) < 3 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(AuthResponse{Token: "t", RefreshToken: "r"})
	}))
	defer server.Close()

	c := NewClient(server.URL, WithRetries(3, time.Millisecond))
	resp, err := c.Login(context.Background(), "bob")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token != "t" {
		t.Errorf("Token = %q, want %q", resp.Token, "t")
	}
	if n := atomic.LoadInt64(&calls); n != 3 {
		t.Errorf("server called %d times, want 3", n)
	}
}

func TestBearerTokenAttached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer tok-123")
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	c.SetTokenSource(func() string { return "tok-123" })
	if err := c.ClosePosition(context.Background()); err != nil {
		t.Fatalf("ClosePosition failed: %v", err)
	}
}
