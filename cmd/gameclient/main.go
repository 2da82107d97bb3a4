package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/tradeoff/gameclient/internal/api"
	"github.com/tradeoff/gameclient/internal/auth"
	"github.com/tradeoff/gameclient/internal/config"
	"github.com/tradeoff/gameclient/internal/connection"
	"github.com/tradeoff/gameclient/internal/game"
	"github.com/tradeoff/gameclient/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/client.yaml", "path to config file")
	username := flag.String("username", "", "username for first login (ignored when a credential is stored)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// .env is optional; config values can reference its variables via ${VAR}
	_ = godotenv.Load()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("starting game client",
		"version", version.Version,
		"commit", version.Commit,
		"api_url", cfg.Server.APIURL,
		"ws_url", cfg.Push.WSURL,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Command client
	client := api.NewClient(
		cfg.Server.APIURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Server.Timeout),
		api.WithRetries(cfg.Server.MaxRetries, time.Second),
		api.WithLimiter(rate.NewLimiter(rate.Limit(cfg.Server.RatePerSec), cfg.Server.RateBurst)),
	)

	// Credential store, rehydrated from the keychain
	keychain, err := auth.NewSQLiteKeychain(cfg.Auth.KeychainPath)
	if err != nil {
		logger.Error("failed to open keychain", "path", cfg.Auth.KeychainPath, "error", err)
		os.Exit(1)
	}
	defer keychain.Close()

	store := auth.NewStore(client, keychain, logger)
	client.SetTokenSource(store.AccessToken)

	if store.Identity() == nil {
		if *username == "" {
			fmt.Fprintln(os.Stderr, "no stored credential; run with -username to log in")
			os.Exit(1)
		}
		if _, err := store.Login(ctx, *username); err != nil {
			logger.Error("login failed", "username", *username, "error", err)
			os.Exit(1)
		}
		logger.Info("logged in", "username", *username)
	} else {
		logger.Info("resumed session", "username", store.Identity().Username)
	}

	// Game engine consumes push messages and issues trade intents
	engine := game.NewEngine(client, logger)

	mgr := connection.NewManager(connection.ManagerConfig{
		WSURL:             cfg.Push.WSURL,
		ExpirySkew:        cfg.Auth.ExpirySkew,
		ReconnectBaseWait: cfg.Push.ReconnectBaseWait,
		ReconnectMaxWait:  cfg.Push.ReconnectMaxWait,
		PingTimeout:       cfg.Push.PingTimeout,
		WriteTimeout:      cfg.Push.WriteTimeout,
		BufferSize:        cfg.Push.BufferSize,
	}, store, engine, logger)

	go mgr.Run(ctx)

	renderLoop(ctx, engine, mgr)

	mgr.Disconnect()

	stats := engine.Stats()
	logger.Info("shutting down",
		"messages_applied", stats.Applied,
		"malformed", stats.MalformedPayload,
		"unknown_types", stats.UnknownTypes,
	)
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
