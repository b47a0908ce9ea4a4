package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"todo_webapp/internal/config"
	"todo_webapp/internal/db"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/service"
)

// Registers an account directly against the configured store and prints a
// session token for it.
func main() {
	username := flag.String("username", "", "account username")
	password := flag.String("password", "", "account password")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: create_account -username NAME -password PASSWORD")
		os.Exit(2)
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	store, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open store", "error", err)
	}
	defer store.Close()

	ctx := context.Background()

	// sessions must land where the app looks for them
	var sessions service.SessionStore = service.NewDBSessionStore(store)
	if cfg.RedisAddr != "" {
		client, err := service.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("failed to connect to redis", "error", err)
		}
		defer client.Close()
		sessions = service.NewRedisSessionStore(client)
	}

	auth := service.NewAuthenticator(
		service.NewCredentialStore(store, cfg.BcryptCost),
		service.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL),
		sessions,
		service.NewAuditService(store),
	)

	account, err := auth.Register(ctx, *username, *password)
	switch {
	case errors.Is(err, service.ErrDuplicateUsername):
		logger.Info("account already exists", "username", *username)
	case err != nil:
		logger.Fatal("create account failed", "error", err)
	default:
		logger.Info("account created", "id", account.ID, "username", account.Username)
	}

	token, sess, err := auth.Login(ctx, *username, *password)
	if err != nil {
		logger.Fatal("login failed", "error", err)
	}
	fmt.Printf("account_id=%d expires_at=%s\ntoken=%s\n", sess.AccountID, sess.ExpiresAt.Format(time.RFC3339), token)
}
