package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo_webapp/internal/config"
	"todo_webapp/internal/db"
	httpServer "todo_webapp/internal/http"
	"todo_webapp/internal/http/handlers"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	store, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open store", "error", err)
	}
	defer store.Close()

	health := handlers.NewHealthHandler(store, cfg.AppVersion)

	var sessions service.SessionStore
	if cfg.RedisAddr != "" {
		client, err := service.ConnectRedis(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		}
		defer client.Close()
		redisSessions := service.NewRedisSessionStore(client)
		health.WithCheck("redis", redisSessions)
		sessions = redisSessions
		logger.Info("redis session store enabled", "addr", cfg.RedisAddr)
	} else {
		sessions = service.NewDBSessionStore(store)
		logger.Info("REDIS_ADDR not set, keeping sessions in the database")
	}

	auth := service.NewAuthenticator(
		service.NewCredentialStore(store, cfg.BcryptCost),
		service.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL),
		sessions,
		service.NewAuditService(store),
	)
	tasks := service.NewTaskService(store)

	gin.SetMode(gin.ReleaseMode)
	h := handlers.NewHandler(auth, tasks, store, cfg.CookieSecure)
	r := httpServer.NewRouter(h, health)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", cfg.AppVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
