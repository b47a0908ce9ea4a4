package db

import (
	"context"
	"fmt"
	"strings"

	"todo_webapp/internal/logger"
	"todo_webapp/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLitePrefix selects the embedded SQLite store, e.g. "sqlite:todo.db".
const SQLitePrefix = "sqlite:"

func Connect(dsn string) *pgxpool.Pool {
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}

	if err := db.Ping(context.Background()); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("database connected")
	return db
}

// Open returns the store for dsn. SQLite databases are migrated on open;
// Postgres schemas are applied with cmd/migrate_apply.
func Open(dsn string) (repository.Store, error) {
	if path, ok := strings.CutPrefix(dsn, SQLitePrefix); ok {
		s, err := repository.NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("sqlite store opened", "path", path)
		return s, nil
	}
	return repository.NewPostgresStore(Connect(dsn)), nil
}
