package repository

import (
	"context"
	"errors"
	"time"

	"todo_webapp/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

// AccountStore persists accounts. Usernames are unique.
type AccountStore interface {
	CreateAccount(ctx context.Context, username, passwordHash string) (*domain.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*domain.Account, error)
}

// TaskStore persists tasks. It performs no ownership checks.
type TaskStore interface {
	InsertTask(ctx context.Context, ownerID int64, content string) (*domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	SetTaskCompleted(ctx context.Context, id int64, completed bool) error
	// ListTasksByOwner returns the owner's tasks in ascending id order.
	ListTasksByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error)
}

type AuditStore interface {
	CreateAuditLog(ctx context.Context, log *domain.AuditLog) error
}

// SessionRecordStore keeps the ids of live sessions so tokens can be
// revoked. Expiry is checked against the caller's clock.
type SessionRecordStore interface {
	CreateSession(ctx context.Context, id string, accountID int64, expiresAt time.Time) error
	// GetSessionAccount returns ErrNotFound for unknown and expired sessions.
	GetSessionAccount(ctx context.Context, id string, now time.Time) (int64, error)
	// DeleteSession is a no-op for unknown ids.
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Store is the full persistence surface used by the services.
type Store interface {
	AccountStore
	TaskStore
	AuditStore
	SessionRecordStore
	Ping(ctx context.Context) error
	Close() error
}
