package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore bundles the pgx repositories behind the Store interface.
type PostgresStore struct {
	*AccountRepository
	*TaskRepository
	*AuditRepository
	*SessionRepository
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		AccountRepository: NewAccountRepository(pool),
		TaskRepository:    NewTaskRepository(pool),
		AuditRepository:   NewAuditRepository(pool),
		SessionRepository: NewSessionRepository(pool),
		pool:              pool,
	}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
