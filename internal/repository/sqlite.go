package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"todo_webapp/internal/domain"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteStore implements Store on a local SQLite database. It is used for
// development and tests; production runs on PostgresStore.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at path, enables foreign
// keys and applies pending migrations. ":memory:" gives a private database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection serializes writers and keeps ":memory:" databases
	// from splitting across pool connections.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'")
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}
	if tableCount > 0 {
		if err := s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range sqliteMigrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}
	return nil
}

func (s *SQLiteStore) CreateAccount(ctx context.Context, username, passwordHash string) (*domain.Account, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO accounts (username, password_hash, created_at) VALUES (?, ?, ?)",
		username, passwordHash, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("inserting account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading account id: %w", err)
	}
	return &domain.Account{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: now}, nil
}

func (s *SQLiteStore) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	var a domain.Account
	err := s.db.GetContext(ctx, &a,
		"SELECT id, username, password_hash, created_at FROM accounts WHERE username = ?", username)
	if err != nil {
		return nil, notFoundOr(err, "getting account by username")
	}
	return &a, nil
}

func (s *SQLiteStore) GetAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	var a domain.Account
	err := s.db.GetContext(ctx, &a,
		"SELECT id, username, password_hash, created_at FROM accounts WHERE id = ?", id)
	if err != nil {
		return nil, notFoundOr(err, "getting account by id")
	}
	return &a, nil
}

func (s *SQLiteStore) InsertTask(ctx context.Context, ownerID int64, content string) (*domain.Task, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks (owner_id, content, completed, created_at) VALUES (?, ?, 0, ?)",
		ownerID, content, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading task id: %w", err)
	}
	return &domain.Task{ID: id, OwnerID: ownerID, Content: content, CreatedAt: now}, nil
}

func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	var t domain.Task
	err := s.db.GetContext(ctx, &t,
		"SELECT id, owner_id, content, completed, created_at FROM tasks WHERE id = ?", id)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("getting task %d", id))
	}
	return &t, nil
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) SetTaskCompleted(ctx context.Context, id int64, completed bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET completed = ? WHERE id = ?", boolToInt(completed), id)
	if err != nil {
		return fmt.Errorf("updating task %d: %w", id, err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) ListTasksByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0)
	err := s.db.SelectContext(ctx, &tasks,
		"SELECT id, owner_id, content, completed, created_at FROM tasks WHERE owner_id = ? ORDER BY id ASC",
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

func (s *SQLiteStore) CreateAuditLog(ctx context.Context, log *domain.AuditLog) error {
	detailsJSON, err := json.Marshal(log.Details)
	if err != nil || log.Details == nil {
		detailsJSON = []byte("{}")
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (account_id, action, details, ip, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		log.AccountID, log.Action, string(detailsJSON), log.IP, log.UserAgent, now,
	)
	if err != nil {
		return fmt.Errorf("creating audit log: %w", err)
	}
	if log.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("reading audit log id: %w", err)
	}
	log.CreatedAt = now
	return nil
}

// CreateSession stores expires_at as unix seconds so expiry checks compare
// integers.
func (s *SQLiteStore) CreateSession(ctx context.Context, id string, accountID int64, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (id, account_id, expires_at, created_at) VALUES (?, ?, ?, ?)",
		id, accountID, expiresAt.Unix(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetSessionAccount(ctx context.Context, id string, now time.Time) (int64, error) {
	var accountID int64
	err := s.db.GetContext(ctx, &accountID,
		"SELECT account_id FROM sessions WHERE id = ? AND expires_at > ?", id, now.Unix())
	if err != nil {
		return 0, notFoundOr(err, "getting session")
	}
	return accountID, nil
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", now.Unix())
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return res.RowsAffected()
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
