package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(migDir, name))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", name, err)
		}
	}
}

func newPostgresStore(t *testing.T) *repository.PostgresStore {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	applyMigrations(t, db)

	store := repository.NewPostgresStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// uniqueName keeps reruns against the same database from colliding.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func TestPostgresStore_Accounts(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	name := uniqueName("alice")
	a, err := store.CreateAccount(ctx, name, "hash")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if a.ID == 0 || a.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at to be set: %+v", a)
	}

	if _, err := store.CreateAccount(ctx, name, "other"); !errors.Is(err, repository.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	got, err := store.GetAccountByUsername(ctx, name)
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if got.ID != a.ID || got.PasswordHash != "hash" {
		t.Fatalf("unexpected account: %+v", got)
	}

	if _, err := store.GetAccountByUsername(ctx, uniqueName("nobody")); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetAccountByID(ctx, a.ID); err != nil {
		t.Fatalf("get by id: %v", err)
	}
}

func TestPostgresStore_TaskLifecycle(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	owner, err := store.CreateAccount(ctx, uniqueName("owner"), "hash")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	other, err := store.CreateAccount(ctx, uniqueName("other"), "hash")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	first, err := store.InsertTask(ctx, owner.ID, "first")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	second, err := store.InsertTask(ctx, owner.ID, "second")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := store.InsertTask(ctx, other.ID, "not mine"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if first.Completed {
		t.Fatalf("new task must start incomplete")
	}

	list, err := store.ListTasksByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("expected [first second] in id order, got %+v", list)
	}

	if err := store.SetTaskCompleted(ctx, first.ID, true); err != nil {
		t.Fatalf("set completed: %v", err)
	}
	got, err := store.GetTask(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Completed || got.OwnerID != owner.ID {
		t.Fatalf("unexpected task: %+v", got)
	}

	if err := store.DeleteTask(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetTask(ctx, first.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteTask(ctx, first.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := store.SetTaskCompleted(ctx, first.ID, false); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update of deleted task, got %v", err)
	}
}

func TestPostgresStore_AuditLog(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	a, err := store.CreateAccount(ctx, uniqueName("audited"), "hash")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	entry := &domain.AuditLog{
		AccountID: &a.ID,
		Action:    domain.AuditActionLogin,
		Details:   map[string]any{"username": a.Username},
		IP:        "127.0.0.1",
	}
	if err := store.CreateAuditLog(ctx, entry); err != nil {
		t.Fatalf("create audit log: %v", err)
	}
	if entry.ID == 0 || entry.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at to be set: %+v", entry)
	}
}

func TestPostgresStore_Sessions(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	a, err := store.CreateAccount(ctx, uniqueName("sessions"), "hash")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	now := time.Now().UTC()
	live, stale := uniqueName("live"), uniqueName("stale")
	if err := store.CreateSession(ctx, live, a.ID, now.Add(time.Hour)); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := store.CreateSession(ctx, stale, a.ID, now.Add(-time.Minute)); err != nil {
		t.Fatalf("create session: %v", err)
	}

	if id, err := store.GetSessionAccount(ctx, live, now); err != nil || id != a.ID {
		t.Fatalf("get live session: id=%d err=%v", id, err)
	}
	if _, err := store.GetSessionAccount(ctx, stale, now); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired session, got %v", err)
	}
	if _, err := store.DeleteExpiredSessions(ctx, now); err != nil {
		t.Fatalf("prune: %v", err)
	}

	if err := store.DeleteSession(ctx, live); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetSessionAccount(ctx, live, now); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
