package service

import (
	"context"
	"testing"
	"time"

	"todo_webapp/internal/repository"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newTestStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()

	s, err := repository.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	m, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		if cerr := client.Close(); cerr != nil {
			t.Logf("redis close: %v", cerr)
		}
	})
	return m, client
}

// newTestAuthenticator returns an authenticator backed by store. A nil
// sessions keeps sessions in store.
func newTestAuthenticator(store repository.Store, sessions SessionStore) *Authenticator {
	if sessions == nil {
		sessions = NewDBSessionStore(store)
	}
	return NewAuthenticator(
		NewCredentialStore(store, bcrypt.MinCost),
		NewTokenIssuer(testSecret, time.Hour),
		sessions,
		NewAuditService(store),
	)
}

func mustLogin(t *testing.T, auth *Authenticator, username, password string) (string, Session) {
	t.Helper()

	token, sess, err := auth.Login(context.Background(), username, password)
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return token, sess
}
