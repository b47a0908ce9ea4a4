package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRedisSessionStore(t *testing.T) {
	m, client := newTestRedis(t)
	store := NewRedisSessionStore(client)
	ctx := context.Background()

	if err := store.Save(ctx, "abc", 42, time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !m.Exists("session:abc") {
		t.Fatalf("expected session:abc key")
	}
	if ttl := m.TTL("session:abc"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}

	id, err := store.Lookup(ctx, "abc")
	if err != nil || id != 42 {
		t.Fatalf("lookup: id=%d err=%v", id, err)
	}

	if err := store.Revoke(ctx, "abc"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := store.Revoke(ctx, "abc"); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
	if _, err := store.Lookup(ctx, "abc"); !errors.Is(err, errSessionNotFound) {
		t.Fatalf("expected errSessionNotFound, got %v", err)
	}
}

func TestRedisSessionStore_Expiry(t *testing.T) {
	m, client := newTestRedis(t)
	store := NewRedisSessionStore(client)
	ctx := context.Background()

	if err := store.Save(ctx, "short", 1, time.Second); err != nil {
		t.Fatalf("save: %v", err)
	}
	m.FastForward(2 * time.Second)

	if _, err := store.Lookup(ctx, "short"); !errors.Is(err, errSessionNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestConnectRedis(t *testing.T) {
	m, _ := newTestRedis(t)

	addr := m.Addr()
	client, err := ConnectRedis(context.Background(), addr, "", 0)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	_ = client.Close()

	m.Close()
	if _, err := ConnectRedis(context.Background(), addr, "", 0); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}

func TestDBSessionStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	account, err := store.CreateAccount(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sessions := NewDBSessionStore(store)
	sessions.now = func() time.Time { return now }

	if err := sessions.Save(ctx, "s1", account.ID, time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}
	if id, err := sessions.Lookup(ctx, "s1"); err != nil || id != account.ID {
		t.Fatalf("lookup: id=%d err=%v", id, err)
	}
	if _, err := sessions.Lookup(ctx, "missing"); !errors.Is(err, errSessionNotFound) {
		t.Fatalf("expected errSessionNotFound, got %v", err)
	}

	if err := sessions.Revoke(ctx, "s1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := sessions.Revoke(ctx, "s1"); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
	if _, err := sessions.Lookup(ctx, "s1"); !errors.Is(err, errSessionNotFound) {
		t.Fatalf("expected revoked session to be gone, got %v", err)
	}

	if err := sessions.Save(ctx, "s2", account.ID, time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := sessions.Lookup(ctx, "s2"); !errors.Is(err, errSessionNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}

	// the next save prunes the expired row
	if err := sessions.Save(ctx, "s3", account.ID, time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}
	if n, err := store.DeleteExpiredSessions(ctx, now); err != nil || n != 0 {
		t.Fatalf("expected nothing left to prune, got n=%d err=%v", n, err)
	}
}
