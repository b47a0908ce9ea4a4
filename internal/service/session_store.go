package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"todo_webapp/internal/logger"
	"todo_webapp/internal/repository"

	redis "github.com/redis/go-redis/v9"
)

var errSessionNotFound = errors.New("session not found")

// SessionStore tracks live session ids so tokens can be revoked before they
// expire.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, accountID int64, ttl time.Duration) error
	// Lookup returns the account id bound to sessionID or errSessionNotFound.
	Lookup(ctx context.Context, sessionID string) (int64, error)
	Revoke(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps sessions under session:<id> with the token's TTL.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// ConnectRedis creates a client and verifies it with PING.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func sessionKey(id string) string {
	return "session:" + id
}

func (s *RedisSessionStore) Save(ctx context.Context, sessionID string, accountID int64, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKey(sessionID), strconv.FormatInt(accountID, 10), ttl).Err()
}

func (s *RedisSessionStore) Lookup(ctx context.Context, sessionID string) (int64, error) {
	val, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, errSessionNotFound
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, errSessionNotFound
	}
	return id, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}

// Ping reports whether Redis is reachable.
func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// DBSessionStore keeps sessions in the application database. It is used
// when Redis is not configured so logout still revokes tokens.
type DBSessionStore struct {
	records repository.SessionRecordStore
	now     func() time.Time
}

func NewDBSessionStore(records repository.SessionRecordStore) *DBSessionStore {
	return &DBSessionStore{records: records, now: time.Now}
}

// Save records the session and prunes expired rows. A failed prune is
// logged and does not fail the login.
func (s *DBSessionStore) Save(ctx context.Context, sessionID string, accountID int64, ttl time.Duration) error {
	now := s.now()
	if n, err := s.records.DeleteExpiredSessions(ctx, now); err != nil {
		logger.WithContext(ctx).Warn("pruning expired sessions", "error", err)
	} else if n > 0 {
		logger.WithContext(ctx).Debug("pruned expired sessions", "count", n)
	}
	return s.records.CreateSession(ctx, sessionID, accountID, now.Add(ttl))
}

func (s *DBSessionStore) Lookup(ctx context.Context, sessionID string) (int64, error) {
	id, err := s.records.GetSessionAccount(ctx, sessionID, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return 0, errSessionNotFound
	}
	return id, err
}

func (s *DBSessionStore) Revoke(ctx context.Context, sessionID string) error {
	return s.records.DeleteSession(ctx, sessionID)
}
