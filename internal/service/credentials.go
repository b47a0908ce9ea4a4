package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	// maxPasswordBytes is the bcrypt input limit.
	maxPasswordBytes = 72
	// maxUsernameChars matches accounts.username VARCHAR(100).
	maxUsernameChars = 100
)

// CredentialStore owns password hashing and account lookup. Plaintext
// passwords never leave this type.
type CredentialStore struct {
	accounts repository.AccountStore
	cost     int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewCredentialStore(accounts repository.AccountStore, cost int) *CredentialStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialStore{accounts: accounts, cost: cost}
}

// CreateAccount hashes password and persists a new account.
func (c *CredentialStore) CreateAccount(ctx context.Context, username, password string) (*domain.Account, error) {
	switch {
	case username == "" || password == "":
		return nil, ErrMissingCredentials
	case utf8.RuneCountInString(username) > maxUsernameChars:
		return nil, ErrUsernameTooLong
	case len(password) > maxPasswordBytes:
		return nil, ErrPasswordTooLong
	}

	existing, err := c.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	account, err := c.accounts.CreateAccount(ctx, username, string(hash))
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return account, nil
}

// FindByUsername returns nil, nil when no account has that username.
func (c *CredentialStore) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	account, err := c.accounts.GetAccountByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// VerifyPassword reports whether password matches the account's hash. A nil
// account is checked against a throwaway hash so the call costs the same.
func (c *CredentialStore) VerifyPassword(account *domain.Account, password string) bool {
	if account == nil {
		_ = bcrypt.CompareHashAndPassword(c.fallbackHash(), []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) == nil
}

func (c *CredentialStore) fallbackHash() []byte {
	c.dummyOnce.Do(func() {
		c.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("no-such-account"), c.cost)
	})
	return c.dummyHash
}
