package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/logger"
)

// Authenticator turns credentials into sessions and tokens back into
// sessions. It is the only producer of authenticated Session values.
type Authenticator struct {
	creds    *CredentialStore
	tokens   *TokenIssuer
	sessions SessionStore
	audit    *AuditService
}

// NewAuthenticator wires the authenticator. A token is only accepted while
// its session is present in sessions, so logout always ends it.
func NewAuthenticator(creds *CredentialStore, tokens *TokenIssuer, sessions SessionStore, audit *AuditService) *Authenticator {
	if sessions == nil {
		panic("service: NewAuthenticator requires a SessionStore")
	}
	return &Authenticator{creds: creds, tokens: tokens, sessions: sessions, audit: audit}
}

// Register creates an account. The caller stays anonymous.
func (a *Authenticator) Register(ctx context.Context, username, password string) (*domain.Account, error) {
	username = strings.TrimSpace(username)

	account, err := a.creds.CreateAccount(ctx, username, password)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("account registered", "account_id", account.ID)
	a.audit.Log(ctx, &account.ID, domain.AuditActionRegister, map[string]any{"username": account.Username})
	return account, nil
}

// Login verifies credentials and issues a session token. Unknown usernames
// and wrong passwords both yield ErrInvalidCredentials.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, Session, error) {
	account, err := a.creds.FindByUsername(ctx, username)
	if err != nil {
		return "", Session{}, err
	}

	if !a.creds.VerifyPassword(account, password) {
		var accountID *int64
		if account != nil {
			accountID = &account.ID
		}
		a.audit.Log(ctx, accountID, domain.AuditActionLoginFailed, map[string]any{"username": username})
		return "", Session{}, ErrInvalidCredentials
	}

	token, sess, err := a.tokens.Issue(account.ID, account.Username)
	if err != nil {
		return "", Session{}, err
	}
	if err := a.sessions.Save(ctx, sess.ID, sess.AccountID, a.tokens.TTL()); err != nil {
		return "", Session{}, fmt.Errorf("saving session: %w", err)
	}

	logger.WithContext(ctx).Info("login succeeded", "account_id", account.ID)
	a.audit.Log(ctx, &account.ID, domain.AuditActionLogin, nil)
	return token, sess, nil
}

// Logout revokes the session behind token. Invalid, expired or empty tokens
// are ignored, so repeated calls are harmless.
func (a *Authenticator) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sess, err := a.tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := a.sessions.Revoke(ctx, sess.ID); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	a.audit.Log(ctx, &sess.AccountID, domain.AuditActionLogout, nil)
	return nil
}

// Resolve maps a token to its session, or ErrUnauthenticated.
func (a *Authenticator) Resolve(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrUnauthenticated
	}
	sess, err := a.tokens.Parse(token)
	if err != nil {
		return Session{}, ErrUnauthenticated
	}

	accountID, err := a.sessions.Lookup(ctx, sess.ID)
	if errors.Is(err, errSessionNotFound) {
		return Session{}, ErrUnauthenticated
	}
	if err != nil {
		return Session{}, fmt.Errorf("looking up session: %w", err)
	}
	if accountID != sess.AccountID {
		return Session{}, ErrUnauthenticated
	}
	return sess, nil
}
