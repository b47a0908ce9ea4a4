package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session is the authenticated identity threaded through every task
// operation. The zero value is an anonymous caller.
type Session struct {
	ID        string
	AccountID int64
	Username  string
	ExpiresAt time.Time
}

func (s Session) Authenticated() bool {
	return s.AccountID != 0
}

type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue creates a token for the account with a fresh session id.
func (i *TokenIssuer) Issue(accountID int64, username string) (string, Session, error) {
	now := i.now()
	sess := Session{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Username:  username,
		ExpiresAt: now.Add(i.ttl),
	}

	claims := sessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("signing token: %w", err)
	}
	return token, sess, nil
}

// Parse verifies signature and time claims and returns the session.
func (i *TokenIssuer) Parse(tokenString string) (Session, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return Session{}, errors.New("invalid token")
	}

	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || accountID <= 0 {
		return Session{}, errors.New("invalid subject")
	}
	if claims.ID == "" {
		return Session{}, errors.New("missing session id")
	}

	return Session{
		ID:        claims.ID,
		AccountID: accountID,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
