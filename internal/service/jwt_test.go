package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)

	token, sess, err := issuer.Issue(7, "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if sess.ID == "" || sess.AccountID != 7 {
		t.Fatalf("unexpected session: %+v", sess)
	}

	parsed, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.ID != sess.ID || parsed.AccountID != 7 || parsed.Username != "alice" {
		t.Fatalf("unexpected parsed session: %+v", parsed)
	}
}

func TestTokenIssuer_RejectsOtherSecret(t *testing.T) {
	token, _, err := NewTokenIssuer("one", time.Hour).Issue(1, "a")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewTokenIssuer("two", time.Hour).Parse(token); err == nil {
		t.Fatalf("expected signature failure")
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := issuer.Issue(1, "a")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	issuer.now = time.Now
	if _, err := issuer.Parse(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestTokenIssuer_RejectsNoneAlgorithm(t *testing.T) {
	claims := jwt.RegisteredClaims{
		ID:        "x",
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewTokenIssuer(testSecret, time.Hour).Parse(token); err == nil {
		t.Fatalf("expected unsigned token to be rejected")
	}
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	if _, err := NewTokenIssuer(testSecret, time.Hour).Parse("not-a-token"); err == nil {
		t.Fatalf("expected error")
	}
}
