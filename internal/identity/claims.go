package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// FromToken extracts the caller identity from a signed HS256 token.
//
// The transport envelope verifies tokens before operations reach the core;
// this helper is the boundary adapter hosts use to turn a verified token
// into the identity carried in context.
func FromToken(tokenString string, signingKey []byte) (ID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return signingKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse identity token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("identity token is invalid")
	}
	caller := ID(claims.Subject)
	if caller.IsZero() {
		return "", fmt.Errorf("identity token subject is required")
	}
	return caller, nil
}

// IssueToken signs an HS256 token for an identity with the given lifetime.
func IssueToken(caller ID, signingKey []byte, ttl time.Duration, now func() time.Time) (string, error) {
	if caller.IsZero() {
		return "", fmt.Errorf("caller identity is required")
	}
	if now == nil {
		now = time.Now
	}
	issuedAt := now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   string(caller),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(signingKey)
	if err != nil {
		return "", fmt.Errorf("sign identity token: %w", err)
	}
	return signed, nil
}
