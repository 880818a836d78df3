// Package jwt signs and verifies the console session cookie.
//
// The cookie carries only the session id; the backend bearer token never
// leaves the server. The HS256 key is derived from SESSION_SECRET with HKDF so
// the raw secret is not used directly as a MAC key.
package jwt

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const keyInfo = "kiran-console/session-cookie/v1"

// ErrInvalidSession is returned for tampered, expired or malformed cookies.
var ErrInvalidSession = errors.New("jwt: invalid session cookie")

// SessionClaims adds the console session id to the registered claims.
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// Signer issues and parses session cookies.
type Signer struct {
	key    []byte
	issuer string
	ttl    time.Duration
}

// NewSigner derives the signing key from secret.
func NewSigner(secret, issuer string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: empty secret")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("jwt: derive key: %w", err)
	}
	return &Signer{key: key, issuer: issuer, ttl: ttl}, nil
}

// TTL returns the cookie lifetime.
func (s *Signer) TTL() time.Duration { return s.ttl }

// Sign returns a signed token for sessionID.
func (s *Signer) Sign(sessionID string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		SessionID: sessionID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Parse validates the token and returns the session id.
func (s *Signer) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", ErrInvalidSession
	}
	return claims.SessionID, nil
}
