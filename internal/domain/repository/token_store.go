package repository

import (
	"context"
	"time"
)

// TokenStore persists the backend bearer token of each console session (DIP).
// Load returns domain.ErrSessionNotFound when nothing is stored or the entry expired.
type TokenStore interface {
	Save(ctx context.Context, sessionID, token string, expiresAt time.Time) error
	Load(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}
