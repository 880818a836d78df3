package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kiranfashion/console/internal/domain"
	"github.com/kiranfashion/console/internal/domain/repository"
)

var _ repository.TokenStore = (*SessionRepo)(nil)

const createSessionsTable = `
	CREATE TABLE IF NOT EXISTS console_sessions (
		id         TEXT PRIMARY KEY,
		token      TEXT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// SessionRepo implements TokenStore over PostgreSQL, so sessions survive a console restart.
type SessionRepo struct {
	db querier
}

// NewSessionRepository builds the store on a pool or transaction.
func NewSessionRepository(db querier) *SessionRepo {
	return &SessionRepo{db: db}
}

// EnsureSchema creates the sessions table if it is missing.
func (r *SessionRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createSessionsTable); err != nil {
		return fmt.Errorf("create console_sessions: %w", err)
	}
	return nil
}

// Save upserts the token for sessionID.
func (r *SessionRepo) Save(ctx context.Context, sessionID, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO console_sessions (id, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at`
	if _, err := r.db.Exec(ctx, query, sessionID, token, expiresAt.UTC()); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the live token for sessionID.
func (r *SessionRepo) Load(ctx context.Context, sessionID string) (string, error) {
	query := `SELECT token FROM console_sessions WHERE id = $1 AND expires_at > now()`
	var token string
	if err := r.db.QueryRow(ctx, query, sessionID).Scan(&token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrSessionNotFound
		}
		return "", fmt.Errorf("load session: %w", err)
	}
	return token, nil
}

// Delete removes sessionID; deleting a missing row is not an error.
func (r *SessionRepo) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM console_sessions WHERE id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired drops expired rows and reports how many went.
func (r *SessionRepo) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM console_sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
