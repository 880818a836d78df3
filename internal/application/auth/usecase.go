// Package auth signs console sessions in and out against the backend.
package auth

import (
	"context"
	"fmt"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/application/ports"
	"github.com/kiranfashion/console/internal/application/session"
	"github.com/kiranfashion/console/internal/domain/entity"
)

// AuthUseCase signs sessions in and out and loads the signed-in profile.
type AuthUseCase struct {
	backend  ports.Backend
	sessions *session.Registry
}

// NewAuthUseCase builds the use case.
func NewAuthUseCase(backend ports.Backend, sessions *session.Registry) *AuthUseCase {
	return &AuthUseCase{backend: backend, sessions: sessions}
}

// Login exchanges credentials for a token, rotates the session and loads the
// profile. The returned session replaces sess and needs a new cookie.
func (uc *AuthUseCase) Login(ctx context.Context, sess *session.Session, in dto.LoginRequest) (*session.Session, error) {
	token, err := uc.backend.Login(ctx, in)
	if err != nil {
		return nil, err
	}
	next, err := uc.sessions.Login(ctx, sess, token)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	if _, err := uc.Bootstrap(ctx, next); err != nil {
		uc.sessions.Logout(ctx, next)
		return nil, err
	}
	return next, nil
}

// Bootstrap loads the profile behind the session token once. Concurrent
// requests of the same session wait for the first load.
func (uc *AuthUseCase) Bootstrap(ctx context.Context, sess *session.Session) (*entity.SessionUser, error) {
	return sess.Bootstrap(ctx, uc.backend.Me)
}

// Logout drops the token and forgets the session.
func (uc *AuthUseCase) Logout(ctx context.Context, sess *session.Session) {
	uc.sessions.Logout(ctx, sess)
}
