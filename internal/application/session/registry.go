package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kiranfashion/console/internal/domain"
	"github.com/kiranfashion/console/internal/domain/entity"
	"github.com/kiranfashion/console/internal/domain/repository"
	"github.com/kiranfashion/console/pkg/logger"
)

// Purger is implemented by token stores that can drop expired rows in bulk.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// AnonymousIdle is how long a signed-out session holding only notifications
// survives without requests.
const AnonymousIdle = 15 * time.Minute

// Registry keeps the live sessions keyed by id.
type Registry struct {
	store repository.TokenStore
	ttl   time.Duration
	log   *logger.Logger
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry builds an empty registry. ttl bounds both idle time and token lifetime.
func NewRegistry(store repository.TokenStore, ttl time.Duration, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		store:    store,
		ttl:      ttl,
		log:      log.Component("session"),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Open returns the session for id, restoring its token from the store after a
// restart. Unknown or empty ids get a fresh anonymous session with a new id
// that is not registered until Keep finds something in it worth keeping.
func (r *Registry) Open(ctx context.Context, id string) *Session {
	now := r.now()

	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if ok {
		s.touch(now)
		return s
	}

	if id != "" {
		t, err := r.store.Load(ctx, id)
		switch {
		case err == nil && t != "":
			return r.add(newSession(id, t, r.store, r.log, now))
		case err != nil && !errors.Is(err, domain.ErrSessionNotFound):
			r.log.Warn().Err(err).Str("session", shortID(id)).Msg("token store lookup failed")
		}
	}
	return newSession(uuid.NewString(), "", r.store, r.log, now)
}

// Keep registers s when it holds a token, pending notifications or views,
// and forgets it when it holds none of them. It reports whether s stays
// registered, that is whether the browser needs a cookie for it.
func (r *Registry) Keep(s *Session) bool {
	if s.retained() {
		r.add(s)
		return true
	}
	r.mu.Lock()
	if r.sessions[s.id] == s {
		delete(r.sessions, s.id)
	}
	r.mu.Unlock()
	return false
}

func (r *Registry) add(s *Session) *Session {
	r.mu.Lock()
	if existing, ok := r.sessions[s.id]; ok {
		r.mu.Unlock()
		return existing
	}
	r.sessions[s.id] = s
	r.mu.Unlock()

	sid := shortID(s.id)
	s.Subscribe(func(u *entity.SessionUser) {
		if u == nil {
			r.log.Debug().Str("session", sid).Msg("signed out")
			return
		}
		r.log.Info().Str("session", sid).Str("user", u.ID).Str("role", u.Role).Msg("user loaded")
	})
	return s
}

// Login stores token under a fresh session id and retires prev. The caller
// must re-issue the cookie for the returned session.
func (r *Registry) Login(ctx context.Context, prev *Session, token string) (*Session, error) {
	now := r.now()
	id := uuid.NewString()
	if err := r.store.Save(ctx, id, token, now.Add(r.ttl)); err != nil {
		return nil, fmt.Errorf("save session token: %w", err)
	}
	next := r.add(newSession(id, token, r.store, r.log, now))

	if prev != nil {
		for _, f := range prev.TakeFlashes() {
			next.AddFlash(f.Kind, f.Text)
		}
		r.remove(prev)
		if prev.HasToken() {
			prev.Clear(ctx)
		}
	}
	return next, nil
}

// Logout clears s and forgets it.
func (r *Registry) Logout(ctx context.Context, s *Session) {
	s.Clear(ctx)
	r.remove(s)
}

func (r *Registry) remove(s *Session) {
	r.mu.Lock()
	if r.sessions[s.id] == s {
		delete(r.sessions, s.id)
	}
	r.mu.Unlock()
	s.closeViews()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle for longer than the TTL, and signed-out ones idle
// for longer than AnonymousIdle, then purges expired stored tokens. It returns
// the number of evicted sessions.
func (r *Registry) Sweep(ctx context.Context) int {
	now := r.now()
	cutoff := now.Add(-r.ttl)
	anonCutoff := now.Add(-min(AnonymousIdle, r.ttl))

	r.mu.Lock()
	var idle []*Session
	for _, s := range r.sessions {
		last := s.idleSince()
		if last.Before(cutoff) || (!s.HasToken() && last.Before(anonCutoff)) {
			idle = append(idle, s)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		r.remove(s)
	}

	if p, ok := r.store.(Purger); ok {
		n, err := p.PurgeExpired(ctx)
		if err != nil {
			r.log.Warn().Err(err).Msg("purge expired tokens failed")
		} else if n > 0 {
			r.log.Debug().Int64("tokens", n).Msg("purged expired tokens")
		}
	}
	if len(idle) > 0 {
		r.log.Debug().Int("sessions", len(idle)).Msg("evicted idle sessions")
	}
	return len(idle)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep(ctx)
		}
	}
}
