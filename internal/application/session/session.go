// Package session holds the per-browser state of the console: the backend
// token, the loaded user, pending notifications and the list controllers.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kiranfashion/console/internal/application/ports"
	"github.com/kiranfashion/console/internal/domain"
	"github.com/kiranfashion/console/internal/domain/entity"
	"github.com/kiranfashion/console/internal/domain/repository"
	"github.com/kiranfashion/console/pkg/logger"
)

var _ ports.TokenSource = (*Session)(nil)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	ID   string
	Kind string
	Text string
}

// Closer is implemented by views that own timers or goroutines.
type Closer interface {
	Close()
}

// Listener receives the session user after every change; nil means signed out.
type Listener func(user *entity.SessionUser)

// Session holds the state of one browser session. It is safe for concurrent use.
type Session struct {
	id    string
	store repository.TokenStore
	log   *logger.Logger

	mu        sync.RWMutex
	token     string
	user      *entity.SessionUser
	flashes   []Flash
	views     map[string]any
	viewOrder []string
	listeners map[int]Listener
	nextSub   int
	lastSeen  time.Time

	boot sync.Mutex
}

func newSession(id, token string, store repository.TokenStore, log *logger.Logger, now time.Time) *Session {
	return &Session{
		id:        id,
		token:     token,
		store:     store,
		log:       log,
		views:     make(map[string]any),
		listeners: make(map[int]Listener),
		lastSeen:  now,
	}
}

// ID returns the session identifier carried by the signed cookie.
func (s *Session) ID() string { return s.id }

// Token returns the current backend bearer token, empty when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// HasToken reports whether the session is signed in.
func (s *Session) HasToken() bool { return s.Token() != "" }

// User returns the loaded profile, nil until bootstrap completes.
func (s *Session) User() *entity.SessionUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetUser stores the profile and notifies listeners.
func (s *Session) SetUser(u *entity.SessionUser) {
	s.mu.Lock()
	s.user = u
	listeners := s.snapshotListeners()
	s.mu.Unlock()
	for _, l := range listeners {
		l(u)
	}
}

// Subscribe registers l for user changes and returns its cancel func.
func (s *Session) Subscribe(l Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

// Clear signs the session out: drops token, user and views, and deletes the
// stored token. Pending flashes survive so the login page can show them.
func (s *Session) Clear(ctx context.Context) {
	s.mu.Lock()
	hadToken := s.token != ""
	s.token = ""
	s.user = nil
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.closeViews()
	if hadToken {
		if err := s.store.Delete(context.WithoutCancel(ctx), s.id); err != nil {
			s.log.Warn().Err(err).Str("session", shortID(s.id)).Msg("failed to delete stored token")
		}
	}
	for _, l := range listeners {
		l(nil)
	}
}

// Invalidate is called by the backend adapter when the token was rejected.
func (s *Session) Invalidate(ctx context.Context) {
	s.log.Info().Str("session", shortID(s.id)).Msg("token rejected by backend, session cleared")
	s.Clear(ctx)
}

// Bind returns ctx carrying this session as the backend token source.
func (s *Session) Bind(ctx context.Context) context.Context {
	return ports.WithTokenSource(ctx, s)
}

// Bootstrap loads the profile once per token. Concurrent callers wait for the
// first one; later callers get the cached user.
func (s *Session) Bootstrap(ctx context.Context, load func(ctx context.Context) (*entity.SessionUser, error)) (*entity.SessionUser, error) {
	s.boot.Lock()
	defer s.boot.Unlock()

	if u := s.User(); u != nil {
		return u, nil
	}
	if !s.HasToken() {
		return nil, domain.ErrUnauthenticated
	}
	u, err := load(s.Bind(ctx))
	if err != nil {
		return nil, err
	}
	// The token may have been rejected while loading.
	if !s.HasToken() {
		return nil, domain.ErrUnauthenticated
	}
	s.SetUser(u)
	return u, nil
}

// AddFlash queues a notification.
func (s *Session) AddFlash(kind, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flashes = append(s.flashes, Flash{ID: uuid.NewString(), Kind: kind, Text: text})
}

// TakeFlashes returns and clears pending notifications.
func (s *Session) TakeFlashes() []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.flashes
	s.flashes = nil
	return out
}

// MaxViews bounds the views one session keeps. Opening one more closes the
// least recently used.
const MaxViews = 16

// View returns the view stored under key, creating it with create on first use.
func (s *Session) View(key string, create func() any) any {
	v, _ := s.view(key, create)
	return v
}

// LookupView returns the view stored under key, if any.
func (s *Session) LookupView(key string) (any, bool) {
	return s.view(key, nil)
}

func (s *Session) view(key string, create func() any) (any, bool) {
	s.mu.Lock()
	if v, ok := s.views[key]; ok {
		s.useViewLocked(key)
		s.mu.Unlock()
		return v, true
	}
	if create == nil {
		s.mu.Unlock()
		return nil, false
	}
	v := create()
	s.views[key] = v
	s.viewOrder = append(s.viewOrder, key)
	var evicted any
	if len(s.viewOrder) > MaxViews {
		oldest := s.viewOrder[0]
		s.viewOrder = s.viewOrder[1:]
		evicted = s.views[oldest]
		delete(s.views, oldest)
	}
	s.mu.Unlock()

	if c, ok := evicted.(Closer); ok {
		c.Close()
	}
	return v, true
}

func (s *Session) useViewLocked(key string) {
	for i, k := range s.viewOrder {
		if k == key {
			s.viewOrder = append(append(s.viewOrder[:i:i], s.viewOrder[i+1:]...), key)
			return
		}
	}
}

// ViewsWithPrefix returns the views whose key starts with prefix.
func (s *Session) ViewsWithPrefix(prefix string) []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []any
	for k, v := range s.views {
		if strings.HasPrefix(k, prefix) {
			out = append(out, v)
		}
	}
	return out
}

// retained reports whether s holds anything that must outlive the request.
func (s *Session) retained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" || len(s.flashes) > 0 || len(s.views) > 0
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

func (s *Session) setToken(token string) {
	s.mu.Lock()
	s.token = token
	s.user = nil
	s.mu.Unlock()
}

func (s *Session) closeViews() {
	s.mu.Lock()
	views := s.views
	s.views = make(map[string]any)
	s.viewOrder = nil
	s.mu.Unlock()
	for _, v := range views {
		if c, ok := v.(Closer); ok {
			c.Close()
		}
	}
}

// shortID keeps the first eight characters, enough to correlate log lines.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
