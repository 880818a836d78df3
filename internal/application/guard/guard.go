// Package guard decides whether a console route may be rendered for a session.
package guard

import (
	"slices"

	"github.com/kiranfashion/console/internal/domain/entity"
)

// Outcome is the result of a guard decision.
type Outcome int

const (
	Allow         Outcome = iota
	RedirectLogin         // no token
	RedirectHome          // public-only route with a token
	Unauthorized          // role not permitted; rendered in place
	Loading               // token present, profile not loaded yet
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	case Unauthorized:
		return "unauthorized"
	case Loading:
		return "loading"
	}
	return "unknown"
}

// Policy describes who may reach one route.
type Policy struct {
	PublicOnly bool
	Roles      []string // empty: any signed-in user
}

// Protected requires a token and, when roles are given, one of them.
func Protected(roles ...string) Policy {
	return Policy{Roles: roles}
}

// PublicOnly routes are only reachable without a token (login).
func PublicOnly() Policy {
	return Policy{PublicOnly: true}
}

// Permits reports whether role satisfies the policy's role set.
func (p Policy) Permits(role string) bool {
	return len(p.Roles) == 0 || slices.Contains(p.Roles, role)
}

// State carries the session facts a decision depends on.
type State struct {
	HasToken bool
	User     *entity.SessionUser
}

// Decide applies p to s. Loading is returned instead of Unauthorized while the
// profile is unknown; callers resolve it by loading the profile and deciding again.
func Decide(p Policy, s State) Outcome {
	if p.PublicOnly {
		if s.HasToken {
			return RedirectHome
		}
		return Allow
	}
	if !s.HasToken {
		return RedirectLogin
	}
	if len(p.Roles) == 0 {
		return Allow
	}
	if s.User == nil {
		return Loading
	}
	if p.Permits(s.User.Role) {
		return Allow
	}
	return Unauthorized
}
