package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kiranfashion/console/internal/application/guard"
	"github.com/kiranfashion/console/internal/domain/entity"
)

var (
	admin = &entity.SessionUser{ID: "a", Role: entity.RoleAdmin}
	user  = &entity.SessionUser{ID: "u", Role: entity.RoleUser}
)

func TestDecide(t *testing.T) {
	adminOnly := guard.Protected(entity.RoleAdmin)
	staff := guard.Protected(entity.RoleAdmin, entity.RoleUser)

	cases := []struct {
		name   string
		policy guard.Policy
		state  guard.State
		want   guard.Outcome
	}{
		{"no token on admin route", adminOnly, guard.State{}, guard.RedirectLogin},
		{"no token on staff route", staff, guard.State{}, guard.RedirectLogin},
		{"no token on open protected route", guard.Protected(), guard.State{}, guard.RedirectLogin},
		{"user on admin route", adminOnly, guard.State{HasToken: true, User: user}, guard.Unauthorized},
		{"admin on admin route", adminOnly, guard.State{HasToken: true, User: admin}, guard.Allow},
		{"user on staff route", staff, guard.State{HasToken: true, User: user}, guard.Allow},
		{"profile pending", adminOnly, guard.State{HasToken: true}, guard.Loading},
		{"no roles needed while pending", guard.Protected(), guard.State{HasToken: true}, guard.Allow},
		{"login with token", guard.PublicOnly(), guard.State{HasToken: true, User: user}, guard.RedirectHome},
		{"login without token", guard.PublicOnly(), guard.State{}, guard.Allow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, guard.Decide(tc.policy, tc.state), tc.want.String())
		})
	}
}

func TestDecide_UnknownRoleNeverAllowed(t *testing.T) {
	odd := &entity.SessionUser{ID: "x", Role: "auditor"}
	for _, p := range []guard.Policy{guard.Protected(entity.RoleAdmin), guard.Protected(entity.RoleAdmin, entity.RoleUser)} {
		assert.Equal(t, guard.Unauthorized, guard.Decide(p, guard.State{HasToken: true, User: odd}))
	}
}

func TestPolicy_Permits(t *testing.T) {
	assert.True(t, guard.Protected().Permits("anything"))
	assert.False(t, guard.Protected(entity.RoleAdmin).Permits(entity.RoleUser))
}
