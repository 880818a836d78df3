package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranfashion/console/internal/infrastructure/memory"
)

func TestRegistry_SweepEvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTokenStore()
	r := NewRegistry(store, time.Hour, nil)

	clock := time.Now()
	r.now = func() time.Time { return clock }

	idle := r.Open(ctx, "")
	idle.AddFlash(FlashError, "Your session has expired.")
	require.True(t, r.Keep(idle))
	active, err := r.Login(ctx, r.Open(ctx, ""), "tok")
	require.NoError(t, err)

	clock = clock.Add(50 * time.Minute)
	r.Open(ctx, active.ID())

	clock = clock.Add(20 * time.Minute)
	n := r.Sweep(ctx)

	assert.Equal(t, 1, n)
	assert.Equal(t, 1, r.Len())
	r.mu.Lock()
	_, stillThere := r.sessions[idle.ID()]
	r.mu.Unlock()
	assert.False(t, stillThere)
}

func TestRegistry_SweepEvictsSignedOutSessionsEarly(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(memory.NewTokenStore(), 12*time.Hour, nil)

	clock := time.Now()
	r.now = func() time.Time { return clock }

	anon := r.Open(ctx, "")
	anon.AddFlash(FlashError, "Your session has expired.")
	require.True(t, r.Keep(anon))
	signed, err := r.Login(ctx, r.Open(ctx, ""), "tok")
	require.NoError(t, err)

	clock = clock.Add(AnonymousIdle + time.Minute)
	assert.Equal(t, 1, r.Sweep(ctx))
	assert.Same(t, signed, r.Open(ctx, signed.ID()))
	assert.Equal(t, 1, r.Len())
}
