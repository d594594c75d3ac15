// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package access

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghuy/inkwell/internal/platform/constants"
)

func newGatekeeperFixture(t *testing.T) (*Gatekeeper, *verifierFixture, *Gate) {
	t.Helper()

	verifier, fixture := newVerifierFixture(t)
	gate := NewGate()
	gate.now = fixture.clock.Now

	return NewGatekeeper(verifier, gate, slog.Default()), fixture, gate
}

/*
TestGatekeeper_ThrottledCheckUsesCache verifies that a throttled check reuses
the memoized decision instead of running a fresh round.
*/
func TestGatekeeper_ThrottledCheckUsesCache(t *testing.T) {
	keeper, fixture, _ := newGatekeeperFixture(t)
	fixture.source.set("admin-1", adminClaims("admin-1"))

	require.True(t, keeper.Check(context.Background(), "admin-1"))
	forcedAfterFirst := fixture.source.forcedCalls

	// Immediately again: inside the throttle window.
	assert.True(t, keeper.Check(context.Background(), "admin-1"))
	assert.Equal(t, forcedAfterFirst, fixture.source.forcedCalls, "throttled check must not refresh")
}

/*
TestGatekeeper_ThrottledCheckDeniesWithoutCache denies a throttled check for
a principal with no memoized decision.
*/
func TestGatekeeper_ThrottledCheckDeniesWithoutCache(t *testing.T) {
	keeper, fixture, _ := newGatekeeperFixture(t)
	fixture.source.set("admin-1", adminClaims("admin-1"))
	fixture.source.set("admin-2", adminClaims("admin-2"))

	require.True(t, keeper.Check(context.Background(), "admin-1"))

	// admin-2 has never been verified; the gate is still cooling down.
	assert.False(t, keeper.Check(context.Background(), "admin-2"))
}

/*
TestGatekeeper_GateReleasedAfterCheck confirms the in-flight flag is cleared
on both outcomes, so the gate never wedges closed.
*/
func TestGatekeeper_GateReleasedAfterCheck(t *testing.T) {
	keeper, fixture, gate := newGatekeeperFixture(t)
	fixture.source.set("admin-1", adminClaims("admin-1"))
	fixture.source.set("shopper-1", customerClaims("shopper-1"))

	require.True(t, keeper.Check(context.Background(), "admin-1"))
	assert.Equal(t, StateCooldown, gate.State())

	fixture.clock.Advance(constants.VerifyThrottleInterval + time.Second)
	require.False(t, keeper.Check(context.Background(), "shopper-1"))
	assert.Equal(t, StateCooldown, gate.State())
}

/*
TestGatekeeper_ConsecutiveDenialsLockOut drives the failure streak through
the composed entry point and verifies the lockout engages.
*/
func TestGatekeeper_ConsecutiveDenialsLockOut(t *testing.T) {
	keeper, fixture, _ := newGatekeeperFixture(t)
	fixture.source.set("shopper-1", customerClaims("shopper-1"))

	for i := 0; i < constants.VerifyLockoutThreshold; i++ {
		assert.False(t, keeper.Check(context.Background(), "shopper-1"))
		fixture.clock.Advance(constants.VerifyThrottleInterval + time.Second)
	}

	// Locked out: even a real admin is rejected until the window passes,
	// because the gate itself refuses fresh rounds.
	fixture.source.set("admin-1", adminClaims("admin-1"))
	assert.False(t, keeper.Check(context.Background(), "admin-1"))
}

/*
TestGatekeeper_SignOut clears the memoized state and reopens the gate.
*/
func TestGatekeeper_SignOut(t *testing.T) {
	keeper, fixture, gate := newGatekeeperFixture(t)
	fixture.source.set("admin-1", adminClaims("admin-1"))

	require.True(t, keeper.Check(context.Background(), "admin-1"))

	keeper.SignOut(context.Background(), "admin-1")

	assert.Equal(t, StateIdle, gate.State())
	_, err := fixture.backups.Get(context.Background(), "admin-1")
	assert.ErrorIs(t, err, ErrNoBackup)

	// A fresh round is immediately allowed after cleanup.
	assert.True(t, keeper.Check(context.Background(), "admin-1"))
}
