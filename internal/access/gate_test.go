// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghuy/inkwell/internal/platform/constants"
)

func newTestGate() (*Gate, *fakeClock) {
	clock := &fakeClock{cur: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	gate := NewGate()
	gate.now = clock.Now
	return gate, clock
}

// # Throttle

/*
TestGate_Throttle verifies the minimum inter-check interval: the first
attempt passes, an immediate second attempt is rejected, and the window
elapsing reopens the gate.
*/
func TestGate_Throttle(t *testing.T) {
	gate, clock := newTestGate()

	require.True(t, gate.CanAttempt())
	gate.Complete()

	// Inside the 3s window.
	clock.Advance(1 * time.Second)
	assert.False(t, gate.CanAttempt())

	// Window elapsed.
	clock.Advance(constants.VerifyThrottleInterval)
	assert.True(t, gate.CanAttempt())
}

/*
TestGate_InFlight rejects a second attempt while one round is running,
regardless of elapsed time.
*/
func TestGate_InFlight(t *testing.T) {
	gate, clock := newTestGate()

	require.True(t, gate.CanAttempt())
	assert.Equal(t, StateCheckInFlight, gate.State())

	clock.Advance(time.Minute)
	assert.False(t, gate.CanAttempt(), "in-flight flag must win over the throttle timer")

	gate.Complete()
	assert.Equal(t, StateCooldown, gate.State())
	assert.True(t, gate.CanAttempt())
}

/*
TestGate_CompleteReleases ensures Complete reopens the gate even when the
round it concluded had failed (guaranteed release).
*/
func TestGate_CompleteReleases(t *testing.T) {
	gate, clock := newTestGate()

	require.True(t, gate.CanAttempt())
	gate.Complete()
	gate.RecordFailure()

	clock.Advance(constants.VerifyThrottleInterval + time.Second)
	assert.True(t, gate.CanAttempt())
}

// # Lockout

/*
TestGate_Lockout drives five consecutive failures and checks that the gate
stays closed for the full lockout window, then reopens.
*/
func TestGate_Lockout(t *testing.T) {
	gate, clock := newTestGate()

	for i := 0; i < constants.VerifyLockoutThreshold; i++ {
		require.True(t, gate.CanAttempt(), "attempt %d should be accepted", i+1)
		gate.Complete()
		gate.RecordFailure()
		clock.Advance(constants.VerifyThrottleInterval + time.Second)
	}

	// Locked: the normal throttle interval elapsing is not enough.
	assert.False(t, gate.CanAttempt())
	clock.Advance(5 * time.Minute)
	assert.False(t, gate.CanAttempt())

	// Lockout window fully elapsed.
	clock.Advance(constants.VerifyLockoutDuration)
	assert.True(t, gate.CanAttempt())
}

/*
TestGate_SuccessResetsFailures confirms a success clears the consecutive
failure streak before it reaches the threshold.
*/
func TestGate_SuccessResetsFailures(t *testing.T) {
	gate, clock := newTestGate()

	for i := 0; i < constants.VerifyLockoutThreshold-1; i++ {
		require.True(t, gate.CanAttempt())
		gate.Complete()
		gate.RecordFailure()
		clock.Advance(constants.VerifyThrottleInterval + time.Second)
	}

	require.True(t, gate.CanAttempt())
	gate.Complete()
	gate.RecordSuccess()
	clock.Advance(constants.VerifyThrottleInterval + time.Second)

	// One more failure must not lock: the streak was broken.
	require.True(t, gate.CanAttempt())
	gate.Complete()
	gate.RecordFailure()
	clock.Advance(constants.VerifyThrottleInterval + time.Second)

	assert.True(t, gate.CanAttempt())
}

/*
TestGate_Reset returns a locked gate to its initial open state.
*/
func TestGate_Reset(t *testing.T) {
	gate, clock := newTestGate()

	for i := 0; i < constants.VerifyLockoutThreshold; i++ {
		require.True(t, gate.CanAttempt())
		gate.Complete()
		gate.RecordFailure()
		clock.Advance(constants.VerifyThrottleInterval + time.Second)
	}
	require.False(t, gate.CanAttempt())

	gate.Reset()

	assert.Equal(t, StateIdle, gate.State())
	assert.True(t, gate.CanAttempt())
}
