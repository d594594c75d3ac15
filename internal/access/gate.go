// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package access

import (
	"sync"
	"time"

	"github.com/danghuy/inkwell/internal/platform/constants"
)

// # Verification Gate

// GateState models the verification attempt lifecycle.
type GateState int

const (
	// StateIdle means no verification round has run yet.
	StateIdle GateState = iota

	// StateCheckInFlight means a verification round is currently running.
	StateCheckInFlight

	// StateCooldown means the last round finished; the throttle timer gates
	// the next attempt. There is no explicit Idle reentry — the cooldown
	// interval itself is the next eligibility window.
	StateCooldown
)

// Gate throttles verification rounds and enforces the failure lockout.
//
// # Semantics
//
//   - A second concurrent attempt is rejected while one is in flight. This
//     is an advisory throttle, not a hard mutex: callers that bypass the
//     gate and invoke the verifier directly can still race, and the cache
//     write stays last-writer-wins.
//   - Attempts closer together than the throttle interval are rejected.
//   - Reaching the consecutive-failure threshold closes the gate for the
//     full lockout window, overriding the normal throttle interval.
//
// # State
//
// One Gate instance guards the whole process; it is constructed at startup
// and reset only by explicit cleanup (sign-out).
type Gate struct {
	mu          sync.Mutex
	state       GateState
	lastAttempt time.Time
	failures    int
	lockedUntil time.Time

	// now is swappable for tests.
	now func() time.Time
}

// NewGate constructs an open [Gate] in [StateIdle].
func NewGate() *Gate {
	return &Gate{now: time.Now}
}

// CanAttempt reports whether a fresh verification round may start.
//
// On acceptance it transitions to [StateCheckInFlight] and records the
// attempt start time; a rejected call changes no state.
func (g *Gate) CanAttempt() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()

	if now.Before(g.lockedUntil) {
		return false
	}

	if g.state == StateCheckInFlight {
		return false
	}

	if !g.lastAttempt.IsZero() && now.Sub(g.lastAttempt) < constants.VerifyThrottleInterval {
		return false
	}

	g.state = StateCheckInFlight
	g.lastAttempt = now
	return true
}

// Complete transitions CheckInFlight -> Cooldown.
//
// It must run via defer on every accepted attempt — success, failure, or
// panic — so an exception in the verification path can never leave the gate
// permanently closed.
func (g *Gate) Complete() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateCooldown
}

// RecordSuccess clears the consecutive-failure counter.
func (g *Gate) RecordSuccess() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures = 0
}

// RecordFailure bumps the consecutive-failure counter and, at the
// threshold, extends the cooldown to a fixed lockout deadline.
func (g *Gate) RecordFailure() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.failures++
	if g.failures >= constants.VerifyLockoutThreshold {
		g.lockedUntil = g.now().Add(constants.VerifyLockoutDuration)
		g.failures = 0
	}
}

// Reset returns the gate to its initial open state.
//
// Invoked by explicit session cleanup (sign-out).
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = StateIdle
	g.lastAttempt = time.Time{}
	g.failures = 0
	g.lockedUntil = time.Time{}
}

// State returns the current lifecycle state.
func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}
