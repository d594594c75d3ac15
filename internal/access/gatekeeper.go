// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package access

import (
	"context"
	"log/slog"
)

// # Gatekeeper

// Gatekeeper composes the [Verifier] and the [Gate] into the single entry
// point consumers use.
//
// # Serialization
//
// Concurrent checks for the same principal are not mutually excluded by a
// lock; the gate's in-flight flag rejects the second attempt instead of
// letting two refresh rounds race.
type Gatekeeper struct {
	verifier *Verifier
	gate     *Gate
	log      *slog.Logger
}

// NewGatekeeper constructs a [Gatekeeper].
func NewGatekeeper(verifier *Verifier, gate *Gate, logger *slog.Logger) *Gatekeeper {
	return &Gatekeeper{
		verifier: verifier,
		gate:     gate,
		log:      logger,
	}
}

// Check returns the elevated-capability decision for the principal, subject
// to the gate's throttle and lockout policy.
//
// A throttled call reuses the last memoized decision (deny when none is
// cached) rather than running a fresh round.
func (k *Gatekeeper) Check(ctx context.Context, principalID string) bool {
	if !k.gate.CanAttempt() {
		return k.verifier.CachedDecision(principalID)
	}

	// Guaranteed release: the gate must leave CheckInFlight no matter how
	// the verification round ends.
	defer k.gate.Complete()

	elevated := k.verifier.VerifyElevated(ctx, principalID)
	if elevated {
		k.gate.RecordSuccess()
	} else {
		k.gate.RecordFailure()
	}

	return elevated
}

// SignOut clears the principal's core state — memoized decision, encrypted
// backup — and resets the gate. Invoked on logout and on forced sign-out.
func (k *Gatekeeper) SignOut(ctx context.Context, principalID string) {
	k.verifier.Invalidate(ctx, principalID)
	k.gate.Reset()
	k.log.Info("access_state_cleared", slog.String("principal_id", principalID))
}
