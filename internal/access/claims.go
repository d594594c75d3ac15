// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

/*
Package access implements the elevated-capability decision core for the
Inkwell back-office.

It answers one question — "does this principal hold the administrative
capability right now?" — and answers it safely when the identity backend is
slow, unreachable, or returning garbage.

# Architecture

Three cooperating pieces:

  - [Verifier]: verifies the admin claim against the identity source, with a
    time-bounded in-memory cache and an encrypted durable fallback.
  - [Gate]: a throttle/lockout state machine that bounds how often a fresh
    verification round may run.
  - [Redirect]: the pure navigation policy for the admin area.

[Gatekeeper] composes the three for consumers (middleware, handlers).

Every path degrades to a boolean; no failure inside this package ever
surfaces to an end user as an error.
*/
package access

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrNoBackup is returned by a [BackupStore] when no backup blob exists
// for the principal.
var ErrNoBackup = errors.New("access: no claims backup present")

// # Claims

// ClaimSet is the typed claim payload the verifier reasons about.
//
// # Why typed?
//
// Claims arrive from a signed token as loosely shaped data. Parsing them
// into a closed struct — and rejecting anything malformed via [ClaimSet.Validate] —
// keeps "admin" from ever being a stringly-typed coercion.
type ClaimSet struct {
	// Subject is the stable principal identifier.
	Subject string `json:"sub"`
	// Role is the account role the claims were minted from.
	Role string `json:"rol"`
	// Elevated is the administrative capability flag.
	Elevated bool `json:"adm"`
}

// Validate rejects claim sets that are structurally unusable.
func (c *ClaimSet) Validate() error {
	if c == nil {
		return errors.New("access: nil claim set")
	}
	if strings.TrimSpace(c.Subject) == "" {
		return errors.New("access: claim set has no subject")
	}
	if strings.TrimSpace(c.Role) == "" {
		return errors.New("access: claim set has no role")
	}
	return nil
}

// Hash returns a content hash of the claim set.
//
// Two claim sets hash equal iff their observable fields are equal, which lets
// the verifier detect that the underlying token changed without comparing
// full structures. Struct JSON encoding has deterministic field order, so
// the digest is stable.
func (c *ClaimSet) Hash() string {
	encoded, err := json.Marshal(c)
	if err != nil {
		// A flat struct of strings and a bool cannot fail to encode.
		return ""
	}
	digest := sha256.Sum256(encoded)
	return hex.EncodeToString(digest[:])
}

// # Collaborator Contracts

// TokenSource supplies the current claim set for a principal.
//
// # Refresh Semantics
//
// forceRefresh=false may serve a locally cached copy without an
// authoritative round trip; forceRefresh=true must consult the source of
// truth. Both fail with an error on connectivity trouble.
type TokenSource interface {
	Claims(ctx context.Context, principalID string, forceRefresh bool) (*ClaimSet, error)
}

// BackupStore persists the encrypted claims backup blob per principal.
//
// The store is durable relative to this process (it survives restarts) but
// session-scoped: blobs are removed on sign-out.
type BackupStore interface {
	// Get returns the stored blob, or [ErrNoBackup] when absent.
	Get(ctx context.Context, principalID string) (string, error)

	// Set stores the blob with the given time-to-live.
	Set(ctx context.Context, principalID, blob string, ttl time.Duration) error

	// Remove deletes the blob. Removing an absent blob is not an error.
	Remove(ctx context.Context, principalID string) error
}
