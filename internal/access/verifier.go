// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package access

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/danghuy/inkwell/internal/platform/constants"
	"github.com/danghuy/inkwell/internal/platform/retry"
	"github.com/danghuy/inkwell/internal/platform/sec"
)

// # Claims Verifier

// cacheEntry memoizes one elevated-capability decision.
//
// An entry is usable only while now < expiry AND the live token's claim-hash
// still matches; a stale hash invalidates the entry regardless of expiry.
type cacheEntry struct {
	decision bool
	expiry   time.Time
	hash     string
}

// Verifier decides whether a principal holds the administrative capability.
//
// # Contract
//
// [Verifier.VerifyElevated] never returns an error: every internal failure
// degrades to the safest boolean. Denial is always the fallback.
//
// # State
//
// The in-memory cache is owned by the instance — there is no package-level
// state. Construct one Verifier per process (or per test) and inject it.
type Verifier struct {
	source  TokenSource
	backups BackupStore
	cipher  *sec.Cipher
	log     *slog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry

	// now is swappable for tests.
	now func() time.Time
}

// NewVerifier constructs a [Verifier] with its collaborators injected.
func NewVerifier(source TokenSource, backups BackupStore, cipher *sec.Cipher, logger *slog.Logger) *Verifier {
	return &Verifier{
		source:  source,
		backups: backups,
		cipher:  cipher,
		log:     logger,
		cache:   make(map[string]cacheEntry),
		now:     time.Now,
	}
}

/*
VerifyElevated reports whether the principal holds the administrative capability.

Description: The decision procedure runs three stages strictly in sequence.

 1. Cache window: a non-expired cache entry is reused iff a cheap,
    non-forcing claims read still hashes to the entry's stored hash.
 2. Forced refresh: an authoritative claims read, retried a bounded number
    of times with a fixed delay. Success overwrites the cache entry and, for
    a positive decision only, the encrypted durable backup.
 3. Fallback: when every refresh attempt failed, the encrypted backup is
    consulted; a valid, non-expired, hash-consistent backup showing the
    elevated claim re-seeds the cache and grants access.

Parameters:
  - ctx: context.Context
  - principalID: string (stable principal identifier)

Returns:
  - bool: true iff the elevated capability is established; false on any
    doubt, outage without valid backup, or corruption (fail-closed)
*/
func (v *Verifier) VerifyElevated(ctx context.Context, principalID string) bool {
	now := v.now()

	// ── 1. Cache Window ───────────────────────────────────────────────────

	if entry, ok := v.lookup(principalID); ok && now.Before(entry.expiry) {
		claims, err := v.source.Claims(ctx, principalID, false)
		if err == nil && claims.Hash() == entry.hash {
			return entry.decision
		}
		// A failed read or a changed claim-hash falls through to a forced
		// refresh instead of failing the call.
	}

	// ── 2. Forced Refresh (bounded retry) ─────────────────────────────────

	var claims *ClaimSet
	err := retry.Do(ctx, constants.ClaimsVerifyAttempts, constants.ClaimsVerifyRetryDelay, func() error {
		fresh, fetchErr := v.source.Claims(ctx, principalID, true)
		if fetchErr != nil {
			return fetchErr
		}
		claims = fresh
		return nil
	})

	if err == nil {
		if validationErr := claims.Validate(); validationErr != nil {
			// Malformed claims are rejected outright, never coerced.
			v.log.Warn("claims_rejected_malformed",
				slog.String("principal_id", principalID),
				slog.Any("error", validationErr),
			)
			return false
		}
		return v.commit(ctx, principalID, claims, now)
	}

	v.log.Warn("claims_refresh_exhausted",
		slog.String("principal_id", principalID),
		slog.Any("error", err),
	)

	// ── 3. Encrypted Backup Fallback ──────────────────────────────────────

	return v.restore(ctx, principalID, now)
}

// CachedDecision returns the memoized decision inside its validity window,
// or false when no usable entry exists.
//
// It performs no I/O; the gate uses it when a fresh round is throttled.
func (v *Verifier) CachedDecision(principalID string) bool {
	entry, ok := v.lookup(principalID)
	if !ok || !v.now().Before(entry.expiry) {
		return false
	}
	return entry.decision
}

// Invalidate drops the principal's cache entry and durable backup.
//
// Called on sign-out and on explicit cache-invalidation events.
func (v *Verifier) Invalidate(ctx context.Context, principalID string) {
	v.mu.Lock()
	delete(v.cache, principalID)
	v.mu.Unlock()

	if err := v.backups.Remove(ctx, principalID); err != nil {
		v.log.Warn("claims_backup_remove_failed",
			slog.String("principal_id", principalID),
			slog.Any("error", err),
		)
	}
}

// Purge clears every cached decision. Backups are untouched; they expire on
// their own TTL or are removed per-principal via [Verifier.Invalidate].
func (v *Verifier) Purge() {
	v.mu.Lock()
	v.cache = make(map[string]cacheEntry)
	v.mu.Unlock()
}

// # Internals

// commit records a freshly verified decision and returns it.
func (v *Verifier) commit(ctx context.Context, principalID string, claims *ClaimSet, now time.Time) bool {
	decision := claims.Elevated
	entry := cacheEntry{
		decision: decision,
		expiry:   now.Add(constants.ClaimsCacheTTL),
		hash:     claims.Hash(),
	}
	v.store(principalID, entry)

	// Only a positive decision is durably persisted. A denial leaves any
	// existing backup untouched: backup staleness is handled at read time
	// through the expiry and hash checks in restore.
	if decision {
		if err := v.persistBackup(ctx, principalID, claims, entry, now); err != nil {
			v.log.Warn("claims_backup_write_failed",
				slog.String("principal_id", principalID),
				slog.Any("error", err),
			)
		}
	}

	return decision
}

// persistBackup seals the claim set into the durable backup store.
func (v *Verifier) persistBackup(ctx context.Context, principalID string, claims *ClaimSet, entry cacheEntry, now time.Time) error {
	blob, err := sealBackup(v.cipher, backupEnvelope{
		Claims:    *claims,
		ExpiresAt: entry.expiry.Unix(),
		Hash:      entry.hash,
	})
	if err != nil {
		return err
	}

	return v.backups.Set(ctx, principalID, blob, entry.expiry.Sub(now))
}

// restore attempts the encrypted backup fallback after an outage.
func (v *Verifier) restore(ctx context.Context, principalID string, now time.Time) bool {
	blob, err := v.backups.Get(ctx, principalID)
	if err != nil {
		if err != ErrNoBackup {
			v.log.Warn("claims_backup_read_failed",
				slog.String("principal_id", principalID),
				slog.Any("error", err),
			)
		}
		return false
	}

	envelope, err := openBackup(v.cipher, blob)
	if err != nil {
		// Corrupt or undecryptable backups deny, never propagate.
		v.log.Warn("claims_backup_unreadable",
			slog.String("principal_id", principalID),
			slog.Any("error", err),
		)
		return false
	}

	expiry := time.Unix(envelope.ExpiresAt, 0)
	if !now.Before(expiry) {
		return false
	}

	// A backup whose hash disagrees with the last live verification is
	// evidence of a grant that has since changed; it must not resurrect
	// elevated access.
	if entry, ok := v.lookup(principalID); ok && entry.hash != envelope.Hash {
		return false
	}

	if !envelope.Claims.Elevated {
		return false
	}

	// Seed the cache from the backup so subsequent calls within the window
	// do not re-run the fallback.
	v.store(principalID, cacheEntry{
		decision: true,
		expiry:   expiry,
		hash:     envelope.Hash,
	})

	v.log.Info("claims_restored_from_backup", slog.String("principal_id", principalID))
	return true
}

// lookup reads a cache entry under the lock.
func (v *Verifier) lookup(principalID string) (cacheEntry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	entry, ok := v.cache[principalID]
	return entry, ok
}

// store writes a cache entry under the lock. Last writer wins.
func (v *Verifier) store(principalID string, entry cacheEntry) {
	v.mu.Lock()
	v.cache[principalID] = entry
	v.mu.Unlock()
}
