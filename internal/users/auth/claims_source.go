// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/danghuy/inkwell/internal/access"
	"github.com/danghuy/inkwell/internal/platform/constants"
)

// claimSnapshot projects an account row into the claim set consumed by the
// access gate.
func claimSnapshot(user *User) access.ClaimSet {
	return access.ClaimSet{
		Subject:  user.ID,
		Role:     string(user.Role),
		Elevated: user.Role.IsElevated(),
	}
}

// seedClaimsCache refreshes the Redis claims snapshot for a principal.
//
// Best-effort: a write failure only costs the gate a rebuild from Postgres.
func (service *Service) seedClaimsCache(ctx context.Context, user *User) {
	snapshot := claimSnapshot(user)

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return
	}

	_ = service.claimsCache.Set(ctx, user.ID, payload, constants.ClaimsCacheTTL)
}

// ClaimsSource resolves claim sets for the access gate.
//
// # Two-tier resolution
//
// A plain read serves the Redis snapshot and fails on a miss, so the caller
// can tell "no cheap answer" apart from "claims changed". A forced refresh
// bypasses the snapshot, rebuilds the claim set from the account row, and
// repopulates the snapshot on the way out.
type ClaimsSource struct {
	users UserRepository
	cache ClaimsCacheRepository
	log   *slog.Logger
}

// NewClaimsSource constructs a [ClaimsSource] over the account and snapshot stores.
func NewClaimsSource(users UserRepository, cache ClaimsCacheRepository, logger *slog.Logger) *ClaimsSource {
	return &ClaimsSource{users: users, cache: cache, log: logger}
}

/*
Claims returns the claim set for a principal.

Description: With forceRefresh false, only the Redis snapshot is consulted;
a miss or a corrupt entry is an error. With forceRefresh true, the account
row is authoritative and the snapshot is repopulated.

Parameters:
  - ctx: context.Context
  - principalID: string
  - forceRefresh: bool

Returns:
  - *access.ClaimSet: Resolved claims
  - error: Cache misses (plain read), account lookup failures
*/
func (source *ClaimsSource) Claims(ctx context.Context, principalID string, forceRefresh bool) (*access.ClaimSet, error) {
	if !forceRefresh {
		payload, err := source.cache.Get(ctx, principalID)
		if err != nil {
			return nil, fmt.Errorf("claims_source_snapshot_miss: %w", err)
		}

		claims := &access.ClaimSet{}
		if err := json.Unmarshal(payload, claims); err != nil {
			return nil, fmt.Errorf("claims_source_snapshot_corrupt: %w", err)
		}

		return claims, nil
	}

	user, err := source.users.FindByID(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("claims_source_account_lookup_failed: %w", err)
	}

	if !user.IsActive {
		// Suspended accounts resolve to an unprivileged claim set rather
		// than an error, so the gate records a clean denial.
		claims := claimSnapshot(user)
		claims.Elevated = false
		return &claims, nil
	}

	claims := claimSnapshot(user)

	if payload, err := json.Marshal(claims); err == nil {
		if err := source.cache.Set(ctx, principalID, payload, constants.ClaimsCacheTTL); err != nil {
			source.log.Warn("claims_snapshot_repopulate_failed",
				slog.String("user_id", principalID),
				slog.Any("error", err),
			)
		}
	}

	return &claims, nil
}
