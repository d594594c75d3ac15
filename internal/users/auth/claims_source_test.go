// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package auth

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghuy/inkwell/internal/platform/sec"
)

/*
TestClaimsSource_PlainReadMissFails reports an error on a snapshot miss so the
gate can escalate to a forced refresh.
*/
func TestClaimsSource_PlainReadMissFails(t *testing.T) {
	users := newFakeUserRepository()
	cache := newFakeClaimsCache()
	source := NewClaimsSource(users, cache, slog.Default())

	_, err := source.Claims(context.Background(), "user-ghost", false)

	assert.Error(t, err)
}

/*
TestClaimsSource_ForcedRefreshRepopulates rebuilds from the account row and
leaves a snapshot behind for the next cheap read.
*/
func TestClaimsSource_ForcedRefreshRepopulates(t *testing.T) {
	users := newFakeUserRepository()
	cache := newFakeClaimsCache()
	source := NewClaimsSource(users, cache, slog.Default())

	users.byID["user-owner"] = &User{
		ID:       "user-owner",
		Username: "owner",
		Role:     sec.RoleAdmin,
		IsActive: true,
	}

	claims, err := source.Claims(context.Background(), "user-owner", true)
	require.NoError(t, err)
	assert.True(t, claims.Elevated)
	assert.Equal(t, "user-owner", claims.Subject)

	// The forced refresh seeded the snapshot; a plain read now succeeds.
	cached, err := source.Claims(context.Background(), "user-owner", false)
	require.NoError(t, err)
	assert.Equal(t, *claims, *cached)
}

/*
TestClaimsSource_SuspendedAccountDropsElevation resolves a suspended admin to
an unprivileged claim set instead of an error.
*/
func TestClaimsSource_SuspendedAccountDropsElevation(t *testing.T) {
	users := newFakeUserRepository()
	cache := newFakeClaimsCache()
	source := NewClaimsSource(users, cache, slog.Default())

	users.byID["user-owner"] = &User{
		ID:       "user-owner",
		Username: "owner",
		Role:     sec.RoleAdmin,
		IsActive: false,
	}

	claims, err := source.Claims(context.Background(), "user-owner", true)

	require.NoError(t, err)
	assert.False(t, claims.Elevated)
}

/*
TestClaimsSource_StaffIsNotElevated keeps report-level staff outside the
admin gate even on a forced refresh.
*/
func TestClaimsSource_StaffIsNotElevated(t *testing.T) {
	users := newFakeUserRepository()
	cache := newFakeClaimsCache()
	source := NewClaimsSource(users, cache, slog.Default())

	users.byID["user-clerk"] = &User{
		ID:       "user-clerk",
		Username: "clerk",
		Role:     sec.RoleStaff,
		IsActive: true,
	}

	claims, err := source.Claims(context.Background(), "user-clerk", true)

	require.NoError(t, err)
	assert.False(t, claims.Elevated)
	assert.Equal(t, string(sec.RoleStaff), claims.Role)
}

/*
TestClaimsSource_CorruptSnapshotFails surfaces an unreadable snapshot as an
error instead of a fabricated claim set.
*/
func TestClaimsSource_CorruptSnapshotFails(t *testing.T) {
	users := newFakeUserRepository()
	cache := newFakeClaimsCache()
	source := NewClaimsSource(users, cache, slog.Default())

	cache.snapshots["user-owner"] = []byte("{not json")

	_, err := source.Claims(context.Background(), "user-owner", false)

	assert.Error(t, err)
}
