// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package access

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghuy/inkwell/internal/platform/sec"
)

// # Test Doubles

// fakeSource is a scriptable TokenSource that counts forced and non-forcing
// reads, so tests can assert which verification stage ran.
type fakeSource struct {
	mu          sync.Mutex
	claims      map[string]*ClaimSet
	cachedErr   error
	forcedErr   error
	cachedCalls int
	forcedCalls int
}

func newFakeSource() *fakeSource {
	return &fakeSource{claims: make(map[string]*ClaimSet)}
}

func (f *fakeSource) set(principalID string, claims *ClaimSet) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claims[principalID] = claims
}

func (f *fakeSource) Claims(_ context.Context, principalID string, forceRefresh bool) (*ClaimSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if forceRefresh {
		f.forcedCalls++
		if f.forcedErr != nil {
			return nil, f.forcedErr
		}
	} else {
		f.cachedCalls++
		if f.cachedErr != nil {
			return nil, f.cachedErr
		}
	}

	claims, ok := f.claims[principalID]
	if !ok {
		return nil, errors.New("unknown principal")
	}
	copied := *claims
	return &copied, nil
}

// memBackupStore is an in-memory BackupStore with optional error injection.
type memBackupStore struct {
	mu    sync.Mutex
	blobs map[string]string
	err   error
}

func newMemBackupStore() *memBackupStore {
	return &memBackupStore{blobs: make(map[string]string)}
}

func (s *memBackupStore) Get(_ context.Context, principalID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	blob, ok := s.blobs[principalID]
	if !ok {
		return "", ErrNoBackup
	}
	return blob, nil
}

func (s *memBackupStore) Set(_ context.Context, principalID, blob string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.blobs[principalID] = blob
	return nil
}

func (s *memBackupStore) Remove(_ context.Context, principalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, principalID)
	return nil
}

// # Fixture

type verifierFixture struct {
	source  *fakeSource
	backups *memBackupStore
	cipher  *sec.Cipher
	clock   *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(d)
}

func newVerifierFixture(t *testing.T) (*Verifier, *verifierFixture) {
	t.Helper()

	cipher, err := sec.NewCipher([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	fixture := &verifierFixture{
		source:  newFakeSource(),
		backups: newMemBackupStore(),
		cipher:  cipher,
		clock:   &fakeClock{cur: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
	}

	verifier := NewVerifier(fixture.source, fixture.backups, cipher, slog.Default())
	verifier.now = fixture.clock.Now

	return verifier, fixture
}

func adminClaims(principalID string) *ClaimSet {
	return &ClaimSet{Subject: principalID, Role: "admin", Elevated: true}
}

func customerClaims(principalID string) *ClaimSet {
	return &ClaimSet{Subject: principalID, Role: "customer", Elevated: false}
}

// # Verification Flow

/*
TestVerifier_FreshAdmin covers the cold-cache path: a forced refresh runs,
grants access, and writes both the cache entry and the encrypted backup.
*/
func TestVerifier_FreshAdmin(t *testing.T) {
	verifier, fixture := newVerifierFixture(t)
	fixture.source.set("admin-1", adminClaims("admin-1"))

	granted := verifier.VerifyElevated(context.Background(), "admin-1")

	assert.True(t, granted)
	assert.Equal(t, 1, fixture.source.forcedCalls)

	// The durable backup must exist and decrypt to the elevated claim set.
	blob, err := fixture.backups.Get(context.Background(), "admin-1")
	require.NoError(t, err)
	envelope, err := openBackup(fixture.cipher, blob)
	require.NoError(t, err)
	assert.True(t, envelope.Claims.Elevated)

	// Expiry sits one cache window ahead of the (frozen) clock.
	assert.Equal(t, fixture.clock.Now().Add(10*time.Minute).Unix(), envelope.ExpiresAt)
}

/*
TestVerifier_CacheHit verifies that a second call inside the cache window
reuses the memoized decision without a second forced refresh.
*/
func TestVerifier_CacheHit(t *testing.T) {
	verifier, fixture := newVerifierFixture(t)
	fixture.source.set("admin-1", adminClaims("admin-1"))

	require.True(t, verifier.VerifyElevated(context.Background(), "admin-1"))
	require.Equal(t, 1, fixture.source.forcedCalls)

	fixture.clock.Advance(1 * time.Minute)

	assert.True(t, verifier.VerifyElevated(context.Background(), "admin-1"))
	assert.Equal(t, 1, fixture.source.forcedCalls, "cache hit must not force a refresh")
	assert.NotZero(t, fixture.source.cachedCalls, "cache hit still does the cheap local read")
}

/*
TestVerifier_CacheExpiry forces a refresh once the window has passed.
*/
func TestVerifier_CacheExpiry(t *testing.T) {
	verifier, fixture := newVerifierFixture(t)
	fixture.source.set("admin-1", adminClaims("admin-1"))

	require.True(t, verifier.VerifyElevated(context.Background(), "admin-1"))
	fixture.clock.Advance(11 * time.Minute)

	assert.True(t, verifier.VerifyElevated(context.Background(), "admin-1"))
	assert.Equal(t, 2, fixture.source.forcedCalls)
}

/*
TestVerifier_HashInvalidation covers the mid-window token change: a changed
claim set must not be served from cache even though the entry is unexpired.
*/
func TestVerifier_HashInvalidation(t *testing.T) {
	verifier, fixture := newVerifierFixture(t)
	fixture.source.set("admin-1", adminClaims("admin-1"))

	require.True(t, verifier.VerifyElevated(context.Background(), "admin-1"))
	require.Equal(t, 1, fixture.source.forcedCalls)

	// Revoke the grant mid-window.
	fixture.source.set("admin-1", customerClaims("admin-1"))
	fixture.clock.Advance(1 * time.Minute)

	assert.False(t, verifier.VerifyElevated(context.Background(), "admin-1"))
	assert.Equal(t, 2, fixture.source.forcedCalls, "stale hash must force a refresh")
}

/*
TestVerifier_NonAdmin denies a customer and writes no backup.
*/
func TestVerifier_NonAdmin(t *testing.T) {
	verifier, fixture := newVerifierFixture(t)
	fixture.source.set("shopper-1", customerClaims("shopper-1"))

	assert.False(t, verifier.VerifyElevated(context.Background(), "shopper-1"))

	_, err := fixture.backups.Get(context.Background(), "shopper-1")
	assert.ErrorIs(t, err, ErrNoBackup)
}

/*
TestVerifier_MalformedClaims rejects structurally unusable claim sets.
*/
func TestVerifier_MalformedClaims(t *testing.T) {
	verifier, fixture := newVerifierFixture(t)
	fixture.source.set("admin-1", &ClaimSet{Subject: "", Role: "", Elevated: true})

	assert.False(t, verifier.VerifyElevated(context.Background(), "admin-1"))
}

// # Outage & Fallback

/*
TestVerifier_BackupFallback covers the outage path: a fresh process (empty
cache) with an unreachable identity source restores the grant from the
encrypted backup.
*/
func TestVerifier_BackupFallback(t *testing.T) {
	verifier, fixture := newVerifierFixture(t)
	fixture.source.set("admin-1", adminClaims("admin-1"))

	// First process verifies and persists the backup.
	require.True(t, verifier.VerifyElevated(context.Background(), "admin-1"))

	// Second process: same backup store, cold cache, identity service down.
	restarted := NewVerifier(fixture.source, fixture.backups, fixture.cipher, slog.Default())
	restarted.now = fixture.clock.Now
	fixture.source.cachedErr = errors.New("identity service unreachable")
	fixture.source.forcedErr = errors.New("identity service unreachable")

	fixture.clock.Advance(2 * time.Minute) // still inside the backup validity window

	assert.True(t, restarted.VerifyElevated(context.Background(), "admin-1"))

	// The restored decision seeds the cache: once the cheap local read is
	// healthy again, the next call is a plain cache hit and never needs the
	// backup (which is now unreachable).
	fixture.source.cachedErr = nil
	fixture.backups.err = errors.New("backup store down")
	forcedBefore := fixture.source.forcedCalls

	assert.True(t, restarted.VerifyElevated(context.Background(), "admin-1"))
	assert.Equal(t, forcedBefore, fixture.source.forcedCalls)
}

/*
TestVerifier_BackupExpired denies when the only fallback evidence has aged out.
*/
func TestVerifier_BackupExpired(t *testing.T) {
	verifier, fixture := newVerifierFixture(t)
	fixture.source.set("admin-1", adminClaims("admin-1"))
	require.True(t, verifier.VerifyElevated(context.Background(), "admin-1"))

	restarted := NewVerifier(fixture.source, fixture.backups, fixture.cipher, slog.Default())
	restarted.now = fixture.clock.Now
	fixture.source.cachedErr = errors.New("down")
	fixture.source.forcedErr = errors.New("down")

	fixture.clock.Advance(11 * time.Minute) // past the backup expiry

	assert.False(t, restarted.VerifyElevated(context.Background(), "admin-1"))
}

/*
TestVerifier_CorruptBackup ensures an undecryptable backup fails closed and
never panics out of the verifier.
*/
func TestVerifier_CorruptBackup(t *testing.T) {
	verifier, fixture := newVerifierFixture(t)
	fixture.source.cachedErr = errors.New("down")
	fixture.source.forcedErr = errors.New("down")
	fixture.backups.blobs["admin-1"] = "definitely-not-ciphertext"

	assert.NotPanics(t, func() {
		assert.False(t, verifier.VerifyElevated(context.Background(), "admin-1"))
	})
}

/*
TestVerifier_RevocationNotResurrected covers the revocation replay: after a
legitimate deny, an outage must not let the stale allow-backup bring the
grant back.
*/
func TestVerifier_RevocationNotResurrected(t *testing.T) {
	verifier, fixture := newVerifierFixture(t)
	fixture.source.set("admin-1", adminClaims("admin-1"))

	// 1. Grant verified, backup written.
	require.True(t, verifier.VerifyElevated(context.Background(), "admin-1"))

	// 2. Grant revoked; the deny is verified live. The old backup remains on
	// disk (a deny never touches it) but the cache now holds the deny hash.
	fixture.source.set("admin-1", customerClaims("admin-1"))
	fixture.clock.Advance(1 * time.Minute)
	require.False(t, verifier.VerifyElevated(context.Background(), "admin-1"))

	blob, err := fixture.backups.Get(context.Background(), "admin-1")
	require.NoError(t, err, "deny must not delete the backup")
	require.NotEmpty(t, blob)

	// 3. Outage immediately after the revocation: the stale backup's hash
	// disagrees with the last live verification, so access stays denied.
	fixture.source.cachedErr = errors.New("down")
	fixture.source.forcedErr = errors.New("down")
	fixture.clock.Advance(1 * time.Minute)

	assert.False(t, verifier.VerifyElevated(context.Background(), "admin-1"))
}

// # Lifecycle

/*
TestVerifier_Invalidate drops both the cache entry and the backup.
*/
func TestVerifier_Invalidate(t *testing.T) {
	verifier, fixture := newVerifierFixture(t)
	fixture.source.set("admin-1", adminClaims("admin-1"))
	require.True(t, verifier.VerifyElevated(context.Background(), "admin-1"))

	verifier.Invalidate(context.Background(), "admin-1")

	assert.False(t, verifier.CachedDecision("admin-1"))
	_, err := fixture.backups.Get(context.Background(), "admin-1")
	assert.ErrorIs(t, err, ErrNoBackup)
}

/*
TestVerifier_CachedDecision only reports unexpired memoized decisions.
*/
func TestVerifier_CachedDecision(t *testing.T) {
	verifier, fixture := newVerifierFixture(t)
	fixture.source.set("admin-1", adminClaims("admin-1"))

	assert.False(t, verifier.CachedDecision("admin-1"), "cold cache has no decision")

	require.True(t, verifier.VerifyElevated(context.Background(), "admin-1"))
	assert.True(t, verifier.CachedDecision("admin-1"))

	fixture.clock.Advance(11 * time.Minute)
	assert.False(t, verifier.CachedDecision("admin-1"), "expired entry is unusable")
}
