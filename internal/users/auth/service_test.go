// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghuy/inkwell/internal/platform/apperr"
	"github.com/danghuy/inkwell/internal/platform/sec"
)

// # Fakes

type fakeUserRepository struct {
	byID map[string]*User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{byID: make(map[string]*User)}
}

func (repository *fakeUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	if user, ok := repository.byID[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range repository.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, user := range repository.byID {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) Create(_ context.Context, user *User) error {
	repository.byID[user.ID] = user
	return nil
}

func (repository *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	if user, ok := repository.byID[userID]; ok {
		user.PasswordHash = newHash
	}
	return nil
}

func (repository *fakeUserRepository) TouchLastLogin(_ context.Context, userID string) error {
	if user, ok := repository.byID[userID]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

type fakeSessionRepository struct {
	byHash  map[string]*Session
	revoked map[string]bool
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{
		byHash:  make(map[string]*Session),
		revoked: make(map[string]bool),
	}
}

func (repository *fakeSessionRepository) Create(_ context.Context, session *Session) error {
	repository.byHash[session.TokenHash] = session
	return nil
}

func (repository *fakeSessionRepository) FindByTokenHash(_ context.Context, tokenHash string) (*Session, error) {
	session, ok := repository.byHash[tokenHash]
	if !ok || repository.revoked[session.ID] {
		return nil, apperr.NotFound("Session")
	}
	return session, nil
}

func (repository *fakeSessionRepository) Revoke(_ context.Context, sessionID string) error {
	repository.revoked[sessionID] = true
	return nil
}

func (repository *fakeSessionRepository) RevokeAll(_ context.Context, userID string) error {
	for _, session := range repository.byHash {
		if session.UserID == userID {
			repository.revoked[session.ID] = true
		}
	}
	return nil
}

func (repository *fakeSessionRepository) DeleteExpired(_ context.Context) error { return nil }

type fakeResetTokenRepository struct {
	tokens map[string]string
}

func newFakeResetTokenRepository() *fakeResetTokenRepository {
	return &fakeResetTokenRepository{tokens: make(map[string]string)}
}

func (repository *fakeResetTokenRepository) Set(_ context.Context, token, userID string, _ time.Duration) error {
	repository.tokens[token] = userID
	return nil
}

func (repository *fakeResetTokenRepository) Get(_ context.Context, token string) (string, error) {
	if userID, ok := repository.tokens[token]; ok {
		return userID, nil
	}
	return "", apperr.NotFound("Reset token")
}

func (repository *fakeResetTokenRepository) Delete(_ context.Context, token string) error {
	delete(repository.tokens, token)
	return nil
}

type fakeClaimsCache struct {
	snapshots map[string][]byte
	setErr    error
}

func newFakeClaimsCache() *fakeClaimsCache {
	return &fakeClaimsCache{snapshots: make(map[string][]byte)}
}

func (cache *fakeClaimsCache) Set(_ context.Context, userID string, payload []byte, _ time.Duration) error {
	if cache.setErr != nil {
		return cache.setErr
	}
	cache.snapshots[userID] = payload
	return nil
}

func (cache *fakeClaimsCache) Get(_ context.Context, userID string) ([]byte, error) {
	if payload, ok := cache.snapshots[userID]; ok {
		return payload, nil
	}
	return nil, apperr.NotFound("Claims snapshot")
}

func (cache *fakeClaimsCache) Delete(_ context.Context, userID string) error {
	delete(cache.snapshots, userID)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ bool, _ time.Duration) (string, error) {
	return "jwt-for-" + userID, nil
}

type fakeInvalidator struct {
	signedOut []string
}

func (invalidator *fakeInvalidator) SignOut(_ context.Context, principalID string) {
	invalidator.signedOut = append(invalidator.signedOut, principalID)
}

// # Fixture

type serviceFixture struct {
	users       *fakeUserRepository
	sessions    *fakeSessionRepository
	resets      *fakeResetTokenRepository
	claims      *fakeClaimsCache
	invalidator *fakeInvalidator
}

func newServiceFixture(t *testing.T) (*Service, *serviceFixture) {
	t.Helper()

	fixture := &serviceFixture{
		users:       newFakeUserRepository(),
		sessions:    newFakeSessionRepository(),
		resets:      newFakeResetTokenRepository(),
		claims:      newFakeClaimsCache(),
		invalidator: &fakeInvalidator{},
	}

	service := NewService(
		fixture.users,
		fixture.sessions,
		fixture.resets,
		fixture.claims,
		fakeTokenProvider{},
		fixture.invalidator,
	)

	return service, fixture
}

func (fixture *serviceFixture) seedUser(t *testing.T, username, email, password string, role sec.UserRole) *User {
	t.Helper()

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)

	user := &User{
		ID:           "user-" + username,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	fixture.users.byID[user.ID] = user
	return user
}

// # Tests

/*
TestService_Register_Conflicts rejects duplicate email and username before
any write happens.
*/
func TestService_Register_Conflicts(t *testing.T) {
	service, fixture := newServiceFixture(t)
	fixture.seedUser(t, "ursula", "ursula@example.com", "correct-horse", sec.RoleCustomer)

	_, err := service.Register(context.Background(), RegisterInput{
		Username: "someone-else",
		Email:    "ursula@example.com",
		Password: "battery-staple",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	_, err = service.Register(context.Background(), RegisterInput{
		Username: "ursula",
		Email:    "new@example.com",
		Password: "battery-staple",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

/*
TestService_Register_DefaultsToCustomer never grants an elevated role through
the public enrollment path.
*/
func TestService_Register_DefaultsToCustomer(t *testing.T) {
	service, _ := newServiceFixture(t)

	user, err := service.Register(context.Background(), RegisterInput{
		Username: "ursula",
		Email:    "ursula@example.com",
		Password: "battery-staple",
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleCustomer, user.Role)
	assert.False(t, user.Role.IsElevated())
}

/*
TestService_Login_SeedsClaimsSnapshot refreshes the Redis claim set so the
admin gate reads current role data on its next cheap check.
*/
func TestService_Login_SeedsClaimsSnapshot(t *testing.T) {
	service, fixture := newServiceFixture(t)
	user := fixture.seedUser(t, "owner", "owner@example.com", "correct-horse", sec.RoleAdmin)

	session, err := service.Login(context.Background(), LoginInput{
		Login:    "owner@example.com",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Contains(t, fixture.claims.snapshots, user.ID)
}

/*
TestService_Login_Denials covers wrong password, unknown login, and suspended
accounts. All three return the same Unauthorized code.
*/
func TestService_Login_Denials(t *testing.T) {
	service, fixture := newServiceFixture(t)
	fixture.seedUser(t, "ursula", "ursula@example.com", "correct-horse", sec.RoleCustomer)
	suspended := fixture.seedUser(t, "banned", "banned@example.com", "correct-horse", sec.RoleCustomer)
	suspended.IsActive = false

	tests := []struct {
		name     string
		login    string
		password string
	}{
		{name: "wrong_password", login: "ursula@example.com", password: "incorrect"},
		{name: "unknown_login", login: "ghost@example.com", password: "correct-horse"},
		{name: "suspended_account", login: "banned@example.com", password: "correct-horse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(context.Background(), LoginInput{
				Login:    tt.login,
				Password: tt.password,
			})

			require.Error(t, err)
			assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
		})
	}
}

/*
TestService_Logout_ClearsClaimsState revokes the session and drops both the
snapshot and the verifier-side state.
*/
func TestService_Logout_ClearsClaimsState(t *testing.T) {
	service, fixture := newServiceFixture(t)
	user := fixture.seedUser(t, "owner", "owner@example.com", "correct-horse", sec.RoleAdmin)

	session, err := service.Login(context.Background(), LoginInput{
		Login:    "owner@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))

	assert.NotContains(t, fixture.claims.snapshots, user.ID)
	assert.Equal(t, []string{user.ID}, fixture.invalidator.signedOut)

	// Replaying the same refresh token is a no-op, not an error.
	assert.NoError(t, service.Logout(context.Background(), session.RefreshToken))
}

/*
TestService_RefreshSession_Rotation revokes the old session and issues a new
token pair. The spent token cannot be replayed.
*/
func TestService_RefreshSession_Rotation(t *testing.T) {
	service, fixture := newServiceFixture(t)
	fixture.seedUser(t, "ursula", "ursula@example.com", "correct-horse", sec.RoleCustomer)

	first, err := service.Login(context.Background(), LoginInput{
		Login:    "ursula@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	rotated, err := service.RefreshSession(context.Background(), first.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, rotated.RefreshToken)

	_, err = service.RefreshSession(context.Background(), first.RefreshToken, "", "")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestService_ResetPassword_RevokesEverything completes the recovery flow and
confirms sessions, snapshot, and verifier state are all cleared.
*/
func TestService_ResetPassword_RevokesEverything(t *testing.T) {
	service, fixture := newServiceFixture(t)
	user := fixture.seedUser(t, "ursula", "ursula@example.com", "correct-horse", sec.RoleCustomer)

	login, err := service.Login(context.Background(), LoginInput{
		Login:    "ursula@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	token, err := service.RequestPasswordReset(context.Background(), "ursula@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, service.ResetPassword(context.Background(), token, "brand-new-password"))

	// Old refresh token is dead.
	_, err = service.RefreshSession(context.Background(), login.RefreshToken, "", "")
	require.Error(t, err)

	// New password works.
	_, err = service.Login(context.Background(), LoginInput{
		Login:    "ursula@example.com",
		Password: "brand-new-password",
	})
	assert.NoError(t, err)

	assert.Contains(t, fixture.invalidator.signedOut, user.ID)

	// Token is single-use.
	err = service.ResetPassword(context.Background(), token, "another-password")
	require.Error(t, err)
}

/*
TestService_RequestPasswordReset_UnknownEmail returns silently to prevent
account enumeration.
*/
func TestService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	service, _ := newServiceFixture(t)

	token, err := service.RequestPasswordReset(context.Background(), "ghost@example.com")

	assert.NoError(t, err)
	assert.Empty(t, token)
}
