// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danghuy/inkwell/internal/platform/apperr"
	"github.com/danghuy/inkwell/internal/platform/constants"
)

// # Reset Token Repository

// RedisResetTokenRepository implements ResetTokenRepository using Redis.
type RedisResetTokenRepository struct {
	client *redis.Client
}

// NewResetTokenRepository creates a new Redis-backed ResetTokenRepository.
func NewResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

/*
Set stores a reset token with its associated userID and TTL.

Parameters:
  - context: context.Context
  - token: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisResetTokenRepository) Set(context context.Context, token string, userID string, ttl time.Duration) error {

	// Use constants for key prefix
	key := constants.RedisPrefixResetToken + token

	// Set the token with TTL
	if err := repository.client.Set(context, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
Get retrieves the userID for a given token.

Description: Returns apperr.NotFound if the token is absent or expired.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - string: Original UserID
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisResetTokenRepository) Get(context context.Context, token string) (string, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixResetToken + token

	// Get the token from Redis
	userID, err := repository.client.Get(context, key).Result()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Reset token is invalid or expired")
		}
		return "", fmt.Errorf("redis_reset_token_get_failed: %w", err)
	}

	// Return the userID
	return userID, nil
}

/*
Delete removes the token from Redis.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisResetTokenRepository) Delete(context context.Context, token string) error {

	// Use constants for key prefix
	key := constants.RedisPrefixResetToken + token

	// Delete the token from Redis
	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_delete_failed: %w", err)
	}

	// Return nil on success
	return nil
}

// # Claims Cache Repository

// RedisClaimsCacheRepository implements ClaimsCacheRepository using Redis.
//
// It holds the serialized claim set consumed by the admin access gate during
// its cheap (non-forced) verification reads.
type RedisClaimsCacheRepository struct {
	client *redis.Client
}

// NewClaimsCacheRepository creates a new Redis-backed ClaimsCacheRepository.
func NewClaimsCacheRepository(client *redis.Client) *RedisClaimsCacheRepository {
	return &RedisClaimsCacheRepository{client: client}
}

/*
Set stores the serialized claim set for a principal.

Parameters:
  - context: context.Context
  - userID: string
  - payload: []byte
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisClaimsCacheRepository) Set(context context.Context, userID string, payload []byte, ttl time.Duration) error {

	// Use constants for key prefix
	key := constants.RedisPrefixClaims + userID

	// Set the snapshot with TTL
	if err := repository.client.Set(context, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_claims_cache_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
Get retrieves the serialized claim set for a principal.

Description: Returns apperr.NotFound if the snapshot is absent or expired.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []byte: Serialized claim set
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisClaimsCacheRepository) Get(context context.Context, userID string) ([]byte, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixClaims + userID

	// Get the snapshot from Redis
	payload, err := repository.client.Get(context, key).Bytes()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Claims snapshot")
		}
		return nil, fmt.Errorf("redis_claims_cache_get_failed: %w", err)
	}

	// Return the payload
	return payload, nil
}

/*
Delete removes the claims snapshot for a principal.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisClaimsCacheRepository) Delete(context context.Context, userID string) error {

	// Use constants for key prefix
	key := constants.RedisPrefixClaims + userID

	// Delete the snapshot from Redis
	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_claims_cache_delete_failed: %w", err)
	}

	// Return nil on success
	return nil
}
