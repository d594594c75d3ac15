// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danghuy/inkwell/internal/platform/constants"
)

// # Redis Backup Store

// RedisBackupStore implements [BackupStore] using Redis.
//
// Blobs survive API process restarts but carry a TTL, so an abandoned
// session's backup ages out on its own.
type RedisBackupStore struct {
	client *redis.Client
}

// NewRedisBackupStore creates a new Redis-backed [BackupStore].
func NewRedisBackupStore(client *redis.Client) *RedisBackupStore {
	return &RedisBackupStore{client: client}
}

/*
Get retrieves the encrypted backup blob for a principal.

Parameters:
  - context: context.Context
  - principalID: string

Returns:
  - string: Opaque ciphertext blob
  - error: ErrNoBackup when absent, or connectivity errors
*/
func (store *RedisBackupStore) Get(context context.Context, principalID string) (string, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixClaimsBackup + principalID

	// Get the blob from Redis
	blob, err := store.client.Get(context, key).Result()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoBackup
		}
		return "", fmt.Errorf("redis_claims_backup_get_failed: %w", err)
	}

	// Return the blob
	return blob, nil
}

/*
Set stores the encrypted backup blob with its TTL.

Parameters:
  - context: context.Context
  - principalID: string
  - blob: string (opaque ciphertext)
  - ttl: time.Duration

Returns:
  - error: Storage failures
*/
func (store *RedisBackupStore) Set(context context.Context, principalID, blob string, ttl time.Duration) error {

	// Use constants for key prefix
	key := constants.RedisPrefixClaimsBackup + principalID

	// Set the blob with TTL
	if err := store.client.Set(context, key, blob, ttl).Err(); err != nil {
		return fmt.Errorf("redis_claims_backup_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
Remove deletes the backup blob. Removing an absent blob is not an error.

Parameters:
  - context: context.Context
  - principalID: string

Returns:
  - error: Deletion failures
*/
func (store *RedisBackupStore) Remove(context context.Context, principalID string) error {

	// Use constants for key prefix
	key := constants.RedisPrefixClaimsBackup + principalID

	// Delete the blob from Redis
	if err := store.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_claims_backup_remove_failed: %w", err)
	}

	// Return nil on success
	return nil
}
