// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package access

import (
	"fmt"

	"encoding/json"

	"github.com/danghuy/inkwell/internal/platform/sec"
)

// # Encrypted Claims Backup

// backupEnvelope is the plaintext layout sealed into the backup blob.
//
// # Invariant
//
// An envelope is only ever minted from a positive, freshly verified
// decision. Its Hash mirrors the cache entry written at the same moment,
// which is what lets the fallback path detect that the grant changed after
// the backup was taken.
type backupEnvelope struct {
	Claims    ClaimSet `json:"claims"`
	ExpiresAt int64    `json:"exp"` // unix seconds
	Hash      string   `json:"hash"`
}

// sealBackup serializes and encrypts an envelope into an opaque blob.
func sealBackup(cipher *sec.Cipher, envelope backupEnvelope) (string, error) {
	plaintext, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("access_backup_encode_failed: %w", err)
	}

	blob, err := cipher.Encrypt(plaintext)
	if err != nil {
		return "", fmt.Errorf("access_backup_encrypt_failed: %w", err)
	}

	return blob, nil
}

// openBackup decrypts and parses a blob produced by [sealBackup].
//
// Any failure — wrong key, tampering, truncation, malformed claims — is an
// error; callers treat it as "no valid fallback present".
func openBackup(cipher *sec.Cipher, blob string) (*backupEnvelope, error) {
	plaintext, err := cipher.Decrypt(blob)
	if err != nil {
		return nil, fmt.Errorf("access_backup_decrypt_failed: %w", err)
	}

	envelope := &backupEnvelope{}
	if err := json.Unmarshal(plaintext, envelope); err != nil {
		return nil, fmt.Errorf("access_backup_decode_failed: %w", err)
	}

	if err := envelope.Claims.Validate(); err != nil {
		return nil, fmt.Errorf("access_backup_claims_invalid: %w", err)
	}

	return envelope, nil
}
