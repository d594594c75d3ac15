// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package sec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// # Symmetric Encryption

// Cipher provides authenticated symmetric encryption using AES-256-GCM.
//
// It protects the durable admin-claims backup at rest. The authentication
// tag means a tampered or truncated blob fails decryption instead of
// producing garbage claims.
//
// # Concurrency
//
// A Cipher is stateless after construction and safe for concurrent use.
// Every encryption generates a fresh random nonce.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher creates an AES-256-GCM cipher from a 32-byte secret.
//
// The secret length is validated here so that a misconfigured deployment
// fails during startup wiring, never mid-request.
func NewCipher(secret []byte) (*Cipher, error) {
	if len(secret) != 32 {
		return nil, errors.New("sec: encryption secret must be exactly 32 bytes")
	}

	block, err := aes.NewCipher(secret)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to create GCM: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals the plaintext and returns a base64 blob of nonce||ciphertext.
//
// The nonce is prepended so that a single opaque string can be stored in any
// key/value backend without a separate nonce column.
func (c *Cipher) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("sec: failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a blob produced by [Cipher.Encrypt].
//
// It returns an error for any malformed, truncated, or tampered input.
// Callers treat decryption failure as "no valid data present".
func (c *Cipher) Decrypt(blob string) ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("sec: ciphertext is not valid base64: %w", err)
	}

	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, errors.New("sec: ciphertext shorter than nonce")
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("sec: decryption failed: %w", err)
	}

	return plaintext, nil
}
