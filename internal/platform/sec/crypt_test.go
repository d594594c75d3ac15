// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghuy/inkwell/internal/platform/sec"
)

/*
TestCipher_RoundTrip verifies that sealed data decrypts back to the original.
*/
func TestCipher_RoundTrip(t *testing.T) {
	cipher, err := sec.NewCipher([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	plaintext := []byte(`{"sub":"user-1","adm":true}`)

	blob, err := cipher.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotContains(t, blob, "adm") // ciphertext must not leak claims

	decrypted, err := cipher.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

/*
TestCipher_KeyLength rejects secrets that are not exactly 32 bytes.
*/
func TestCipher_KeyLength(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{"empty", ""},
		{"too_short", "short-secret"},
		{"too_long", strings.Repeat("x", 33)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sec.NewCipher([]byte(tt.secret))
			assert.Error(t, err)
		})
	}
}

/*
TestCipher_TamperDetection ensures modified or malformed blobs fail closed.
*/
func TestCipher_TamperDetection(t *testing.T) {
	cipher, err := sec.NewCipher([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	blob, err := cipher.Encrypt([]byte("payload"))
	require.NoError(t, err)

	tests := []struct {
		name string
		blob string
	}{
		{"not_base64", "%%%not-base64%%%"},
		{"truncated", blob[:8]},
		{"flipped_byte", "A" + blob[1:]},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cipher.Decrypt(tt.blob)
			assert.Error(t, err)
		})
	}
}

/*
TestCipher_UniqueNonce checks that identical plaintexts never produce
identical blobs (a repeated nonce would break GCM).
*/
func TestCipher_UniqueNonce(t *testing.T) {
	cipher, err := sec.NewCipher([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	first, err := cipher.Encrypt([]byte("same input"))
	require.NoError(t, err)
	second, err := cipher.Encrypt([]byte("same input"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
