// Copyright (c) 2026 Keystone Identity. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keystoneid/keystone/internal/platform/sec"
)

/*
TestGenerateSecureToken verifies token length and uniqueness across calls.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	// 32 bytes → 43 characters of unpadded base64url.
	assert.Len(t, first, 43)
	assert.NotEqual(t, first, second)
}

/*
TestHashToken verifies the HMAC derivation is deterministic per (token, secret)
and diverges for any other input pair.
*/
func TestHashToken(t *testing.T) {
	hash := sec.HashToken("token-a", "secret-1")

	assert.Equal(t, hash, sec.HashToken("token-a", "secret-1"))
	assert.NotEqual(t, hash, sec.HashToken("token-b", "secret-1"))
	assert.NotEqual(t, hash, sec.HashToken("token-a", "secret-2"))

	// hex-encoded SHA-256 output
	assert.Len(t, hash, 64)
}
