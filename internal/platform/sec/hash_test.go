// Copyright (c) 2026 Keystone Identity. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keystoneid/keystone/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies that a password verifies against its own
hash and against nothing else.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("correct horse 1")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NotEqual(t, "correct horse 1", hash)
	assert.True(t, sec.CheckPasswordHash("correct horse 1", hash))
	assert.False(t, sec.CheckPasswordHash("wrong horse 1", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
}

/*
TestHashPassword_Salted verifies that hashing the same password twice yields
distinct hashes, both of which still verify.
*/
func TestHashPassword_Salted(t *testing.T) {
	first, err := sec.HashPassword("swordfish9")
	require.NoError(t, err)
	second, err := sec.HashPassword("swordfish9")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, sec.CheckPasswordHash("swordfish9", first))
	assert.True(t, sec.CheckPasswordHash("swordfish9", second))
}

/*
TestCheckPasswordHash_MalformedHash verifies that verification fails closed
when the stored hash is corrupt.
*/
func TestCheckPasswordHash_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty_hash", ""},
		{"garbage_hash", "not-a-bcrypt-hash"},
		{"truncated_hash", "$2a$10$abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, sec.CheckPasswordHash("swordfish9", tt.hash))
		})
	}
}
