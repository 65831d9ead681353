// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package sec_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatvu/averio/internal/platform/sec"
)

/*
TestGenerateSecureToken verifies entropy length, URL safety, and uniqueness
across draws.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	// 1. Full 32 bytes of entropy survive the encoding
	decoded, err := base64.RawURLEncoding.DecodeString(first)
	require.NoError(t, err)
	assert.Len(t, decoded, 32)

	// 2. Safe to embed in URLs and headers without escaping
	assert.False(t, strings.ContainsAny(first, "+/="))

	// 3. Two draws never collide
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

/*
TestHashToken verifies that the digest is a deterministic hex SHA-256 that
never leaks the plain token.
*/
func TestHashToken(t *testing.T) {
	digest := sec.HashToken("plain-token-value")

	assert.Len(t, digest, 64)
	assert.Equal(t, digest, sec.HashToken("plain-token-value"))
	assert.NotEqual(t, digest, sec.HashToken("other-token-value"))
	assert.NotContains(t, digest, "plain-token-value")
}

/*
TestEmailProof verifies determinism and sensitivity to the address.
*/
func TestEmailProof(t *testing.T) {
	proof := sec.EmailProof("user@averio.test")

	assert.Len(t, proof, 64)
	assert.Equal(t, proof, sec.EmailProof("user@averio.test"))
	assert.NotEqual(t, proof, sec.EmailProof("other@averio.test"))
}

/*
TestSecureCompare verifies equality semantics of the constant-time comparison.
*/
func TestSecureCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"equal", "abcdef", "abcdef", true},
		{"different_content", "abcdef", "abcdeg", false},
		{"different_length", "abc", "abcdef", false},
		{"both_empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sec.SecureCompare(tt.a, tt.b))
		})
	}
}

/*
TestPasswordHashing verifies the bcrypt round trip and its rejection paths.
*/
func TestPasswordHashing(t *testing.T) {
	hash, err := sec.HashPassword("correct-horse-battery")
	require.NoError(t, err)
	require.NotEqual(t, "correct-horse-battery", hash)

	assert.True(t, sec.CheckPasswordHash("correct-horse-battery", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-password", hash))
	assert.False(t, sec.CheckPasswordHash("correct-horse-battery", "not-a-bcrypt-hash"))
}
