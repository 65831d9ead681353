// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

// Package sec provides the cryptographic primitives for identity management.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, opaque
// token generation and digesting) from the domain logic. It is stateless;
// every function is safe for concurrent use.
package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// # Opaque Tokens

// GenerateSecureToken returns a URL-safe random token of byteLength entropy bytes.
//
// The plain value is handed to the client exactly once and never persisted —
// only its [HashToken] digest is stored for lookup.
func GenerateSecureToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken computes the hex-encoded SHA-256 digest used as the storage-side
// lookup key for an opaque bearer token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// # Proofs

// EmailProof derives the deterministic proof value embedded in verification
// links from an email address.
//
// The proof is not a secret — the link signature is the trust anchor. It
// exists so that changing the email invalidates every outstanding link.
func EmailProof(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}

// SecureCompare reports whether two strings are equal without short-circuiting,
// preventing timing side channels on proof and token comparisons.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
