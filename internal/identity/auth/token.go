// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package auth

import "time"

// Token is the persisted record of an issued bearer credential.
//
// The plaintext secret handed to the client is never stored; only its
// SHA-256 digest is, so a database leak does not leak usable credentials.
type Token struct {
	// ID is the primary key (UUIDv7, time-sortable).
	ID string `json:"id"`
	// AccountID is the account this token authenticates.
	AccountID string `json:"account_id"`
	// TokenHash is the SHA-256 hex digest of the plaintext secret.
	TokenHash string `json:"-"`
	// DeviceName is the client-supplied label shown in session listings.
	DeviceName string `json:"device_name"`
	// ExpiresAt is the absolute expiry; a token past this instant never
	// authenticates even if it was not explicitly revoked.
	ExpiresAt time.Time `json:"expires_at"`
	// CreatedAt is the mint timestamp.
	CreatedAt time.Time `json:"created_at"`
}
