// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package verify implements the signed email verification link codec.

A verification link is a self-contained, time-limited capability: it embeds
the target account and a proof bound to the email address it was issued for,
sealed under an HMAC signature. Because the proof commits to the address, a
link is silently invalidated if the account's email changes after issuance.

Architecture:

  - Codec: Produces and validates HS256-signed link payloads (golang-jwt).
  - Proof: SHA-256 digest of the email at issuance time, compared in
    constant time during validation.
  - Delivery: The notify package carries the final URL to the user.
*/
package verify

import (
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nhatvu/averio/internal/platform/constants"
	"github.com/nhatvu/averio/internal/platform/sec"
)

// LinkTTL is the validity window of a verification link.
// Long-lived (24 hours) as users might not check email immediately.
const LinkTTL = 24 * time.Hour

// linkClaims is the signed payload of a verification link.
type linkClaims struct {
	jwt.RegisteredClaims
	// Proof is the SHA-256 digest of the email the link was issued for.
	Proof string `json:"prf"`
}

// Codec produces and validates signed verification link payloads.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec constructs a [Codec] sealing payloads under the application secret.
func NewCodec(secret string) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    LinkTTL,
		now:    time.Now,
	}
}

/*
Produce issues a signed link payload for the given account.

Description: The payload commits to the account ID (subject) and to a digest
of the email address at issuance time. Changing the address afterwards makes
every previously issued link fail its proof check.

Parameters:
  - accountID: string (UUIDv7)
  - email: string (The address the link certifies)

Returns:
  - string: Compact signed payload
  - error: Signing failures
*/
func (codec *Codec) Produce(accountID, email string) (string, error) {
	issuedAt := codec.now()

	claims := linkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    constants.LinkIssuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(codec.ttl)),
		},
		Proof: sec.EmailProof(email),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("verify_codec_sign_failed: %w", err)
	}

	return signed, nil
}

/*
Subject extracts the account ID from a link payload WITHOUT verifying it.

Description: Validation wants to report a missing account before reporting a
bad signature, so the subject must be readable from payloads that will later
fail the integrity check. Callers must never trust this value for anything
beyond the lookup that precedes [Codec.Validate].

Parameters:
  - payload: string

Returns:
  - string: Unverified subject claim
  - error: Malformed payloads
*/
func (codec *Codec) Subject(payload string) (string, error) {
	claims := &linkClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(payload, claims); err != nil {
		return "", fmt.Errorf("verify_codec_parse_failed: %w", err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("verify_codec_missing_subject")
	}

	return claims.Subject, nil
}

/*
Validate checks a link payload's integrity against the account's current email.

Description: The signature, expiry and issuer are verified first, then the
embedded proof is compared against a fresh digest of the current address in
constant time. Any failure is indistinguishable to the caller.

Parameters:
  - payload: string
  - currentEmail: string (The account's email as stored right now)

Returns:
  - error: Non-nil when the payload is forged, expired, or stale
*/
func (codec *Codec) Validate(payload, currentEmail string) error {
	claims := &linkClaims{}

	_, err := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(constants.LinkIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(codec.now),
	).ParseWithClaims(payload, claims, func(*jwt.Token) (any, error) {
		return codec.secret, nil
	})
	if err != nil {
		return fmt.Errorf("verify_codec_invalid_payload: %w", err)
	}

	if !sec.SecureCompare(claims.Proof, sec.EmailProof(currentEmail)) {
		return fmt.Errorf("verify_codec_proof_mismatch")
	}

	return nil
}

/*
Link assembles the user-facing verification URL for a payload.

Parameters:
  - baseURL: string (Public application origin, no trailing slash required)
  - payload: string

Returns:
  - string: Absolute URL the notification layer delivers to the user
*/
func (codec *Codec) Link(baseURL, payload string) string {
	return fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", baseURL, url.QueryEscape(payload))
}
