// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

// Storage contracts for the authentication domain.
//
// # Architecture
//
// Two collaborators back the auth service: a durable token issuer in
// PostgreSQL (bearer tokens must survive restarts) and a volatile reset
// token store in Redis (short TTL, single use, no durability requirement).
package auth

import (
	"context"
	"time"
)

// TokenRepository is the durable store behind the opaque token issuer.
type TokenRepository interface {

	/*
		Issue persists a freshly minted token record.

		Parameters:
		  - context: context.Context
		  - token: *Token

		Returns:
		  - error: Persistence failures
	*/
	Issue(context context.Context, token *Token) (err error)

	/*
		ReplaceAll atomically revokes every token the account holds and
		persists the replacement in one transaction.

		Description: Backs the single-active-session policy - a crash between
		revocation and mint must never leave the account with zero or two
		live sessions committed.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - token: *Token

		Returns:
		  - int: Number of tokens revoked
		  - error: Nothing is committed on any failure
	*/
	ReplaceAll(context context.Context, accountID string, token *Token) (revoked int, err error)

	/*
		FindAccountIDByHash resolves a token digest to the owning account.

		Description: Only live tokens resolve - expired rows are invisible
		to this lookup even before the sweeper removes them.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - string: Owning account ID
		  - error: apperr.NotFound when no live token matches
	*/
	FindAccountIDByHash(context context.Context, tokenHash string) (accountID string, err error)

	/*
		RevokeByHash deletes the single token with the given digest.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - error: Deletion failures (a missing row is not an error)
	*/
	RevokeByHash(context context.Context, tokenHash string) (err error)

	/*
		RevokeAll deletes every token the account holds.

		Parameters:
		  - context: context.Context
		  - accountID: string

		Returns:
		  - int: Number of tokens revoked
		  - error: Deletion failures
	*/
	RevokeAll(context context.Context, accountID string) (revoked int, err error)

	/*
		DeleteExpired sweeps tokens whose expiry has passed.

		Parameters:
		  - context: context.Context
		  - now: time.Time

		Returns:
		  - int: Number of rows removed
		  - error: Deletion failures
	*/
	DeleteExpired(context context.Context, now time.Time) (removed int, err error)
}

// ResetTokenRepository is the volatile store for password recovery tokens.
type ResetTokenRepository interface {

	/*
		Set stores a reset token with its associated accountID and TTL.

		Parameters:
		  - context: context.Context
		  - token: string
		  - accountID: string
		  - ttl: time.Duration

		Returns:
		  - error: Storage failures
	*/
	Set(context context.Context, token string, accountID string, ttl time.Duration) (err error)

	/*
		Get retrieves the accountID for a given token.

		Description: Returns apperr.BadRequest when the token is absent or
		expired - the caller forwards that state directly to the client.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - string: Owning account ID
		  - error: apperr.BadRequest or connectivity errors
	*/
	Get(context context.Context, token string) (accountID string, err error)

	/*
		Delete removes the token, enforcing single use.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Deletion failures
	*/
	Delete(context context.Context, token string) (err error)
}
