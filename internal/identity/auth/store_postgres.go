// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

// PostgreSQL implementation of the opaque token issuer.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nhatvu/averio/internal/platform/apperr"
)

// PostgresTokenRepository implements [TokenRepository] using pgx.
type PostgresTokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository creates a new PostgreSQL implementation of the token issuer.
func NewTokenRepository(pool *pgxpool.Pool) *PostgresTokenRepository {
	return &PostgresTokenRepository{pool: pool}
}

const insertToken = `
	INSERT INTO access_tokens (id, account_id, tokenhash, devicename, expiresat, createdat)
	VALUES ($1, $2, $3, $4, $5, $6)`

/*
Issue persists a freshly minted token record.

Parameters:
  - context: context.Context
  - token: *Token

Returns:
  - error: Persistence failures
*/
func (repository *PostgresTokenRepository) Issue(context context.Context, token *Token) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, insertToken,
		token.ID,
		token.AccountID,
		token.TokenHash,
		token.DeviceName,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_token_repo_issue_failed: %w", err)
	}

	return nil
}

/*
ReplaceAll revokes every token the account holds and persists the replacement
in a single transaction.

Parameters:
  - context: context.Context
  - accountID: string
  - token: *Token

Returns:
  - int: Number of tokens revoked
  - error: Nothing is committed on any failure
*/
func (repository *PostgresTokenRepository) ReplaceAll(context context.Context, accountID string, token *Token) (int, error) {
	const deleteAll = "DELETE FROM access_tokens WHERE account_id = $1"

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return 0, fmt.Errorf("postgres_token_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	tag, err := transaction.Exec(context, deleteAll, accountID)
	if err != nil {
		return 0, fmt.Errorf("postgres_token_repo_replace_revoke_failed: %w", err)
	}

	_, err = transaction.Exec(context, insertToken,
		token.ID,
		token.AccountID,
		token.TokenHash,
		token.DeviceName,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("postgres_token_repo_replace_issue_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return 0, fmt.Errorf("postgres_token_repo_commit_failed: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

/*
FindAccountIDByHash resolves a token digest to the owning account.

Description: The expiry predicate keeps expired-but-unswept rows from
authenticating.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - string: Owning account ID
  - error: apperr.Unauthenticated when no live token matches
*/
func (repository *PostgresTokenRepository) FindAccountIDByHash(context context.Context, tokenHash string) (string, error) {
	const query = `
		SELECT account_id
		FROM access_tokens
		WHERE tokenhash = $1 AND expiresat > NOW()`

	var accountID string
	err := repository.pool.QueryRow(context, query, tokenHash).Scan(&accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.Unauthenticated("Unauthenticated.")
		}
		return "", fmt.Errorf("postgres_token_repo_resolve_failed: %w", err)
	}

	return accountID, nil
}

/*
RevokeByHash deletes the single token with the given digest.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - error: Deletion failures (a missing row is not an error)
*/
func (repository *PostgresTokenRepository) RevokeByHash(context context.Context, tokenHash string) error {
	const query = "DELETE FROM access_tokens WHERE tokenhash = $1"

	if _, err := repository.pool.Exec(context, query, tokenHash); err != nil {
		return fmt.Errorf("postgres_token_repo_revoke_failed: %w", err)
	}

	return nil
}

/*
RevokeAll deletes every token the account holds.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - int: Number of tokens revoked
  - error: Deletion failures
*/
func (repository *PostgresTokenRepository) RevokeAll(context context.Context, accountID string) (int, error) {
	const query = "DELETE FROM access_tokens WHERE account_id = $1"

	tag, err := repository.pool.Exec(context, query, accountID)
	if err != nil {
		return 0, fmt.Errorf("postgres_token_repo_revoke_all_failed: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

/*
DeleteExpired sweeps tokens whose expiry has passed.

Parameters:
  - context: context.Context
  - now: time.Time

Returns:
  - int: Number of rows removed
  - error: Deletion failures
*/
func (repository *PostgresTokenRepository) DeleteExpired(context context.Context, now time.Time) (int, error) {
	const query = "DELETE FROM access_tokens WHERE expiresat <= $1"

	tag, err := repository.pool.Exec(context, query, now)
	if err != nil {
		return 0, fmt.Errorf("postgres_token_repo_sweep_failed: %w", err)
	}

	return int(tag.RowsAffected()), nil
}
