// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

// PostgreSQL implementation of the credential store.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nhatvu/averio/internal/identity/role"
	"github.com/nhatvu/averio/internal/platform/apperr"
	"github.com/nhatvu/averio/internal/platform/dberr"
)

// accountColumns is the canonical SELECT column list for account hydration.
const accountColumns = `
	id, email, passwordhash, active, emailverifiedat, role,
	firstname, lastname, dateofbirth, phone, address, city, state,
	avatarpath, createdat, updatedat`

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the credential store.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// scanAccount hydrates a single [Account] from a pgx row.
func scanAccount(row pgx.Row) (*Account, error) {
	acct := &Account{}
	err := row.Scan(
		&acct.ID,
		&acct.Email,
		&acct.PasswordHash,
		&acct.Active,
		&acct.EmailVerifiedAt,
		&acct.Role,
		&acct.FirstName,
		&acct.LastName,
		&acct.DateOfBirth,
		&acct.Phone,
		&acct.Address,
		&acct.City,
		&acct.State,
		&acct.AvatarPath,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return acct, nil
}

/*
FindByID retrieves an account by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Account: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1`

	acct, err := scanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found.")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return acct, nil
}

/*
FindByEmail retrieves an account by its unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Account: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1`

	acct, err := scanAccount(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found.")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_email_failed: %w", err)
	}

	return acct, nil
}

/*
Create persists a new account row plus the permission bundle implied by
its role in a single transaction.

Description: The bundle rows reference the seeded permissions table by name,
so provisioning stays consistent with the roles defined in [role].

Parameters:
  - context: context.Context
  - account: *Account

Returns:
  - error: Nothing is committed on any failure
*/
func (repository *PostgresRepository) Create(context context.Context, account *Account) error {
	const insertAccount = `
		INSERT INTO accounts (
			id, email, passwordhash, active, emailverifiedat, role,
			firstname, lastname, dateofbirth, phone, address, city, state,
			avatarpath, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	const insertBundle = `
		INSERT INTO account_permission (account_id, permission_id)
		SELECT $1, id FROM permissions WHERE name = ANY($2)`

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	_, err = transaction.Exec(context, insertAccount,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Active,
		account.EmailVerifiedAt,
		account.Role,
		account.FirstName,
		account.LastName,
		account.DateOfBirth,
		account.Phone,
		account.Address,
		account.City,
		account.State,
		account.AvatarPath,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		// The unique index on email backs the taken-email validation error even
		// when two registrations race past the service-level lookup.
		if dberr.IsUniqueViolation(err) {
			return apperr.Validation(apperr.FieldError{
				Field:   FieldEmail,
				Message: "The email has already been taken.",
			})
		}
		return fmt.Errorf("postgres_account_repo_create_failed: %w", err)
	}

	if _, err := transaction.Exec(context, insertBundle, account.ID, account.Role.Permissions()); err != nil {
		return fmt.Errorf("postgres_account_repo_provision_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_account_repo_commit_failed: %w", err)
	}

	return nil
}

/*
UpdateProfile persists the mutable profile attributes of an account.

Parameters:
  - context: context.Context
  - account: *Account

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) UpdateProfile(context context.Context, account *Account) error {
	const query = `
		UPDATE accounts
		SET firstname = $2, lastname = $3, dateofbirth = $4, phone = $5,
		    address = $6, city = $7, state = $8, updatedat = $9
		WHERE id = $1`

	account.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		account.ID,
		account.FirstName,
		account.LastName,
		account.DateOfBirth,
		account.Phone,
		account.Address,
		account.City,
		account.State,
		account.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_profile_failed: %w", err)
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific account.

Parameters:
  - context: context.Context
  - accountID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresRepository) UpdatePassword(context context.Context, accountID, newHash string) error {
	const query = `
		UPDATE accounts
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, accountID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
MarkVerified sets the email-verified timestamp exactly once.

Description: The WHERE clause guards the one-way transition — a row that is
already verified is left untouched.

Parameters:
  - context: context.Context
  - accountID: string
  - verifiedAt: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresRepository) MarkVerified(context context.Context, accountID string, verifiedAt time.Time) error {
	const query = `
		UPDATE accounts
		SET emailverifiedat = $2, updatedat = $2
		WHERE id = $1 AND emailverifiedat IS NULL`

	_, err := repository.pool.Exec(context, query, accountID, verifiedAt)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_mark_verified_failed: %w", err)
	}

	return nil
}

/*
SetActive flips the account's active flag.

Parameters:
  - context: context.Context
  - accountID: string
  - active: bool

Returns:
  - error: Execution errors
*/
func (repository *PostgresRepository) SetActive(context context.Context, accountID string, active bool) error {
	const query = "UPDATE accounts SET active = $2, updatedat = $3 WHERE id = $1"

	_, err := repository.pool.Exec(context, query, accountID, active, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_set_active_failed: %w", err)
	}

	return nil
}

/*
UpdateAvatar replaces the account's avatar blob reference.

Parameters:
  - context: context.Context
  - accountID: string
  - avatarPath: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresRepository) UpdateAvatar(context context.Context, accountID, avatarPath string) error {
	const query = "UPDATE accounts SET avatarpath = $2, updatedat = $3 WHERE id = $1"

	_, err := repository.pool.Exec(context, query, accountID, avatarPath, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_avatar_failed: %w", err)
	}

	return nil
}

/*
UpdateRole reassigns the account's role and swaps the permission bundle
in a single transaction.

Parameters:
  - context: context.Context
  - accountID: string
  - newRole: role.Role

Returns:
  - error: Nothing is committed on any failure
*/
func (repository *PostgresRepository) UpdateRole(context context.Context, accountID string, newRole role.Role) error {
	const updateRole = "UPDATE accounts SET role = $2, updatedat = $3 WHERE id = $1"
	const dropBundle = "DELETE FROM account_permission WHERE account_id = $1"
	const insertBundle = `
		INSERT INTO account_permission (account_id, permission_id)
		SELECT $1, id FROM permissions WHERE name = ANY($2)`

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	if _, err := transaction.Exec(context, updateRole, accountID, newRole, time.Now()); err != nil {
		return fmt.Errorf("postgres_account_repo_update_role_failed: %w", err)
	}

	if _, err := transaction.Exec(context, dropBundle, accountID); err != nil {
		return fmt.Errorf("postgres_account_repo_drop_bundle_failed: %w", err)
	}

	if _, err := transaction.Exec(context, insertBundle, accountID, newRole.Permissions()); err != nil {
		return fmt.Errorf("postgres_account_repo_provision_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_account_repo_commit_failed: %w", err)
	}

	return nil
}

/*
List returns a page of accounts ordered by creation time (newest first).

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []Account: Page of hydrated entities
  - error: Retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	accounts := make([]Account, 0, limit)
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_account_repo_list_scan_failed: %w", err)
		}
		accounts = append(accounts, *acct)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_account_repo_list_rows_failed: %w", err)
	}

	return accounts, nil
}

/*
Count returns the total number of accounts.

Parameters:
  - context: context.Context

Returns:
  - int: Total account count
  - error: Retrieval failures
*/
func (repository *PostgresRepository) Count(context context.Context) (int, error) {
	const query = "SELECT COUNT(*) FROM accounts"

	var total int
	if err := repository.pool.QueryRow(context, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres_account_repo_count_failed: %w", err)
	}

	return total, nil
}

/*
Permissions returns the persisted permission bundle for an account.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - []string: Permission names from the join table
  - error: Retrieval failures
*/
func (repository *PostgresRepository) Permissions(context context.Context, accountID string) ([]string, error) {
	const query = `
		SELECT p.name
		FROM permissions p
		JOIN account_permission ap ON ap.permission_id = p.id
		WHERE ap.account_id = $1
		ORDER BY p.name`

	rows, err := repository.pool.Query(context, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_permissions_failed: %w", err)
	}
	defer rows.Close()

	permissions := make([]string, 0, 8)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("postgres_account_repo_permissions_scan_failed: %w", err)
		}
		permissions = append(permissions, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_account_repo_permissions_rows_failed: %w", err)
	}

	return permissions, nil
}
