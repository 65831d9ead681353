// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package account

import (
	"context"
	"time"

	"github.com/nhatvu/averio/internal/identity/role"
)

// # Credential Store Contract

// Repository defines the data access contract for identity records.
//
// Implementations must map storage-level "row not found" conditions to
// [apperr.NotFound] so services never leak driver errors.
type Repository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUIDv7)

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Account, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*Account, error)

	/*
		Create persists a brand-new account together with the permission
		bundle implied by its role, atomically.

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: Persistence failures (nothing is committed on failure)
	*/
	Create(context context.Context, account *Account) error

	/*
		UpdateProfile persists changes to the mutable profile attributes
		(names, date of birth, phone, address, city, state).

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: Persistence failures
	*/
	UpdateProfile(context context.Context, account *Account) error

	/*
		UpdatePassword replaces only the account's password hash.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, accountID, newHash string) error

	/*
		MarkVerified sets the email-verified timestamp. The transition is
		one-way: implementations must not overwrite an existing timestamp.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - verifiedAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	MarkVerified(context context.Context, accountID string, verifiedAt time.Time) error

	/*
		SetActive flips the account's active flag (suspension/reactivation).

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - active: bool

		Returns:
		  - error: Persistence failures
	*/
	SetActive(context context.Context, accountID string, active bool) error

	/*
		UpdateAvatar replaces the account's avatar blob reference.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - avatarPath: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateAvatar(context context.Context, accountID, avatarPath string) error

	/*
		UpdateRole reassigns the account's role and swaps its permission
		bundle to the new role's bundle, atomically.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - newRole: role.Role

		Returns:
		  - error: Persistence failures (nothing is committed on failure)
	*/
	UpdateRole(context context.Context, accountID string, newRole role.Role) error

	/*
		List returns a page of accounts ordered by creation time.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []Account: Page of hydrated entities
		  - error: Database retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]Account, error)

	/*
		Count returns the total number of accounts.

		Parameters:
		  - context: context.Context

		Returns:
		  - int: Total account count
		  - error: Database retrieval failures
	*/
	Count(context context.Context) (int, error)

	/*
		Permissions returns the persisted permission bundle for an account.

		Parameters:
		  - context: context.Context
		  - accountID: string

		Returns:
		  - []string: Permission names from the join table
		  - error: Database retrieval failures
	*/
	Permissions(context context.Context, accountID string) ([]string, error)
}
