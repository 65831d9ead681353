// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package admin implements account administration for privileged operators.

It covers paginated account listings, suspension and reactivation, and role
reassignment. The guard chain has already established that the caller holds
an ADMIN or OWNER role by the time these operations run; the service only
enforces the finer rules (self-protection, owner precedence).

Architecture:

  - Service: Orchestrates administrative mutations.
  - Token Issuer: Collaborator used to invalidate a suspended account's
    credentials immediately.
*/
package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nhatvu/averio/internal/identity/account"
	"github.com/nhatvu/averio/internal/identity/auth"
	"github.com/nhatvu/averio/internal/identity/role"
	"github.com/nhatvu/averio/internal/platform/apperr"
	"github.com/nhatvu/averio/internal/platform/metrics"
	"github.com/nhatvu/averio/pkg/pagination"
)

// # Service Layer

// Service orchestrates privileged account administration.
type Service struct {
	accountRepository account.Repository
	tokenRepository   auth.TokenRepository
	recorder          metrics.Recorder
	logger            *slog.Logger
}

// NewService constructs a new admin [Service].
func NewService(
	accountRepo account.Repository,
	tokenRepo auth.TokenRepository,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		tokenRepository:   tokenRepo,
		recorder:          recorder,
		logger:            logger,
	}
}

// # Account Listings

/*
List returns a page of accounts ordered by creation time.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []account.Account: Page of accounts
  - pagination.Meta: Paging metadata
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]account.Account, pagination.Meta, error) {
	accounts, err := service.accountRepository.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("admin_service_list_failed: %w", err)
	}

	total, err := service.accountRepository.Count(context)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("admin_service_count_failed: %w", err)
	}

	return accounts, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
Get retrieves a single account with its persisted permission bundle.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - *account.Account: Hydrated account
  - []string: Permission names
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) Get(context context.Context, accountID string) (*account.Account, []string, error) {
	acct, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return nil, nil, err
	}

	permissions, err := service.accountRepository.Permissions(context, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("admin_service_permissions_failed: %w", err)
	}

	return acct, permissions, nil
}

// # Suspension Lifecycle

/*
Suspend deactivates an account and revokes its entire credential set.

Description: Operators cannot suspend themselves, and OWNER accounts are
untouchable through this path. Revocation happens immediately rather than
waiting for the guard chain's first-use sweep.

Parameters:
  - context: context.Context
  - operatorID: string (The acting administrator)
  - accountID: string (The target)

Returns:
  - error: Forbidden, NotFound, or update failures
*/
func (service *Service) Suspend(context context.Context, operatorID, accountID string) error {
	if operatorID == accountID {
		return apperr.Forbidden("You cannot suspend your own account.")
	}

	target, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return err
	}

	if target.Role == role.Owner {
		return apperr.Forbidden("You do not have permission to perform this action.")
	}

	if err := service.accountRepository.SetActive(context, accountID, false); err != nil {
		return fmt.Errorf("admin_service_suspend_failed: %w", err)
	}

	// Kill every live session right away
	revoked, err := service.tokenRepository.RevokeAll(context, accountID)
	if err != nil {
		return fmt.Errorf("admin_service_suspend_revoke_failed: %w", err)
	}
	service.recorder.RecordTokensRevoked(revoked)

	service.logger.Info("account_suspended",
		slog.String("account_id", accountID),
		slog.String("operator_id", operatorID),
		slog.Int("tokens_revoked", revoked),
	)

	return nil
}

/*
Reactivate restores a suspended account.

Description: No tokens are restored - the user logs in again normally.

Parameters:
  - context: context.Context
  - operatorID: string
  - accountID: string

Returns:
  - error: NotFound or update failures
*/
func (service *Service) Reactivate(context context.Context, operatorID, accountID string) error {
	if _, err := service.accountRepository.FindByID(context, accountID); err != nil {
		return err
	}

	if err := service.accountRepository.SetActive(context, accountID, true); err != nil {
		return fmt.Errorf("admin_service_reactivate_failed: %w", err)
	}

	service.logger.Info("account_reactivated",
		slog.String("account_id", accountID),
		slog.String("operator_id", operatorID),
	)

	return nil
}

// # Role Management

/*
ChangeRole reassigns an account's role and its permission bundle.

Description: Only OWNER operators may reassign roles, the OWNER role itself
is never assignable, existing OWNER accounts are untouchable, and operators
cannot change their own role.

Parameters:
  - context: context.Context
  - operator: *account.Account (The acting administrator)
  - accountID: string (The target)
  - newRole: role.Role

Returns:
  - error: Forbidden, BadRequest, NotFound, or update failures
*/
func (service *Service) ChangeRole(context context.Context, operator *account.Account, accountID string, newRole role.Role) error {
	if operator.Role != role.Owner {
		return apperr.Forbidden("You do not have permission to perform this action.")
	}

	if operator.ID == accountID {
		return apperr.Forbidden("You cannot change your own role.")
	}

	if !newRole.Valid() || newRole == role.Owner {
		return apperr.BadRequest("Invalid role.")
	}

	target, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return err
	}

	if target.Role == role.Owner {
		return apperr.Forbidden("You do not have permission to perform this action.")
	}

	if err := service.accountRepository.UpdateRole(context, accountID, newRole); err != nil {
		return fmt.Errorf("admin_service_change_role_failed: %w", err)
	}

	service.logger.Info("account_role_changed",
		slog.String("account_id", accountID),
		slog.String("operator_id", operator.ID),
		slog.String("new_role", string(newRole)),
	)

	return nil
}
