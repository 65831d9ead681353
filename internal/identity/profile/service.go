// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package profile implements self-service account management for the
authenticated user.

It covers reading the private profile, partial attribute updates, and the
avatar upload pipeline backed by the blob store.

Architecture:

  - Service: Orchestrates profile mutations and the avatar swap.
  - Blob Store: External collaborator keeping the binary content; the
    account row only holds the object key.
*/
package profile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/nhatvu/averio/internal/identity/account"
	"github.com/nhatvu/averio/internal/storage/blob"
	"github.com/nhatvu/averio/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for the authenticated user's account.
type Service struct {
	accountRepository account.Repository
	blobStore         blob.Store
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo account.Repository, blobStore blob.Store, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		blobStore:         blobStore,
		logger:            logger,
	}
}

// # Profile Management

/*
Get retrieves the full private profile of an account.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - *account.Account: The hydrated profile
  - error: Not found or execution failures
*/
func (service *Service) Get(context context.Context, accountID string) (*account.Account, error) {
	acct, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// UpdateInput defines the mutable subset of profile fields.
// Nil pointers leave the stored value untouched.
type UpdateInput struct {
	FirstName   *string
	LastName    *string
	DateOfBirth *time.Time
	Phone       *string
	Address     *string
	City        *string
	State       *string
}

/*
Update applies a partial set of changes to an account's profile attributes.

Description: Fetches the existing state, overlays the provided fields, and
synchronizes the change to persistent storage. Email, password, role and
verification state are never touched through this path.

Parameters:
  - context: context.Context
  - accountID: string
  - input: UpdateInput

Returns:
  - *account.Account: The updated profile
  - error: Update or storage failures
*/
func (service *Service) Update(context context.Context, accountID string, input UpdateInput) (*account.Account, error) {

	acct, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.FirstName != nil {
		acct.FirstName = *input.FirstName
	}

	if input.LastName != nil {
		acct.LastName = *input.LastName
	}

	if input.DateOfBirth != nil {
		acct.DateOfBirth = input.DateOfBirth
	}

	if input.Phone != nil {
		acct.Phone = *input.Phone
	}

	if input.Address != nil {
		acct.Address = *input.Address
	}

	if input.City != nil {
		acct.City = *input.City
	}

	if input.State != nil {
		acct.State = *input.State
	}

	// Persist changes
	if err := service.accountRepository.UpdateProfile(context, acct); err != nil {
		return nil, fmt.Errorf("profile_service_update_failed: %w", err)
	}

	service.logger.Info("profile_updated", slog.String("account_id", accountID))

	return acct, nil
}

// # Avatar Pipeline

/*
UpdateAvatar uploads a new avatar and swaps the account's reference to it.

Description: Two-phase swap - the new blob is uploaded under a fresh key
first, then the account row is pointed at it, and only after a successful
commit is the previous blob deleted. A fault mid-way can leave an orphaned
blob but never a profile pointing at missing content.

Parameters:
  - context: context.Context
  - accountID: string
  - contentType: string
  - body: io.Reader (The validated image bytes)

Returns:
  - *account.Account: Profile with the new avatar reference
  - error: Upload or persistence failures
*/
func (service *Service) UpdateAvatar(context context.Context, accountID, contentType string, body io.Reader) (*account.Account, error) {

	acct, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return nil, err
	}

	previousPath := acct.AvatarPath
	newPath := fmt.Sprintf("avatars/%s/%s%s", accountID, uuid.New(), extensionFor(contentType))

	// Phase 1: upload under the fresh key
	if err := service.blobStore.Put(context, newPath, contentType, body); err != nil {
		return nil, fmt.Errorf("profile_service_avatar_upload_failed: %w", err)
	}

	// Phase 2: point the account at it
	if err := service.accountRepository.UpdateAvatar(context, accountID, newPath); err != nil {
		// Roll the orphan back on a best-effort basis
		_ = service.blobStore.Delete(context, newPath)
		return nil, fmt.Errorf("profile_service_avatar_swap_failed: %w", err)
	}
	acct.AvatarPath = newPath

	// Old blob cleanup is best effort; a leak is preferable to a broken swap
	if previousPath != "" {
		if err := service.blobStore.Delete(context, previousPath); err != nil {
			service.logger.Warn("profile_avatar_cleanup_failed",
				slog.String("account_id", accountID),
				slog.String("path", previousPath),
				slog.Any("error", err),
			)
		}
	}

	service.logger.Info("profile_avatar_updated", slog.String("account_id", accountID))

	return acct, nil
}

// AvatarURL resolves the public URL for an account's avatar reference.
// Returns an empty string when no avatar is set.
func (service *Service) AvatarURL(acct *account.Account) string {
	if acct.AvatarPath == "" {
		return ""
	}
	return service.blobStore.PublicURL(acct.AvatarPath)
}

// extensionFor maps an image content type to a storage key extension.
func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
