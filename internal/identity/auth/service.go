// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package auth implements the core identity and access management system.

It handles everything from account registration and secure password hashing
to the full bearer token lifecycle (opaque tokens in PostgreSQL, reset tokens
in Redis) and signed email verification links.

Architecture:

  - Service: Orchestrates business logic (Register, Login, VerifyEmail, recovery).
  - Repository: Abstracted interfaces for Postgres (tokens) and Redis (reset tokens).
  - Security: Bcrypt password hashing, SHA-256 token digests, HMAC-signed links.

The package ensures that identity data remains consistent and secure
throughout the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/nhatvu/averio/internal/identity/account"
	"github.com/nhatvu/averio/internal/identity/role"
	"github.com/nhatvu/averio/internal/notify"
	"github.com/nhatvu/averio/internal/platform/apperr"
	"github.com/nhatvu/averio/internal/platform/ctxutil"
	"github.com/nhatvu/averio/internal/platform/metrics"
	"github.com/nhatvu/averio/internal/platform/sec"
	"github.com/nhatvu/averio/pkg/uuid"
)

// # Contracts & Types

// LinkCodec defines the contract for signed verification link payloads.
type LinkCodec interface {
	// Produce issues a signed payload bound to the account and its email.
	Produce(accountID, email string) (string, error)
	// Subject extracts the account ID WITHOUT verifying the payload.
	Subject(payload string) (string, error)
	// Validate checks signature, expiry and the email-bound proof.
	Validate(payload, currentEmail string) error
	// Link assembles the user-facing URL for a payload.
	Link(baseURL, payload string) string
}

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, token
// issuance, or guard resolution logic must be reviewed by the security team.
type Service struct {
	accountRepository    account.Repository
	tokenRepository      TokenRepository
	resetTokenRepository ResetTokenRepository
	linkCodec            LinkCodec
	sender               notify.Sender
	recorder             metrics.Recorder
	baseURL              string
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	accountRepo account.Repository,
	tokenRepo TokenRepository,
	resetRepo ResetTokenRepository,
	linkCodec LinkCodec,
	sender notify.Sender,
	recorder metrics.Recorder,
	baseURL string,
) *Service {
	return &Service{
		accountRepository:    accountRepo,
		tokenRepository:      tokenRepo,
		resetTokenRepository: resetRepo,
		linkCodec:            linkCodec,
		sender:               sender,
		recorder:             recorder,
		baseURL:              baseURL,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	DeviceName string
}

// Session represents an established authenticated session.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Account   *account.Account
}

/*
Register validates, hashes, and persists a brand new account, then
establishes its first session.

Description: New accounts always start as unverified regular users.
Registration never auto-verifies; a verification link is dispatched as a
fire-and-forget side effect.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Session: Fresh bearer token plus the created account
  - error: Validation (taken email) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Session, error) {

	// Verify email uniqueness. Return a client-safe field error.
	_, err := service.accountRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Validation(apperr.FieldError{
			Field:   account.FieldEmail,
			Message: "The email has already been taken.",
		})
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new entity. Time-sortable ID to prevent PG index fragmentation.
	acct := &account.Account{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Active:       true,
		Role:         role.User,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}

	// Persist the account (and its permission bundle) to the database
	if err := service.accountRepository.Create(context, acct); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}
	service.recorder.RecordRegistration()

	// Dispatch the verification link as an async-ready side effect
	service.dispatchVerification(context, acct)

	// Establish the first session for the new account
	session, err := service.mintSession(context, acct, input.DeviceName)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email      string
	Password   string
	DeviceName string
}

/*
Login validates credentials and issues a fresh bearer token.

Description: Unknown email and wrong password produce byte-identical
responses to prevent account enumeration. A successful login revokes every
previously issued token (single active session) before minting the new one.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Session: Transport-ready session
  - error: Unauthorized, Forbidden (suspended) or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {

	// Look up by email. Generic message to prevent enumeration.
	acct, err := service.accountRepository.FindByEmail(context, input.Email)
	if err != nil {
		service.recorder.RecordLogin(false)
		return nil, apperr.Unauthorized("The provided credentials are incorrect.")
	}

	// Verify password hash using bcrypt's constant-time comparison
	if !sec.CheckPasswordHash(input.Password, acct.PasswordHash) {
		service.recorder.RecordLogin(false)
		return nil, apperr.Unauthorized("The provided credentials are incorrect.")
	}

	// Suspended accounts authenticate but are refused service
	if !acct.Active {
		service.recorder.RecordLogin(false)
		return nil, apperr.Forbidden("Your account has been suspended.")
	}

	session, err := service.mintSession(context, acct, input.DeviceName)
	if err != nil {
		return nil, err
	}

	service.recorder.RecordLogin(true)
	return session, nil
}

/*
Logout revokes only the token used for the current request.

Description: Other sessions the account may hold stay untouched. Logging out
with an already-revoked token is a successful no-op (idempotent operation).

Parameters:
  - context: context.Context
  - plainToken: string

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, plainToken string) error {
	if err := service.tokenRepository.RevokeByHash(context, sec.HashToken(plainToken)); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.recorder.RecordTokensRevoked(1)
	return nil
}

/*
ResolveToken resolves a bearer token into a fresh account snapshot.

Description: This is the guard chain's entry point. The account is loaded
from the primary store on every call so suspensions and role changes take
effect on the very next request. Presenting any token of a suspended account
triggers full revocation - the credentials are invalidated the instant they
are used.

Parameters:
  - context: context.Context
  - plainToken: string

Returns:
  - *account.Account: Live snapshot bound into the request context
  - error: Unauthenticated (dead token) or Forbidden (suspended)
*/
func (service *Service) ResolveToken(context context.Context, plainToken string) (*account.Account, error) {

	// Resolve the digest to an owning account
	accountID, err := service.tokenRepository.FindAccountIDByHash(context, sec.HashToken(plainToken))
	if err != nil {
		return nil, apperr.Unauthenticated("Unauthenticated.")
	}

	// Always a fresh load - never trust a cached copy
	acct, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return nil, apperr.Unauthenticated("Unauthenticated.")
	}

	// A suspended account's entire credential set dies on first use
	if !acct.Active {
		revoked, revokeErr := service.tokenRepository.RevokeAll(context, accountID)
		if revokeErr != nil {
			ctxutil.GetLogger(context).ErrorContext(context, "auth_suspension_revoke_failed",
				"account_id", accountID, "error", revokeErr)
		}
		service.recorder.RecordTokensRevoked(revoked)
		return nil, apperr.Forbidden("Your account has been suspended.")
	}

	return acct, nil
}

// mintSession revokes all existing tokens and issues the replacement in one
// transaction, enforcing the single-active-session policy.
func (service *Service) mintSession(context context.Context, acct *account.Account, deviceName string) (*Session, error) {
	plainToken, err := sec.GenerateSecureToken(AccessTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	if deviceName == "" {
		deviceName = "unknown"
	}

	token := &Token{
		ID:         uuid.New(),
		AccountID:  acct.ID,
		TokenHash:  sec.HashToken(plainToken),
		DeviceName: deviceName,
		ExpiresAt:  time.Now().Add(AccessTokenTTL),
	}

	revoked, err := service.tokenRepository.ReplaceAll(context, acct.ID, token)
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}
	if revoked > 0 {
		service.recorder.RecordTokensRevoked(revoked)
	}

	return &Session{
		Token:     plainToken,
		ExpiresAt: token.ExpiresAt,
		Account:   acct,
	}, nil
}

// # Email Verification

/*
VerifyEmail confirms an account's email address using a signed link payload.

Description: The checks run in a fixed order: the account must exist (404),
must not already be verified (400), and only then is the payload's signature,
expiry and email-bound proof checked (400). Marking verified is a one-way,
idempotent-guarded transition.

Parameters:
  - context: context.Context
  - payload: string

Returns:
  - *account.Account: The verified account
  - error: NotFound, BadRequest or storage failures
*/
func (service *Service) VerifyEmail(context context.Context, payload string) (*account.Account, error) {

	// Extract the subject without trusting the payload yet
	accountID, err := service.linkCodec.Subject(payload)
	if err != nil {
		return nil, apperr.BadRequest("Invalid verification link.")
	}

	// 1. The account must exist
	acct, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return nil, apperr.NotFound("User not found.")
	}

	// 2. Verification is one-way; a second use is rejected here regardless
	// of whether the payload itself is still valid
	if acct.IsVerified() {
		return nil, apperr.BadRequest("Email already verified.")
	}

	// 3. Now check integrity against the account's CURRENT email
	if err := service.linkCodec.Validate(payload, acct.Email); err != nil {
		return nil, apperr.BadRequest("Invalid verification link.")
	}

	// 4. Mark verified and announce
	verifiedAt := time.Now()
	if err := service.accountRepository.MarkVerified(context, acct.ID, verifiedAt); err != nil {
		return nil, fmt.Errorf("auth_service_verify_email_failed: %w", err)
	}
	acct.EmailVerifiedAt = &verifiedAt
	service.recorder.RecordVerification()

	if err := service.sender.AccountVerified(context, notify.VerifiedEvent{
		AccountID:  acct.ID,
		Email:      acct.Email,
		VerifiedAt: verifiedAt,
	}); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "auth_verified_event_failed",
			"account_id", acct.ID, "error", err)
	}

	return acct, nil
}

/*
ResendVerification dispatches a fresh verification link to the account.

Description: Fire-and-forget - delivery failures are logged, not surfaced,
so the endpoint leaks nothing about mailer health.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - error: BadRequest when already verified, or lookup failures
*/
func (service *Service) ResendVerification(context context.Context, accountID string) error {
	acct, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return err
	}

	if acct.IsVerified() {
		return apperr.BadRequest("Email already verified.")
	}

	service.dispatchVerification(context, acct)
	return nil
}

// dispatchVerification produces a signed link and hands it to the sender.
// Failures are logged and swallowed; verification mail is never load-bearing
// for the operation that triggered it.
func (service *Service) dispatchVerification(context context.Context, acct *account.Account) {
	payload, err := service.linkCodec.Produce(acct.ID, acct.Email)
	if err != nil {
		ctxutil.GetLogger(context).ErrorContext(context, "auth_verification_link_failed",
			"account_id", acct.ID, "error", err)
		return
	}

	event := notify.EmailEvent{
		AccountID:  acct.ID,
		Email:      acct.Email,
		FirstName:  acct.FirstName,
		Link:       service.linkCodec.Link(service.baseURL, payload),
		OccurredAt: time.Now(),
	}
	if err := service.sender.VerificationRequested(context, event); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "auth_verification_send_failed",
			"account_id", acct.ID, "error", err)
	}
}

// # Password Recovery

/*
ForgotPassword initiates the forgot-password flow.

Description: Generates a single-use token, stores it with a short TTL, and
asks the notification layer to deliver it. Any failure along the way -
including an unregistered email - surfaces as the same generic BadRequest.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: BadRequest or storage failures
*/
func (service *Service) ForgotPassword(context context.Context, email string) error {
	acct, err := service.accountRepository.FindByEmail(context, email)
	if err != nil {
		return apperr.BadRequest("Unable to send password reset link.")
	}

	plainToken, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	if err := service.resetTokenRepository.Set(context, plainToken, acct.ID, ResetTokenTTL); err != nil {
		return fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	// Unlike verification mail, the reset token is useless if it never
	// reaches the user, so a delivery failure is surfaced.
	event := notify.EmailEvent{
		AccountID:  acct.ID,
		Email:      acct.Email,
		FirstName:  acct.FirstName,
		Token:      plainToken,
		OccurredAt: time.Now(),
	}
	if err := service.sender.PasswordResetRequested(context, event); err != nil {
		ctxutil.GetLogger(context).ErrorContext(context, "auth_reset_send_failed",
			"account_id", acct.ID, "error", err)
		return apperr.BadRequest("Unable to send password reset link.")
	}

	return nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token and its pairing with the submitted email,
overwrites the password hash, and consumes the token. Session tokens are
deliberately left alone - the old password simply stops working.

Parameters:
  - context: context.Context
  - token: string
  - email: string
  - newPassword: string

Returns:
  - error: BadRequest (invalid/expired token) or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, email, newPassword string) error {

	// Retrieve the accountID associated with the reset token
	accountID, err := service.resetTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	// The token must have been issued for the submitted email
	acct, err := service.accountRepository.FindByID(context, accountID)
	if err != nil || acct.Email != email {
		return apperr.BadRequest("Invalid or expired password reset token.")
	}

	// Hash the new password securely
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	// Update the password in persistent storage
	if err := service.accountRepository.UpdatePassword(context, accountID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}
	service.recorder.RecordPasswordReset()

	// Consume the token - strictly single use
	_ = service.resetTokenRepository.Delete(context, token)

	return nil
}
