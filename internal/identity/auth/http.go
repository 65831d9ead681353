// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package auth provides the HTTP delivery layer for identity management.

It implements the gateway for the authentication lifecycle - from account
creation to session management, email verification and password recovery.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Bearer token extraction is handled by the guard chain upstream.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes,
headers, JSON).
*/
package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nhatvu/averio/internal/identity/account"
	"github.com/nhatvu/averio/internal/platform/apperr"
	"github.com/nhatvu/averio/internal/platform/constants"
	"github.com/nhatvu/averio/internal/platform/middleware"
	requestutil "github.com/nhatvu/averio/internal/platform/request"
	"github.com/nhatvu/averio/internal/platform/respond"
	"github.com/nhatvu/averio/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the account lifecycle entry
// points (Registration, Login, Verification, Password Recovery).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register        : Creates a new account and a first session.
//   - POST /login           : Authenticates and returns a bearer token.
//   - GET  /verify-email    : Confirms an email via a signed link.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Get("/verify-email", handler.verifyEmail)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth())
		r.Post("/logout", handler.logout)
		r.Post("/resend-verification", handler.resendVerification)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	DeviceName string `json:"device_name"`
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	DeviceName string `json:"device_name"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionPayload is the wire shape of an established session.
type sessionPayload struct {
	Token     string           `json:"token"`
	TokenType string           `json:"token_type"`
	ExpiresAt string           `json:"expires_at"`
	User      *account.Account `json:"user"`
}

func newSessionPayload(session *Session) sessionPayload {
	return sessionPayload{
		Token:     session.Token,
		TokenType: constants.BearerScheme,
		ExpiresAt: session.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		User:      session.Account,
	}
}

/*
Register handles the creation of a new account.

POST /api/v1/auth/register

Description: Validates input, checks for email conflicts, persists a new
unverified account, and establishes its first session.

Request:
  - Body: registerRequest (Email, Password, FirstName, LastName, DeviceName)

Response:
  - 201: sessionPayload: Bearer token and created account
  - 400: ErrInvalidJSON: Malformed body
  - 422: Validation: Field failures, including a taken email
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(account.FieldEmail, input.Email).
		Email(account.FieldEmail, input.Email).
		Required(account.FieldPassword, input.Password).
		MinLen(account.FieldPassword, input.Password, 8).
		Required(account.FieldFirstName, input.FirstName).
		MaxLen(account.FieldFirstName, input.FirstName, 100).
		Required(account.FieldLastName, input.LastName).
		MaxLen(account.FieldLastName, input.LastName, 100)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:      input.Email,
		Password:   input.Password,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		DeviceName: input.DeviceName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "Registration successful.", newSessionPayload(session))
}

/*
Login authenticates an account and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials and returns a fresh bearer token. All
previously issued tokens for the account are revoked.

Request:
  - Body: loginRequest (Email, Password, DeviceName)

Response:
  - 200: sessionPayload: Bearer token and account
  - 401: ErrUnauthorized: Incorrect credentials (identical for unknown email)
  - 403: ErrForbidden: Account suspended
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(account.FieldEmail, input.Email).
		Required(account.FieldPassword, input.Password).
		MaxLen("device_name", input.DeviceName, DeviceNameMaxLen)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:      input.Email,
		Password:   input.Password,
		DeviceName: input.DeviceName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Login successful.", newSessionPayload(session))
}

/*
Logout terminates the current session.

POST /api/v1/auth/logout

Description: Revokes exactly the token that authenticated this request.
Other sessions the account holds stay alive.

Response:
  - 200: Success: Session terminated
  - 401: ErrUnauthenticated: No valid token presented
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	plainToken := bearerToken(request)
	if plainToken == "" {
		respond.Error(writer, request, apperr.Unauthenticated("Unauthenticated."))
		return
	}

	if err := handler.authService.Logout(request.Context(), plainToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Logged out.", nil)
}

/*
VerifyEmail confirms an account's email ownership.

GET /api/v1/auth/verify-email?token=...

Description: Validates the signed link payload and marks the account as
verified exactly once.

Response:
  - 200: Success: Email verified
  - 400: ErrBadRequest: Invalid link or already verified
  - 404: ErrNotFound: Account no longer exists
*/
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	payload := request.URL.Query().Get("token")
	if payload == "" {
		respond.Error(writer, request, apperr.BadRequest("Invalid verification link."))
		return
	}

	acct, err := handler.authService.VerifyEmail(request.Context(), payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Email verified successfully.", acct)
}

/*
ResendVerification dispatches a fresh verification link.

POST /api/v1/auth/resend-verification

Description: Sends a new signed link to the authenticated account's email.

Response:
  - 200: Success: Link dispatched
  - 400: ErrBadRequest: Email already verified
  - 401: ErrUnauthenticated: No valid token presented
*/
func (handler *Handler) resendVerification(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResendVerification(request.Context(), accountID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Verification link sent.", nil)
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/v1/auth/forgot-password

Description: Issues a single-use reset token and asks the notification layer
to deliver it.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Success: Reset link sent
  - 400: ErrBadRequest: Unable to send
  - 422: Validation: Malformed email
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(account.FieldEmail, input.Email).Email(account.FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ForgotPassword(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Password reset link sent.", nil)
}

/*
ResetPassword completes the password recovery flow.

POST /api/v1/auth/reset-password

Description: Validates the reset token + email pair and overwrites the
account's password.

Request:
  - Body: resetPasswordRequest (Token, Email, Password)

Response:
  - 200: Success: Password updated
  - 400: ErrBadRequest: Invalid or expired token
  - 422: Validation: Weak password or missing fields
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(account.FieldToken, input.Token).
		Required(account.FieldEmail, input.Email).
		Email(account.FieldEmail, input.Email).
		Required(account.FieldPassword, input.Password).
		MinLen(account.FieldPassword, input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.Email, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Password has been reset.", nil)
}

// bearerToken extracts the opaque token from the Authorization header.
func bearerToken(request *http.Request) string {
	header := request.Header.Get(constants.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}
