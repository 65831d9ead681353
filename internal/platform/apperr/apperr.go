// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package apperr defines the centralized error handling framework for Averio.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct carrying an HTTP status and a client-safe message.
  - Taxonomy: Unauthenticated/Unauthorized (401), Forbidden (403), NotFound (404),
    BadRequest (400), Validation (422), Internal (500).
  - Mapping: [respond.Error] renders any AppError into the uniform API envelope.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError is the canonical error type for the Averio API.
//
// It carries an HTTP status code, a client-safe message, and an optional
// slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging and the opaque 500 diagnostic
// only. Full causes (e.g. SQL errors) are never sent to clients.
type AppError struct {
	// HTTPStatus is the HTTP response status code, mirrored into the envelope.
	HTTPStatus int `json:"-"`
	// Message is a fixed, human-readable description safe to return to the client.
	Message string `json:"message"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for 422 responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// Unauthenticated creates a 401 [AppError] for requests without a usable bearer token.
func Unauthenticated(msg string) *AppError {
	return &AppError{
		HTTPStatus: http.StatusUnauthorized,
		Message:    msg,
	}
}

// Unauthorized creates a 401 [AppError] for credential mismatches during login.
//
// It shares the 401 status with [Unauthenticated]; the distinction is purely
// which message the flow attaches.
func Unauthorized(msg string) *AppError {
	return &AppError{
		HTTPStatus: http.StatusUnauthorized,
		Message:    msg,
	}
}

// Forbidden creates a 403 [AppError] for role, active-status, and verification denials.
func Forbidden(msg string) *AppError {
	return &AppError{
		HTTPStatus: http.StatusForbidden,
		Message:    msg,
	}
}

// NotFound creates a 404 [AppError] with the exact client-facing message.
func NotFound(msg string) *AppError {
	return &AppError{
		HTTPStatus: http.StatusNotFound,
		Message:    msg,
	}
}

// BadRequest creates a 400 [AppError] for operations that are invalid in the
// current state (already verified, invalid link, invalid reset token).
func BadRequest(msg string) *AppError {
	return &AppError{
		HTTPStatus: http.StatusBadRequest,
		Message:    msg,
	}
}

// Validation creates a 422 [AppError] with per-field details.
func Validation(details ...FieldError) *AppError {
	return &AppError{
		HTTPStatus: http.StatusUnprocessableEntity,
		Message:    "The given data was invalid.",
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited() *AppError {
	return &AppError{
		HTTPStatus: http.StatusTooManyRequests,
		Message:    "Too many requests. Please try again later.",
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging and the opaque diagnostic only.
func Internal(cause error) *AppError {
	return &AppError{
		HTTPStatus: http.StatusInternalServerError,
		Message:    "Server error.",
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
