// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatvu/averio/internal/platform/apperr"
)

/*
TestConstructors verifies the status code and message each constructor pins.
*/
func TestConstructors(t *testing.T) {
	tests := []struct {
		name        string
		err         *apperr.AppError
		wantStatus  int
		wantMessage string
	}{
		{"unauthenticated", apperr.Unauthenticated("Unauthenticated."), http.StatusUnauthorized, "Unauthenticated."},
		{"unauthorized", apperr.Unauthorized("The provided credentials are incorrect."), http.StatusUnauthorized, "The provided credentials are incorrect."},
		{"forbidden", apperr.Forbidden("Your account has been suspended."), http.StatusForbidden, "Your account has been suspended."},
		{"not_found", apperr.NotFound("User not found."), http.StatusNotFound, "User not found."},
		{"bad_request", apperr.BadRequest("Email already verified."), http.StatusBadRequest, "Email already verified."},
		{"rate_limited", apperr.RateLimited(), http.StatusTooManyRequests, "Too many requests. Please try again later."},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, "Server error."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.Equal(t, tt.wantMessage, tt.err.Message)
			assert.Equal(t, tt.wantMessage, tt.err.Error())
		})
	}
}

/*
TestValidation verifies the 422 shape and its per-field details.
*/
func TestValidation(t *testing.T) {
	err := apperr.Validation(
		apperr.FieldError{Field: "email", Message: "The email has already been taken."},
		apperr.FieldError{Field: "password", Message: "Minimum 8 characters."},
	)

	assert.Equal(t, http.StatusUnprocessableEntity, err.HTTPStatus)
	assert.Equal(t, "The given data was invalid.", err.Message)
	require.Len(t, err.Details, 2)
	assert.Equal(t, "email", err.Details[0].Field)
}

/*
TestChainTraversal verifies that As and IsAppError see through fmt.Errorf
wrapping, and that Internal exposes its cause via Unwrap.
*/
func TestChainTraversal(t *testing.T) {
	base := apperr.NotFound("User not found.")
	wrapped := fmt.Errorf("auth_service_verify_failed: %w", base)

	// 1. Wrapped AppError is still recoverable
	require.True(t, apperr.IsAppError(wrapped))
	found := apperr.As(wrapped)
	require.NotNil(t, found)
	assert.Equal(t, http.StatusNotFound, found.HTTPStatus)

	// 2. Plain errors yield nil, not a zero value
	assert.False(t, apperr.IsAppError(errors.New("plain")))
	assert.Nil(t, apperr.As(errors.New("plain")))

	// 3. Internal preserves the cause chain
	cause := errors.New("connection refused")
	assert.ErrorIs(t, apperr.Internal(cause), cause)
}
