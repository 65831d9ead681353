// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package validate_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatvu/averio/internal/platform/apperr"
	"github.com/nhatvu/averio/internal/platform/validate"
)

/*
TestValidator_Chaining verifies that rules accumulate failures across a chain
and that Err reports them all as a single 422.
*/
func TestValidator_Chaining(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("email", "").
		MinLen("password", "short", 8).
		MaxLen("first_name", "this name is far far far far far too long", 10).
		Err()
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnprocessableEntity, ae.HTTPStatus)
	assert.Len(t, ae.Details, 3)
	assert.Equal(t, "email", ae.Details[0].Field)
	assert.Equal(t, "This field is required.", ae.Details[0].Message)
}

/*
TestValidator_PassingChain verifies that a fully valid chain yields nil.
*/
func TestValidator_PassingChain(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("email", "user@averio.test").
		Email("email", "user@averio.test").
		MinLen("password", "long-enough-password", 8).
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Rules walks each rule through representative passing and
failing values.
*/
func TestValidator_Rules(t *testing.T) {
	tests := []struct {
		name    string
		chain   func(v *validate.Validator) *validate.Validator
		wantErr bool
	}{
		{
			name:    "required_whitespace_only",
			chain:   func(v *validate.Validator) *validate.Validator { return v.Required("f", "   ") },
			wantErr: true,
		},
		{
			name:    "minlen_counts_runes",
			chain:   func(v *validate.Validator) *validate.Validator { return v.MinLen("f", "パスワード八文字", 8) },
			wantErr: false,
		},
		{
			name:    "email_missing_domain",
			chain:   func(v *validate.Validator) *validate.Validator { return v.Email("f", "not-an-email") },
			wantErr: true,
		},
		{
			name:    "phone_valid_e164",
			chain:   func(v *validate.Validator) *validate.Validator { return v.Phone("f", "+84901234567") },
			wantErr: false,
		},
		{
			name:    "phone_empty_is_skipped",
			chain:   func(v *validate.Validator) *validate.Validator { return v.Phone("f", "") },
			wantErr: false,
		},
		{
			name:    "phone_letters_rejected",
			chain:   func(v *validate.Validator) *validate.Validator { return v.Phone("f", "call-me-maybe") },
			wantErr: true,
		},
		{
			name:    "date_valid",
			chain:   func(v *validate.Validator) *validate.Validator { return v.Date("f", "1995-04-12") },
			wantErr: false,
		},
		{
			name:    "date_wrong_layout",
			chain:   func(v *validate.Validator) *validate.Validator { return v.Date("f", "12/04/1995") },
			wantErr: true,
		},
		{
			name:    "uuid_uppercase_accepted",
			chain:   func(v *validate.Validator) *validate.Validator { return v.UUID("f", "0198F001-0000-7000-8000-000000000001") },
			wantErr: false,
		},
		{
			name:    "uuid_truncated",
			chain:   func(v *validate.Validator) *validate.Validator { return v.UUID("f", "0198f001-0000-7000") },
			wantErr: true,
		},
		{
			name:    "oneof_member",
			chain:   func(v *validate.Validator) *validate.Validator { return v.OneOf("f", "admin", "admin", "user") },
			wantErr: false,
		},
		{
			name:    "oneof_outside_set",
			chain:   func(v *validate.Validator) *validate.Validator { return v.OneOf("f", "owner", "admin", "user") },
			wantErr: true,
		},
		{
			name:    "custom_failed_condition",
			chain:   func(v *validate.Validator) *validate.Validator { return v.Custom("f", true, "File is too large.") },
			wantErr: true,
		},
		{
			name:    "custom_passed_condition",
			chain:   func(v *validate.Validator) *validate.Validator { return v.Custom("f", false, "File is too large.") },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.chain(&validate.Validator{}).Err()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestFieldErr verifies the single-field shortcut constructor.
*/
func TestFieldErr(t *testing.T) {
	ae := validate.FieldErr("email", "The email has already been taken.")

	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnprocessableEntity, ae.HTTPStatus)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "email", ae.Details[0].Field)
	assert.Equal(t, "The email has already been taken.", ae.Details[0].Message)
}
