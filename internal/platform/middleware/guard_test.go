// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatvu/averio/internal/identity/account"
	"github.com/nhatvu/averio/internal/identity/role"
	"github.com/nhatvu/averio/internal/platform/apperr"
	"github.com/nhatvu/averio/internal/platform/ctxutil"
	"github.com/nhatvu/averio/internal/platform/middleware"
)

// fakeResolver maps plain tokens to canned accounts or errors.
type fakeResolver struct {
	accounts map[string]*account.Account
	errs     map[string]error
}

func (r *fakeResolver) ResolveToken(_ context.Context, plainToken string) (*account.Account, error) {
	if err, ok := r.errs[plainToken]; ok {
		return nil, err
	}
	if acct, ok := r.accounts[plainToken]; ok {
		return acct, nil
	}
	return nil, apperr.Unauthenticated("Unauthenticated.")
}

func testAccount(accountRole role.Role, verified bool) *account.Account {
	acct := &account.Account{
		ID:     "0198f001-0000-7000-8000-0000000000aa",
		Email:  "guard@averio.test",
		Active: true,
		Role:   accountRole,
	}
	if verified {
		now := time.Now()
		acct.EmailVerifiedAt = &now
	}
	return acct
}

// okHandler records whether the chain let the request through.
func okHandler(reached *bool) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		*reached = true
		writer.WriteHeader(http.StatusOK)
	})
}

func decodeMessage(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body.Message
}

/*
TestAuthenticate verifies header handling: anonymous pass-through, malformed
header rejection, resolver errors surfacing as-is, and context attachment on
success.
*/
func TestAuthenticate(t *testing.T) {
	resolver := &fakeResolver{
		accounts: map[string]*account.Account{
			"good-token": testAccount(role.User, true),
		},
		errs: map[string]error{
			"suspended-token": apperr.Forbidden("Your account has been suspended."),
		},
	}

	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantMessage string
		wantThrough bool
	}{
		{
			name:        "no_header_passes_through_anonymously",
			header:      "",
			wantStatus:  http.StatusOK,
			wantThrough: true,
		},
		{
			name:        "wrong_scheme",
			header:      "Basic good-token",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Unauthenticated.",
		},
		{
			name:        "scheme_without_token",
			header:      "Bearer ",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Unauthenticated.",
		},
		{
			name:        "unknown_token",
			header:      "Bearer nope",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Unauthenticated.",
		},
		{
			name:        "resolver_error_passes_through_verbatim",
			header:      "Bearer suspended-token",
			wantStatus:  http.StatusForbidden,
			wantMessage: "Your account has been suspended.",
		},
		{
			name:        "valid_token",
			header:      "Bearer good-token",
			wantStatus:  http.StatusOK,
			wantThrough: true,
		},
		{
			name:        "scheme_is_case_insensitive",
			header:      "bearer good-token",
			wantStatus:  http.StatusOK,
			wantThrough: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			handler := middleware.Authenticate(resolver)(okHandler(&reached))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantThrough, reached)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, decodeMessage(t, recorder))
			}
		})
	}
}

/*
TestAuthenticate_AttachesAccount verifies that the resolved account is visible
to downstream handlers via the request context.
*/
func TestAuthenticate_AttachesAccount(t *testing.T) {
	expected := testAccount(role.Admin, true)
	resolver := &fakeResolver{accounts: map[string]*account.Account{"token": expected}}

	var seen *account.Account
	handler := middleware.Authenticate(resolver)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetAccount(request.Context())
		writer.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer token")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	require.NotNil(t, seen)
	assert.Equal(t, expected.ID, seen.ID)
}

/*
TestRequireAuth verifies that anonymous requests are rejected and
authenticated ones pass.
*/
func TestRequireAuth(t *testing.T) {
	t.Run("anonymous_rejected", func(t *testing.T) {
		reached := false
		handler := middleware.RequireAuth()(okHandler(&reached))
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "Unauthenticated.", decodeMessage(t, recorder))
		assert.False(t, reached)
	})

	t.Run("authenticated_passes", func(t *testing.T) {
		reached := false
		handler := middleware.RequireAuth()(okHandler(&reached))
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request = request.WithContext(ctxutil.WithAccount(request.Context(), testAccount(role.User, false)))

		handler.ServeHTTP(httptest.NewRecorder(), request)

		assert.True(t, reached)
	})
}

/*
TestRequireVerified verifies the email-confirmation gate.
*/
func TestRequireVerified(t *testing.T) {
	tests := []struct {
		name       string
		acct       *account.Account
		wantStatus int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"unverified", testAccount(role.User, false), http.StatusForbidden},
		{"verified", testAccount(role.User, true), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			handler := middleware.RequireVerified()(okHandler(&reached))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.acct != nil {
				request = request.WithContext(ctxutil.WithAccount(request.Context(), tt.acct))
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, reached)
			if tt.wantStatus == http.StatusForbidden {
				assert.Equal(t, "Your email address is not verified.", decodeMessage(t, recorder))
			}
		})
	}
}

/*
TestRequireRole verifies exact membership with no role hierarchy: an owner is
refused from a users-only route, and an empty allow set denies everyone.
*/
func TestRequireRole(t *testing.T) {
	tests := []struct {
		name        string
		acct        *account.Account
		allowed     []role.Role
		wantStatus  int
		wantMessage string
	}{
		{
			name:       "member_passes",
			acct:       testAccount(role.User, true),
			allowed:    []role.Role{role.User},
			wantStatus: http.StatusOK,
		},
		{
			name:       "either_of_two_roles_passes",
			acct:       testAccount(role.Owner, true),
			allowed:    []role.Role{role.Admin, role.Owner},
			wantStatus: http.StatusOK,
		},
		{
			name:        "no_hierarchy_owner_refused_from_user_route",
			acct:        testAccount(role.Owner, true),
			allowed:     []role.Role{role.User},
			wantStatus:  http.StatusForbidden,
			wantMessage: "You do not have permission to perform this action.",
		},
		{
			name:        "empty_allow_set_denies_all",
			acct:        testAccount(role.Owner, true),
			allowed:     nil,
			wantStatus:  http.StatusForbidden,
			wantMessage: "You do not have permission to perform this action.",
		},
		{
			name:        "anonymous_rejected_first",
			acct:        nil,
			allowed:     []role.Role{role.User},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Unauthenticated.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			handler := middleware.RequireRole(tt.allowed...)(okHandler(&reached))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.acct != nil {
				request = request.WithContext(ctxutil.WithAccount(request.Context(), tt.acct))
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, reached)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, decodeMessage(t, recorder))
			}
		})
	}
}
