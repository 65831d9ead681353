// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatvu/averio/internal/identity/auth"
	"github.com/nhatvu/averio/internal/platform/middleware"
)

// newTestRouter mounts the auth routes behind the real guard chain, the way
// the API server wires them.
func newTestRouter(f *fixture) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(f.service))
	router.Mount("/auth", auth.NewHandler(f.service).Routes())
	return router
}

type envelope struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

func doJSON(t *testing.T, router chi.Router, method, target, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var env envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &env))
	return recorder, env
}

/*
TestHandler_Register verifies the endpoint contract: 201 with a session
payload on success, 400 on malformed JSON, 422 on rule failures.
*/
func TestHandler_Register(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)

	t.Run("created", func(t *testing.T) {
		recorder, env := doJSON(t, router, http.MethodPost, "/auth/register", "",
			`{"email":"new@averio.test","password":"long-enough","first_name":"Nhat","last_name":"Vu"}`)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Equal(t, "Registration successful.", env.Message)

		var session struct {
			Token     string `json:"token"`
			TokenType string `json:"token_type"`
			User      struct {
				Email string `json:"email"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &session))
		assert.NotEmpty(t, session.Token)
		assert.Equal(t, "Bearer", session.TokenType)
		assert.Equal(t, "new@averio.test", session.User.Email)
	})

	t.Run("invalid_json", func(t *testing.T) {
		recorder, env := doJSON(t, router, http.MethodPost, "/auth/register", "", `{"email": truncated`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "Invalid JSON payload.", env.Message)
	})

	t.Run("validation_failures", func(t *testing.T) {
		recorder, env := doJSON(t, router, http.MethodPost, "/auth/register", "",
			`{"email":"not-an-email","password":"short","first_name":"","last_name":"Vu"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		assert.Contains(t, env.Errors, "email")
		assert.Contains(t, env.Errors, "password")
		assert.Contains(t, env.Errors, "first_name")
	})

	t.Run("taken_email", func(t *testing.T) {
		recorder, env := doJSON(t, router, http.MethodPost, "/auth/register", "",
			`{"email":"new@averio.test","password":"long-enough","first_name":"Nhat","last_name":"Vu"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		assert.Equal(t, []string{"The email has already been taken."}, env.Errors["email"])
	})
}

/*
TestHandler_LoginLogout verifies the session round trip over HTTP, including
the protected logout route's guard.
*/
func TestHandler_LoginLogout(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)
	f.seedAccount(t, "user@averio.test", "correct-password", true, true)

	// 1. Bad credentials: enumeration-safe 401
	recorder, env := doJSON(t, router, http.MethodPost, "/auth/login", "",
		`{"email":"user@averio.test","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "The provided credentials are incorrect.", env.Message)

	// 2. Successful login yields a bearer token
	recorder, env = doJSON(t, router, http.MethodPost, "/auth/login", "",
		`{"email":"user@averio.test","password":"correct-password","device_name":"iphone-15"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Login successful.", env.Message)

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(t, session.Token)

	// 3. Logout requires authentication
	recorder, _ = doJSON(t, router, http.MethodPost, "/auth/logout", "", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// 4. Authenticated logout succeeds and kills the token
	recorder, env = doJSON(t, router, http.MethodPost, "/auth/logout", session.Token, "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Logged out.", env.Message)

	recorder, _ = doJSON(t, router, http.MethodPost, "/auth/logout", session.Token, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHandler_VerifyEmail verifies the link endpoint: missing token, a working
link, and the second-use rejection.
*/
func TestHandler_VerifyEmail(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)
	acct := f.seedAccount(t, "pending@averio.test", "password", true, false)

	payload, err := f.codec.Produce(acct.ID, acct.Email)
	require.NoError(t, err)
	link := "/auth/verify-email?token=" + payload

	t.Run("missing_token", func(t *testing.T) {
		recorder, env := doJSON(t, router, http.MethodGet, "/auth/verify-email", "", "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "Invalid verification link.", env.Message)
	})

	t.Run("success_then_already_verified", func(t *testing.T) {
		recorder, env := doJSON(t, router, http.MethodGet, link, "", "")
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "Email verified successfully.", env.Message)

		recorder, env = doJSON(t, router, http.MethodGet, link, "", "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "Email already verified.", env.Message)
	})
}

/*
TestHandler_PasswordRecovery verifies the two-endpoint recovery flow over
HTTP.
*/
func TestHandler_PasswordRecovery(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)
	f.seedAccount(t, "user@averio.test", "old-password", true, true)

	// 1. Unknown email is refused
	recorder, env := doJSON(t, router, http.MethodPost, "/auth/forgot-password", "",
		`{"email":"ghost@averio.test"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "Unable to send password reset link.", env.Message)

	// 2. Known email dispatches a token
	recorder, env = doJSON(t, router, http.MethodPost, "/auth/forgot-password", "",
		`{"email":"user@averio.test"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Password reset link sent.", env.Message)
	require.Len(t, f.sender.resetEvents, 1)
	resetToken := f.sender.resetEvents[0].Token

	// 3. Weak replacement password is a 422
	recorder, _ = doJSON(t, router, http.MethodPost, "/auth/reset-password", "",
		`{"token":"`+resetToken+`","email":"user@averio.test","password":"short"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	// 4. Valid reset succeeds
	recorder, env = doJSON(t, router, http.MethodPost, "/auth/reset-password", "",
		`{"token":"`+resetToken+`","email":"user@averio.test","password":"brand-new-password"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Password has been reset.", env.Message)

	// 5. New password logs in
	recorder, _ = doJSON(t, router, http.MethodPost, "/auth/login", "",
		`{"email":"user@averio.test","password":"brand-new-password"}`)
	assert.Equal(t, http.StatusOK, recorder.Code)

	_, err := f.service.ResolveToken(context.Background(), resetToken)
	assert.Error(t, err, "a reset token is never a session token")
}
