// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nhatvu/averio/internal/identity/account"
	"github.com/nhatvu/averio/internal/platform/apperr"
	"github.com/nhatvu/averio/internal/platform/ctxutil"
	"github.com/nhatvu/averio/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Account extracts the authenticated account from the request context.

Returns nil if the request is not authenticated.
*/
func Account(request *http.Request) *account.Account {
	return ctxutil.GetAccount(request.Context())
}

/*
RequiredAccount ensures the request is authenticated and returns the account.

Returns:
  - *account.Account: The account resolved by the authentication guard
  - error: apperr.Unauthenticated if the request is not authenticated
*/
func RequiredAccount(request *http.Request) (*account.Account, error) {

	// Get the resolved account
	resolved := ctxutil.GetAccount(request.Context())

	// If the request is not authenticated, return an error
	if resolved == nil {
		return nil, apperr.Unauthenticated("Unauthenticated.")
	}

	return resolved, nil
}

/*
RequiredAccountID returns the ID of the currently logged-in account.

Returns:
  - string: Account UUID
  - error: apperr.Unauthenticated if not authenticated
*/
func RequiredAccountID(request *http.Request) (string, error) {

	// Get the resolved account
	resolved, err := RequiredAccount(request)

	// If the request is not authenticated, return an error
	if err != nil {
		return "", err
	}

	return resolved.ID, nil
}
