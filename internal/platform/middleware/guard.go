// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nhatvu/averio/internal/identity/account"
	"github.com/nhatvu/averio/internal/identity/role"
	"github.com/nhatvu/averio/internal/platform/apperr"
	"github.com/nhatvu/averio/internal/platform/constants"
	"github.com/nhatvu/averio/internal/platform/ctxutil"
	"github.com/nhatvu/averio/internal/platform/respond"
)

// # Access Guard Chain
//
// Authentication and authorization run as an ordered chain of wrappers.
// Authenticate resolves the bearer credential into a fresh account snapshot;
// the narrower guards (RequireAuth, RequireVerified, RequireRole) only read
// what Authenticate placed on the context. Ordering matters: a missing login
// is reported before a missing verification, which is reported before an
// insufficient role.

/*
AccountResolver turns an opaque bearer token into the live account it belongs
to.

Description:

	Implementations load the account fresh from the primary store on every
	call. Role changes, suspensions and verification performed after the token
	was minted are therefore visible on the very next request. A resolver must
	return an apperr-typed error for every rejection so the guard can surface
	the correct status and client message.
*/
type AccountResolver interface {
	ResolveToken(ctx context.Context, plainToken string) (*account.Account, error)
}

/*
Authenticate inspects the Authorization header and, when a bearer token is
present, resolves it into an account attached to the request context.

Parameters:

  - resolver: The token-to-account resolution service.

Description:

	A request without an Authorization header passes through anonymously; it
	is RequireAuth's job to reject it on protected routes. A header that is
	present but malformed, or a token the resolver rejects, terminates the
	request immediately - a client that attempted to authenticate and failed
	is never treated as anonymous.
*/
func Authenticate(resolver AccountResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Anonymous requests pass through untouched
			header := request.Header.Get(constants.HeaderAuthorization)
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. The header must carry the Bearer scheme
			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, constants.BearerScheme) || token == "" {
				respond.Error(writer, request, apperr.Unauthenticated("Unauthenticated."))
				return
			}

			// 3. Resolve the token into a live account snapshot
			resolved, err := resolver.ResolveToken(request.Context(), strings.TrimSpace(token))
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// 4. Attach the account for downstream guards and handlers
			ctx := ctxutil.WithAccount(request.Context(), resolved)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that carry no resolved account.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if ctxutil.GetAccount(request.Context()) == nil {
				respond.Error(writer, request, apperr.Unauthenticated("Unauthenticated."))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// RequireVerified rejects authenticated accounts that have not confirmed
// their email address. Must run after RequireAuth.
func RequireVerified() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			acct := ctxutil.GetAccount(request.Context())
			if acct == nil {
				respond.Error(writer, request, apperr.Unauthenticated("Unauthenticated."))
				return
			}
			if !acct.IsVerified() {
				respond.Error(writer, request, apperr.Forbidden("Your email address is not verified."))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

/*
RequireRole restricts a route to accounts holding one of the allowed roles.

Parameters:

  - allowed: The set of roles permitted past this guard.

Description:

	An empty allow set denies everyone. The check is an exact membership test
	against the account's current role - there is no implicit hierarchy, so a
	route open to admins must list the owner role explicitly if owners may use
	it too. Must run after RequireAuth.
*/
func RequireRole(allowed ...role.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			acct := ctxutil.GetAccount(request.Context())
			if acct == nil {
				respond.Error(writer, request, apperr.Unauthenticated("Unauthenticated."))
				return
			}
			if !acct.Role.In(allowed...) {
				respond.Error(writer, request, apperr.Forbidden("You do not have permission to perform this action."))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
