// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package admin provides the HTTP delivery layer for account administration.

# Security

Every route requires an authenticated session holding an ADMIN or OWNER
role; both guards are mounted by the server when this router is attached.
Role reassignment additionally verifies OWNER inside the service.
*/
package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nhatvu/averio/internal/identity/account"
	"github.com/nhatvu/averio/internal/identity/role"
	requestutil "github.com/nhatvu/averio/internal/platform/request"
	"github.com/nhatvu/averio/internal/platform/respond"
	"github.com/nhatvu/averio/internal/platform/validate"
	"github.com/nhatvu/averio/pkg/pagination"
)

// Handler implements the HTTP layer for account administration.
type Handler struct {
	adminService *Service
}

// NewHandler constructs a new admin [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{adminService: service}
}

// Routes returns a [chi.Router] configured with the admin endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/accounts", handler.listAccounts)
	router.Get("/accounts/{id}", handler.getAccount)
	router.Post("/accounts/{id}/suspend", handler.suspendAccount)
	router.Post("/accounts/{id}/reactivate", handler.reactivateAccount)
	router.Put("/accounts/{id}/role", handler.changeRole)

	return router
}

/*
GET /api/v1/admin/accounts.

Description: Lists accounts newest-first with standard paging parameters.

Response:
  - 200: Paginated accounts
  - 403: ErrForbidden: Caller lacks an administrative role
*/
func (handler *Handler) listAccounts(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	accounts, meta, err := handler.adminService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, "Accounts retrieved.", accounts, meta)
}

// accountDetail pairs an account with its persisted permission bundle.
type accountDetail struct {
	*account.Account
	Permissions []string `json:"permissions"`
}

/*
GET /api/v1/admin/accounts/{id}.

Description: Retrieves a single account with its permission bundle.

Response:
  - 200: accountDetail
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) getAccount(writer http.ResponseWriter, request *http.Request) {
	accountID := requestutil.Param(request, "id")

	validator := &validate.Validator{}
	validator.Required("id", accountID).UUID("id", accountID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	acct, permissions, err := handler.adminService.Get(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Account retrieved.", accountDetail{
		Account:     acct,
		Permissions: permissions,
	})
}

/*
POST /api/v1/admin/accounts/{id}/suspend.

Description: Deactivates the account and revokes all of its tokens.

Response:
  - 200: Success: Account suspended
  - 403: ErrForbidden: Self-suspension or OWNER target
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) suspendAccount(writer http.ResponseWriter, request *http.Request) {
	operatorID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	accountID := requestutil.Param(request, "id")
	if err := handler.adminService.Suspend(request.Context(), operatorID, accountID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Account suspended.", nil)
}

/*
POST /api/v1/admin/accounts/{id}/reactivate.

Description: Restores a suspended account. No sessions are restored.

Response:
  - 200: Success: Account reactivated
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) reactivateAccount(writer http.ResponseWriter, request *http.Request) {
	operatorID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	accountID := requestutil.Param(request, "id")
	if err := handler.adminService.Reactivate(request.Context(), operatorID, accountID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Account reactivated.", nil)
}

// changeRoleRequest defines the payload for role reassignment.
type changeRoleRequest struct {
	Role string `json:"role"`
}

/*
PUT /api/v1/admin/accounts/{id}/role.

Description: Reassigns the account's role (OWNER operators only).

Request:
  - Body: changeRoleRequest (Role: "admin" or "user")

Response:
  - 200: Success: Role updated
  - 400: ErrBadRequest: Unknown or unassignable role
  - 403: ErrForbidden: Caller is not OWNER, or target is protected
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) changeRole(writer http.ResponseWriter, request *http.Request) {
	operator, err := requestutil.RequiredAccount(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changeRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("role", input.Role).
		OneOf("role", input.Role, string(role.Admin), string(role.User))
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	accountID := requestutil.Param(request, "id")
	if err := handler.adminService.ChangeRole(request.Context(), operator, accountID, role.Role(input.Role)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Role updated.", nil)
}
