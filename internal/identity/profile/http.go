// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package profile provides the HTTP delivery layer for self-service account
management.

# Security

All endpoints require an authenticated, email-verified session. Both guards
are mounted by the server when this router is attached.
*/
package profile

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nhatvu/averio/internal/identity/account"
	"github.com/nhatvu/averio/internal/platform/apperr"
	requestutil "github.com/nhatvu/averio/internal/platform/request"
	"github.com/nhatvu/averio/internal/platform/respond"
	"github.com/nhatvu/averio/internal/platform/validate"
)

// Upload constraints for avatar images.
const (
	// maxAvatarBytes caps the accepted image size (5 MiB).
	maxAvatarBytes = 5 << 20
	// avatarFormField is the multipart field carrying the image.
	avatarFormField = "avatar"
)

// allowedAvatarTypes is the accepted set of image content types.
var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Handler implements the HTTP layer for the authenticated user's account.
type Handler struct {
	profileService *Service
}

// NewHandler constructs a new profile [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{profileService: service}
}

// Routes returns a [chi.Router] configured with the profile endpoints.
//
// The router is mounted once per role subtree (/user/profile and
// /admin/profile), so all paths here are relative to the mount point.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.getProfile)
	router.Put("/", handler.updateProfile)
	router.Post("/avatar", handler.updateAvatar)

	return router
}

// profilePayload augments the account with its resolved avatar URL.
type profilePayload struct {
	*account.Account
	AvatarURL string `json:"avatar_url,omitempty"`
}

/*
GET /api/v1/user/profile.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: profilePayload: Hydrated profile with avatar URL
  - 401: ErrUnauthenticated: Authentication required
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	acct, err := handler.profileService.Get(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Profile retrieved.", profilePayload{
		Account:   acct,
		AvatarURL: handler.profileService.AvatarURL(acct),
	})
}

// updateProfileRequest defines the expected JSON payload for profile updates.
// Omitted fields are left untouched.
type updateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	DateOfBirth *string `json:"date_of_birth"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
}

/*
PUT /api/v1/user/profile.

Description: Applies partial updates to the authenticated user's profile.

Request:
  - Body: updateProfileRequest (all fields optional)

Response:
  - 200: profilePayload: Updated profile
  - 401: ErrUnauthenticated: Authentication required
  - 422: Validation: Field failures
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.FirstName != nil {
		validator.Required(account.FieldFirstName, *input.FirstName).
			MaxLen(account.FieldFirstName, *input.FirstName, 100)
	}
	if input.LastName != nil {
		validator.Required(account.FieldLastName, *input.LastName).
			MaxLen(account.FieldLastName, *input.LastName, 100)
	}
	if input.DateOfBirth != nil {
		validator.Date(account.FieldDateOfBirth, *input.DateOfBirth)
	}
	if input.Phone != nil {
		validator.Phone(account.FieldPhone, *input.Phone)
	}
	if input.Address != nil {
		validator.MaxLen(account.FieldAddress, *input.Address, 255)
	}
	if input.City != nil {
		validator.MaxLen(account.FieldCity, *input.City, 100)
	}
	if input.State != nil {
		validator.MaxLen(account.FieldState, *input.State, 100)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updateInput := UpdateInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Address:   input.Address,
		City:      input.City,
		State:     input.State,
	}
	if input.DateOfBirth != nil {
		parsed, parseErr := time.Parse(validate.DateLayout, *input.DateOfBirth)
		if parseErr == nil {
			updateInput.DateOfBirth = &parsed
		}
	}

	acct, err := handler.profileService.Update(request.Context(), accountID, updateInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Profile updated.", profilePayload{
		Account:   acct,
		AvatarURL: handler.profileService.AvatarURL(acct),
	})
}

/*
POST /api/v1/user/profile/avatar.

Description: Accepts a multipart image upload and swaps the user's avatar.

Request:
  - Multipart field "avatar": JPEG, PNG or WebP, max 5 MiB

Response:
  - 200: profilePayload: Profile with the new avatar URL
  - 401: ErrUnauthenticated: Authentication required
  - 422: Validation: Missing file or unsupported type
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, maxAvatarBytes)
	if err := request.ParseMultipartForm(maxAvatarBytes); err != nil {
		respond.Error(writer, request, apperr.Validation(apperr.FieldError{
			Field:   avatarFormField,
			Message: "The avatar must be an image no larger than 5 MB.",
		}))
		return
	}

	file, header, err := request.FormFile(avatarFormField)
	if err != nil {
		respond.Error(writer, request, apperr.Validation(apperr.FieldError{
			Field:   avatarFormField,
			Message: "The avatar field is required.",
		}))
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	if !allowedAvatarTypes[contentType] {
		respond.Error(writer, request, apperr.Validation(apperr.FieldError{
			Field:   avatarFormField,
			Message: "The avatar must be a JPEG, PNG or WebP image.",
		}))
		return
	}

	acct, err := handler.profileService.UpdateAvatar(request.Context(), accountID, contentType, file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Avatar updated.", profilePayload{
		Account:   acct,
		AvatarURL: handler.profileService.AvatarURL(acct),
	})
}
