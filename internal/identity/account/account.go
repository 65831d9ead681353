// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package account defines the identity record at the heart of the platform.

It holds the [Account] entity, the persistence contract for the credential
store, and its PostgreSQL implementation.

# Architecture

This layer is the "Truth" of the system. The entity defined here has no
transport dependencies and encapsulates the invariants of an identity record:
exactly one role per account, password stored only as a one-way hash, and a
verified timestamp that can only transition from null to non-null.
*/
package account

import (
	"time"

	"github.com/nhatvu/averio/internal/identity/role"
)

// # Domain Entities

// Account represents a registered identity on the Averio platform.
type Account struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"` // Explicitly omitted from JSON for security.
	Active          bool       `json:"active"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"` // nil means unverified.
	Role            role.Role  `json:"role"`
	FirstName       string     `json:"first_name,omitempty"`
	LastName        string     `json:"last_name,omitempty"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Address         string     `json:"address,omitempty"`
	City            string     `json:"city,omitempty"`
	State           string     `json:"state,omitempty"`
	AvatarPath      string     `json:"avatar_path,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsVerified reports whether the account's email has been verified.
func (account *Account) IsVerified() bool {
	return account.EmailVerifiedAt != nil
}

// # Field Identifiers

// Global field names for validation and identity mapping in the account domain.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldToken       = "token"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldDateOfBirth = "date_of_birth"
	FieldPhone       = "phone"
	FieldAddress     = "address"
	FieldCity        = "city"
	FieldState       = "state"
	FieldAvatar      = "avatar"
	FieldRole        = "role"
)
