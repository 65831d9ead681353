// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package role defines the coarse authorization roles and their permission bundles.

Every account carries exactly one role at all times. A role implies a fixed
bundle of fine-grained permissions that is assigned when the account is
provisioned (registration or role change) and persisted through a simple
many-to-many join — permissions are never computed at request time.

# Guard Semantics

The route guards consult only the coarse role (membership in a per-route
allow-set). The fine-grained permission bundle exists for feature-level checks
inside handlers and for audit surfaces; it is not evaluated by the guard chain.
*/
package role

// # Roles

// Role represents the single authorization category assigned to an account.
type Role string

const (
	// Owner has unrestricted access, including role administration.
	Owner Role = "owner"

	// Admin can manage regular accounts (list, inspect, suspend, reactivate).
	Admin Role = "admin"

	// User is the default role for self-registered accounts.
	User Role = "user"
)

// Valid reports whether the role is one of the three known categories.
func (r Role) Valid() bool {
	switch r {
	case Owner, Admin, User:
		return true
	}
	return false
}

// In reports whether the role is a member of the given allow-set.
func (r Role) In(allowed ...Role) bool {
	for _, candidate := range allowed {
		if r == candidate {
			return true
		}
	}
	return false
}

// # Permission Bundles

// Permission names persisted in the permissions table.
const (
	PermProfileRead   = "profile.read"
	PermProfileUpdate = "profile.update"
	PermAvatarUpdate  = "avatar.update"
	PermAccountsRead  = "accounts.read"
	PermAccountsWrite = "accounts.suspend"
	PermAccountsRole  = "accounts.role"
)

// userBundle is the permission set granted to every account.
var userBundle = []string{
	PermProfileRead,
	PermProfileUpdate,
	PermAvatarUpdate,
}

// adminBundle extends the user bundle with account management capabilities.
var adminBundle = append([]string{
	PermAccountsRead,
	PermAccountsWrite,
}, userBundle...)

// ownerBundle extends the admin bundle with role administration.
var ownerBundle = append([]string{
	PermAccountsRole,
}, adminBundle...)

// Permissions returns the fixed permission bundle implied by the role.
//
// The returned slice is a copy; callers may mutate it freely.
func (r Role) Permissions() []string {
	var bundle []string

	switch r {
	case Owner:
		bundle = ownerBundle
	case Admin:
		bundle = adminBundle
	case User:
		bundle = userBundle
	default:
		return nil
	}

	out := make([]string, len(bundle))
	copy(out, bundle)
	return out
}

// All returns every known permission name. Used to seed the permissions table.
func All() []string {
	return []string{
		PermProfileRead,
		PermProfileUpdate,
		PermAvatarUpdate,
		PermAccountsRead,
		PermAccountsWrite,
		PermAccountsRole,
	}
}
