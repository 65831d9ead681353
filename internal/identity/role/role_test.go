// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package role_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhatvu/averio/internal/identity/role"
)

/*
TestRole_Valid verifies membership in the known role set.
*/
func TestRole_Valid(t *testing.T) {
	assert.True(t, role.Owner.Valid())
	assert.True(t, role.Admin.Valid())
	assert.True(t, role.User.Valid())

	assert.False(t, role.Role("").Valid())
	assert.False(t, role.Role("superuser").Valid())
	assert.False(t, role.Role("OWNER").Valid(), "role values are case sensitive")
}

/*
TestRole_In verifies the allow-set membership check used by the route guards.
*/
func TestRole_In(t *testing.T) {
	tests := []struct {
		name    string
		r       role.Role
		allowed []role.Role
		want    bool
	}{
		{"member", role.Admin, []role.Role{role.Admin, role.Owner}, true},
		{"not_member", role.User, []role.Role{role.Admin, role.Owner}, false},
		{"owner_not_implicitly_user", role.Owner, []role.Role{role.User}, false},
		{"empty_set", role.Owner, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.In(tt.allowed...))
		})
	}
}

/*
TestRole_Permissions verifies that bundles nest (user within admin within
owner) and that callers receive independent copies.
*/
func TestRole_Permissions(t *testing.T) {
	user := role.User.Permissions()
	admin := role.Admin.Permissions()
	owner := role.Owner.Permissions()

	// 1. Bundle sizes grow with the role
	assert.Len(t, user, 3)
	assert.Len(t, admin, 5)
	assert.Len(t, owner, 6)

	// 2. Every user capability survives promotion
	for _, perm := range user {
		assert.Contains(t, admin, perm)
		assert.Contains(t, owner, perm)
	}

	// 3. Role administration is owner-only
	assert.Contains(t, owner, role.PermAccountsRole)
	assert.NotContains(t, admin, role.PermAccountsRole)
	assert.NotContains(t, user, role.PermAccountsRead)

	// 4. Unknown roles carry nothing
	assert.Nil(t, role.Role("ghost").Permissions())

	// 5. Mutating a returned bundle does not poison later calls
	user[0] = "tampered"
	assert.NotContains(t, role.User.Permissions(), "tampered")
}

/*
TestAll verifies the seed list covers every named permission exactly once.
*/
func TestAll(t *testing.T) {
	all := role.All()

	assert.Len(t, all, 6)

	seen := make(map[string]bool, len(all))
	for _, perm := range all {
		assert.False(t, seen[perm], "duplicate permission %q", perm)
		seen[perm] = true
	}
	for _, perm := range role.Owner.Permissions() {
		assert.Contains(t, all, perm)
	}
}
