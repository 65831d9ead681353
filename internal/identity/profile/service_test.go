// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package profile_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatvu/averio/internal/identity/account"
	"github.com/nhatvu/averio/internal/identity/profile"
	"github.com/nhatvu/averio/internal/identity/role"
	"github.com/nhatvu/averio/internal/platform/apperr"
	"github.com/nhatvu/averio/pkg/pointer"
	"github.com/nhatvu/averio/pkg/uuid"
)

// # In-Memory Fakes

type memAccountRepo struct {
	byID             map[string]*account.Account
	failAvatarUpdate bool
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{byID: make(map[string]*account.Account)}
}

func (m *memAccountRepo) FindByID(_ context.Context, id string) (*account.Account, error) {
	if acct, ok := m.byID[id]; ok {
		clone := *acct
		return &clone, nil
	}
	return nil, apperr.NotFound("User not found.")
}

func (m *memAccountRepo) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	for _, acct := range m.byID {
		if acct.Email == email {
			clone := *acct
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User not found.")
}

func (m *memAccountRepo) Create(_ context.Context, acct *account.Account) error {
	clone := *acct
	m.byID[acct.ID] = &clone
	return nil
}

func (m *memAccountRepo) UpdateProfile(_ context.Context, acct *account.Account) error {
	clone := *acct
	m.byID[acct.ID] = &clone
	return nil
}

func (m *memAccountRepo) UpdatePassword(_ context.Context, accountID, newHash string) error {
	m.byID[accountID].PasswordHash = newHash
	return nil
}

func (m *memAccountRepo) MarkVerified(_ context.Context, accountID string, verifiedAt time.Time) error {
	if acct := m.byID[accountID]; acct.EmailVerifiedAt == nil {
		acct.EmailVerifiedAt = &verifiedAt
	}
	return nil
}

func (m *memAccountRepo) SetActive(_ context.Context, accountID string, active bool) error {
	m.byID[accountID].Active = active
	return nil
}

func (m *memAccountRepo) UpdateAvatar(_ context.Context, accountID, avatarPath string) error {
	if m.failAvatarUpdate {
		return errors.New("row update refused")
	}
	m.byID[accountID].AvatarPath = avatarPath
	return nil
}

func (m *memAccountRepo) UpdateRole(_ context.Context, accountID string, newRole role.Role) error {
	m.byID[accountID].Role = newRole
	return nil
}

func (m *memAccountRepo) List(_ context.Context, limit, offset int) ([]account.Account, error) {
	return nil, nil
}

func (m *memAccountRepo) Count(_ context.Context) (int, error) {
	return len(m.byID), nil
}

func (m *memAccountRepo) Permissions(_ context.Context, accountID string) ([]string, error) {
	return m.byID[accountID].Role.Permissions(), nil
}

// memBlobStore keeps uploaded blobs in a map and records deletions.
type memBlobStore struct {
	blobs   map[string][]byte
	deleted []string
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: make(map[string][]byte)}
}

func (m *memBlobStore) Put(_ context.Context, key, _ string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.blobs[key] = data
	return nil
}

func (m *memBlobStore) Delete(_ context.Context, key string) error {
	delete(m.blobs, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memBlobStore) PublicURL(key string) string {
	return "https://cdn.averio.test/" + key
}

// # Fixture

type fixture struct {
	service  *profile.Service
	accounts *memAccountRepo
	blobs    *memBlobStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	accounts := newMemAccountRepo()
	blobs := newMemBlobStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		service:  profile.NewService(accounts, blobs, logger),
		accounts: accounts,
		blobs:    blobs,
	}
}

func (f *fixture) seedAccount(t *testing.T) *account.Account {
	t.Helper()

	acct := &account.Account{
		ID:        uuid.New(),
		Email:     "profile@averio.test",
		Active:    true,
		Role:      role.User,
		FirstName: "Original",
		LastName:  "Name",
		City:      "Hanoi",
	}
	require.NoError(t, f.accounts.Create(context.Background(), acct))
	return acct
}

// # Profile Updates

/*
TestService_Update verifies the partial-update overlay: provided fields are
applied, nil fields keep their stored values.
*/
func TestService_Update(t *testing.T) {
	f := newFixture(t)
	acct := f.seedAccount(t)

	birthday := time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC)

	updated, err := f.service.Update(context.Background(), acct.ID, profile.UpdateInput{
		FirstName:   pointer.To("Changed"),
		Phone:       pointer.To("+84901234567"),
		DateOfBirth: &birthday,
	})
	require.NoError(t, err)

	// 1. Provided fields changed
	assert.Equal(t, "Changed", updated.FirstName)
	assert.Equal(t, "+84901234567", updated.Phone)
	require.NotNil(t, updated.DateOfBirth)
	assert.True(t, birthday.Equal(*updated.DateOfBirth))

	// 2. Untouched fields survive
	assert.Equal(t, "Name", updated.LastName)
	assert.Equal(t, "Hanoi", updated.City)

	// 3. The overlay was persisted, not just returned
	stored, err := f.accounts.FindByID(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Changed", stored.FirstName)
}

/*
TestService_Update_UnknownAccount verifies the 404 path.
*/
func TestService_Update_UnknownAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Update(context.Background(), uuid.New(), profile.UpdateInput{
		FirstName: pointer.To("Ghost"),
	})
	require.Error(t, err)
	require.NotNil(t, apperr.As(err))
}

// # Avatar Pipeline

/*
TestService_UpdateAvatar verifies the two-phase swap: upload first, repoint
second, old blob cleaned up last.
*/
func TestService_UpdateAvatar(t *testing.T) {
	f := newFixture(t)
	acct := f.seedAccount(t)

	// First upload
	first, err := f.service.UpdateAvatar(context.Background(), acct.ID, "image/png", bytes.NewReader([]byte("png-bytes")))
	require.NoError(t, err)
	require.NotEmpty(t, first.AvatarPath)
	assert.True(t, strings.HasPrefix(first.AvatarPath, "avatars/"+acct.ID+"/"))
	assert.True(t, strings.HasSuffix(first.AvatarPath, ".png"))
	assert.Contains(t, f.blobs.blobs, first.AvatarPath)

	// Replacement cleans up the previous blob
	second, err := f.service.UpdateAvatar(context.Background(), acct.ID, "image/webp", bytes.NewReader([]byte("webp-bytes")))
	require.NoError(t, err)
	assert.NotEqual(t, first.AvatarPath, second.AvatarPath)
	assert.True(t, strings.HasSuffix(second.AvatarPath, ".webp"))
	assert.NotContains(t, f.blobs.blobs, first.AvatarPath)
	assert.Contains(t, f.blobs.deleted, first.AvatarPath)

	// The row points at the new blob
	stored, err := f.accounts.FindByID(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Equal(t, second.AvatarPath, stored.AvatarPath)
}

/*
TestService_UpdateAvatar_SwapFailure verifies orphan rollback: when the row
update fails, the freshly uploaded blob is removed and the old reference
stays intact.
*/
func TestService_UpdateAvatar_SwapFailure(t *testing.T) {
	f := newFixture(t)
	acct := f.seedAccount(t)

	existing, err := f.service.UpdateAvatar(context.Background(), acct.ID, "image/jpeg", bytes.NewReader([]byte("jpg-bytes")))
	require.NoError(t, err)

	f.accounts.failAvatarUpdate = true

	_, err = f.service.UpdateAvatar(context.Background(), acct.ID, "image/png", bytes.NewReader([]byte("new-bytes")))
	require.Error(t, err)

	// Only the existing blob remains; the orphan was rolled back
	assert.Len(t, f.blobs.blobs, 1)
	assert.Contains(t, f.blobs.blobs, existing.AvatarPath)

	stored, findErr := f.accounts.FindByID(context.Background(), acct.ID)
	require.NoError(t, findErr)
	assert.Equal(t, existing.AvatarPath, stored.AvatarPath)
}

/*
TestService_AvatarURL verifies public URL resolution and the empty-path case.
*/
func TestService_AvatarURL(t *testing.T) {
	f := newFixture(t)

	assert.Empty(t, f.service.AvatarURL(&account.Account{}))
	assert.Equal(t,
		"https://cdn.averio.test/avatars/x/y.png",
		f.service.AvatarURL(&account.Account{AvatarPath: "avatars/x/y.png"}),
	)
}
