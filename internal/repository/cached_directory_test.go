package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartpersona/backend/internal/domain"
)

type countingDirectory struct {
	account  domain.Account
	findByID int
	updates  int
}

func (d *countingDirectory) Register(context.Context, *domain.Account) (uuid.UUID, error) {
	return d.account.ID, nil
}

func (d *countingDirectory) FindByUsername(context.Context, string) (*domain.Account, error) {
	acc := d.account
	return &acc, nil
}

func (d *countingDirectory) FindByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	d.findByID++
	if id != d.account.ID {
		return nil, ErrNotFound
	}
	acc := d.account
	return &acc, nil
}

func (d *countingDirectory) UpdateStatus(_ context.Context, id uuid.UUID, status domain.AccountStatus) (*domain.Account, error) {
	d.updates++
	if id != d.account.ID {
		return nil, ErrNotFound
	}
	d.account.Status = status
	acc := d.account
	return &acc, nil
}

func newCachedFixture(t *testing.T) (*CachedDirectory, *countingDirectory, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	backing := &countingDirectory{account: domain.Account{
		ID:           uuid.New(),
		Username:     "frank",
		PasswordHash: "secret-hash",
		Role:         domain.AccountRolePersonaUser,
		Status:       domain.AccountStatusActive,
		CreatedAt:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}}
	return NewCachedDirectory(backing, client, time.Minute, nil), backing, mr
}

func TestCachedDirectory_ReadThrough(t *testing.T) {
	dir, backing, mr := newCachedFixture(t)
	ctx := context.Background()

	first, err := dir.FindByID(ctx, backing.account.ID)
	require.NoError(t, err)
	second, err := dir.FindByID(ctx, backing.account.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, backing.findByID)
	assert.Equal(t, first.Username, second.Username)
	assert.Equal(t, first.Role, second.Role)
	assert.Empty(t, second.PasswordHash)

	raw, err := mr.Get(accountCachePrefix + backing.account.ID.String())
	require.NoError(t, err)
	assert.NotContains(t, raw, "secret-hash")
	assert.Equal(t, time.Minute, mr.TTL(accountCachePrefix+backing.account.ID.String()))
}

func TestCachedDirectory_TTLExpiry(t *testing.T) {
	dir, backing, mr := newCachedFixture(t)
	ctx := context.Background()

	_, err := dir.FindByID(ctx, backing.account.ID)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = dir.FindByID(ctx, backing.account.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, backing.findByID)
}

func TestCachedDirectory_UpdateStatusInvalidates(t *testing.T) {
	dir, backing, mr := newCachedFixture(t)
	ctx := context.Background()

	_, err := dir.FindByID(ctx, backing.account.ID)
	require.NoError(t, err)

	updated, err := dir.UpdateStatus(ctx, backing.account.ID, domain.AccountStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountStatusSuspended, updated.Status)
	assert.False(t, mr.Exists(accountCachePrefix+backing.account.ID.String()))

	got, err := dir.FindByID(ctx, backing.account.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountStatusSuspended, got.Status)
	assert.Equal(t, 2, backing.findByID)
}

func TestCachedDirectory_NotFoundIsNotCached(t *testing.T) {
	dir, backing, mr := newCachedFixture(t)
	missing := uuid.New()

	_, err := dir.FindByID(context.Background(), missing)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists(accountCachePrefix+missing.String()))
	assert.Equal(t, 1, backing.findByID)
}

func TestCachedDirectory_RedisDownFallsBack(t *testing.T) {
	dir, backing, mr := newCachedFixture(t)
	mr.Close()

	got, err := dir.FindByID(context.Background(), backing.account.ID)
	require.NoError(t, err)
	assert.Equal(t, backing.account.Username, got.Username)
	assert.Equal(t, 1, backing.findByID)
}

func TestCachedDirectory_FindByUsernameBypassesCache(t *testing.T) {
	dir, backing, _ := newCachedFixture(t)

	got, err := dir.FindByUsername(context.Background(), "frank")
	require.NoError(t, err)
	assert.Equal(t, "secret-hash", got.PasswordHash)
	assert.Zero(t, backing.findByID)
}
