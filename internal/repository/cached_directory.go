package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/smartpersona/backend/internal/domain"
)

const accountCachePrefix = "account:"

// cachedAccount is the Redis form of an account. The password hash is never cached.
type cachedAccount struct {
	ID          uuid.UUID            `json:"id"`
	Username    string               `json:"username"`
	DisplayName *string              `json:"display_name,omitempty"`
	Role        domain.AccountRole   `json:"role"`
	Status      domain.AccountStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// CachedDirectory serves FindByID from Redis before falling back to next.
// Accounts read from the cache carry no password hash; FindByUsername always
// goes to next so credential checks see the stored hash.
type CachedDirectory struct {
	next   UserDirectory
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedDirectory wraps next with a read-through cache.
func NewCachedDirectory(next UserDirectory, client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *CachedDirectory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedDirectory{next: next, client: client, ttl: ttl, logger: logger}
}

func (d *CachedDirectory) Register(ctx context.Context, account *domain.Account) (uuid.UUID, error) {
	return d.next.Register(ctx, account)
}

func (d *CachedDirectory) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return d.next.FindByUsername(ctx, username)
}

func (d *CachedDirectory) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	raw, err := d.client.Get(ctx, accountCachePrefix+id.String()).Bytes()
	switch {
	case err == nil:
		var cached cachedAccount
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached.toAccount(), nil
		}
		d.logger.Warn("discarding undecodable cached account", zap.String("account_id", id.String()))
	case !errors.Is(err, redis.Nil):
		d.logger.Warn("account cache read failed", zap.String("account_id", id.String()), zap.Error(err))
	}

	account, err := d.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.store(ctx, account)
	return account, nil
}

func (d *CachedDirectory) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) (*domain.Account, error) {
	account, err := d.next.UpdateStatus(ctx, id, status)
	if delErr := d.client.Del(ctx, accountCachePrefix+id.String()).Err(); delErr != nil {
		d.logger.Warn("account cache invalidation failed", zap.String("account_id", id.String()), zap.Error(delErr))
	}
	return account, err
}

func (d *CachedDirectory) store(ctx context.Context, account *domain.Account) {
	payload, err := json.Marshal(cachedAccount{
		ID:          account.ID,
		Username:    account.Username,
		DisplayName: account.DisplayName,
		Role:        account.Role,
		Status:      account.Status,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	})
	if err != nil {
		return
	}
	if err := d.client.Set(ctx, accountCachePrefix+account.ID.String(), payload, d.ttl).Err(); err != nil {
		d.logger.Warn("account cache write failed", zap.String("account_id", account.ID.String()), zap.Error(err))
	}
}

func (c cachedAccount) toAccount() *domain.Account {
	return &domain.Account{
		ID:          c.ID,
		Username:    c.Username,
		DisplayName: c.DisplayName,
		Role:        c.Role,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
