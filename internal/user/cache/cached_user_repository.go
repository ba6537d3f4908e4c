package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/filevault/internal/user/domain"
	"github.com/allisson/filevault/internal/user/usecase"
)

// Cache is the byte cache used by CachedUserRepository. *RedisCache satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// cachedUser is the JSON shape stored in the cache. The password hash is part of it
// because Login reads users through the same repository.
type cachedUser struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// CachedUserRepository decorates a UserRepository with a read-through cache on
// GetByUsername and GetByID. Cache failures fall through to the repository.
type CachedUserRepository struct {
	next   usecase.UserRepository
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedUserRepository creates a CachedUserRepository.
func NewCachedUserRepository(
	next usecase.UserRepository,
	cache Cache,
	ttl time.Duration,
	logger *slog.Logger,
) *CachedUserRepository {
	return &CachedUserRepository{next: next, cache: cache, ttl: ttl, logger: logger}
}

func usernameKey(username string) string {
	return "filevault:user:username:" + username
}

func idKey(id uuid.UUID) string {
	return "filevault:user:id:" + id.String()
}

// Create delegates to the repository and drops any stale entries for the username.
func (r *CachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.next.Create(ctx, user); err != nil {
		return err
	}
	if err := r.cache.Del(ctx, usernameKey(user.Username), idKey(user.ID)); err != nil {
		r.logger.Warn("failed to invalidate user cache", slog.Any("error", err))
	}
	return nil
}

// GetByID retrieves a user by ID, consulting the cache first.
func (r *CachedUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.readThrough(ctx, idKey(id), func() (*domain.User, error) {
		return r.next.GetByID(ctx, id)
	})
}

// GetByUsername retrieves a user by username, consulting the cache first.
func (r *CachedUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.readThrough(ctx, usernameKey(username), func() (*domain.User, error) {
		return r.next.GetByUsername(ctx, username)
	})
}

func (r *CachedUserRepository) readThrough(
	ctx context.Context,
	key string,
	load func() (*domain.User, error),
) (*domain.User, error) {
	if data, err := r.cache.Get(ctx, key); err == nil && data != nil {
		var cu cachedUser
		if err := json.Unmarshal(data, &cu); err == nil {
			return &domain.User{
				ID:           cu.ID,
				Username:     cu.Username,
				PasswordHash: cu.PasswordHash,
				CreatedAt:    cu.CreatedAt,
			}, nil
		}
		r.logger.Warn("discarding malformed cached user", slog.String("key", key))
	}

	user, err := load()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(cachedUser{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	})
	if err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			r.logger.Warn("failed to cache user", slog.String("key", key), slog.Any("error", err))
		}
	}
	return user, nil
}
