package cached

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"users-rest-api/internal/adapter/cache"
	domain "users-rest-api/internal/domain/user"
	"users-rest-api/internal/usecase/user"
)

// sharedQueryTimeout bounds a store query shared between callers. The query
// outlives any single caller's cancellation, so it needs its own deadline.
const sharedQueryTimeout = 10 * time.Second

// CachedUserRepository implements user.Repository with cache-aside listing.
// Cache errors never fail a request; the store is queried instead.
type CachedUserRepository struct {
	dbRepo       user.Repository
	cache        cache.UserListCache
	log          *zap.Logger
	group        singleflight.Group
	queryTimeout time.Duration
}

// NewCachedUserRepository wraps dbRepo with cache. A nil cache disables caching.
func NewCachedUserRepository(dbRepo user.Repository, cache cache.UserListCache, log *zap.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		dbRepo:       dbRepo,
		cache:        cache,
		log:          log,
		queryTimeout: sharedQueryTimeout,
	}
}

// List serves from cache when possible. Concurrent misses for the same
// limit share a single store query.
func (r *CachedUserRepository) List(ctx context.Context, limit int64) ([]domain.User, error) {
	if r.cache == nil {
		return r.dbRepo.List(ctx, limit)
	}

	if users, ok := r.fromCache(ctx, limit); ok {
		return users, nil
	}

	ch := r.group.DoChan(strconv.FormatInt(limit, 10), func() (any, error) {
		// detached from the first caller: one client hanging up must not
		// fail the others waiting on this query
		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.queryTimeout)
		defer cancel()

		// another caller may have filled the cache while we waited
		if users, ok := r.fromCache(qctx, limit); ok {
			return users, nil
		}

		users, err := r.dbRepo.List(qctx, limit)
		if err != nil {
			return nil, err
		}

		if err := r.cache.Set(qctx, limit, users); err != nil {
			r.log.Warn("failed to cache users", zap.Int64("limit", limit), zap.Error(err))
		}
		return users, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			r.log.Debug("user listing shared between concurrent requests", zap.Int64("limit", limit))
		}
		return res.Val.([]domain.User), nil
	}
}

func (r *CachedUserRepository) fromCache(ctx context.Context, limit int64) ([]domain.User, bool) {
	users, ok, err := r.cache.Get(ctx, limit)
	if err != nil {
		r.log.Warn("cache get error, falling back to database", zap.Int64("limit", limit), zap.Error(err))
		return nil, false
	}
	return users, ok
}
