package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"users-rest-api/internal/adapter/cache"
	"users-rest-api/internal/domain/user"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) InsertMany(ctx context.Context, users []user.User) ([]string, error) {
	args := m.Called(ctx, users)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockWriter) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestGenerateUsers(t *testing.T) {
	users := generateUsers(25)
	assert.Len(t, users, 25)

	emails := make(map[string]struct{}, len(users))
	for _, u := range users {
		assert.NoError(t, u.Validate())
		emails[u.Email] = struct{}{}
	}
	assert.Len(t, emails, 25)

	assert.Equal(t, generateUsers(25), users)
	assert.Empty(t, generateUsers(0))
}

func TestRun_NegativeCount(t *testing.T) {
	assert.Error(t, run(-1, false))
}

func newCachedSeeder(t *testing.T) (*seeder, *MockWriter, *cache.RedisUserListCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zaptest.NewLogger(t)
	listCache := cache.NewRedisUserListCache(client, time.Minute, log)
	repo := new(MockWriter)
	return &seeder{repo: repo, cache: listCache, log: log}, repo, listCache, mr
}

func TestSeeder_ClearsCachedListings(t *testing.T) {
	tests := []struct {
		name string
		drop bool
	}{
		{"insert only", false},
		{"drop then insert", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo, listCache, mr := newCachedSeeder(t)
			ctx := context.Background()

			stale := []user.User{{ID: "old", Name: "Old", Email: "old@example.com", Location: "Nowhere"}}
			require.NoError(t, listCache.Set(ctx, 5, stale))
			require.True(t, mr.Exists("users:list:5"))

			if tt.drop {
				repo.On("DeleteAll", mock.Anything).Return(int64(1), nil).Once()
			}
			repo.On("InsertMany", mock.Anything, mock.AnythingOfType("[]user.User")).
				Return([]string{"a", "b", "c"}, nil).Once()

			require.NoError(t, s.seed(ctx, 3, tt.drop))

			assert.False(t, mr.Exists("users:list:5"))
			repo.AssertExpectations(t)
		})
	}
}

func TestSeeder_InsertFailureKeepsCache(t *testing.T) {
	s, repo, listCache, mr := newCachedSeeder(t)
	ctx := context.Background()

	require.NoError(t, listCache.Set(ctx, 5, nil))
	repo.On("InsertMany", mock.Anything, mock.Anything).Return(nil, errors.New("write failed"))

	assert.Error(t, s.seed(ctx, 2, false))
	assert.True(t, mr.Exists("users:list:5"))
}

func TestSeeder_InvalidateFailureReported(t *testing.T) {
	s, repo, _, mr := newCachedSeeder(t)
	mr.Close()

	repo.On("InsertMany", mock.Anything, mock.Anything).Return([]string{"a"}, nil)

	err := s.seed(context.Background(), 1, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cached listings not cleared")
}

func TestSeeder_WithoutCache(t *testing.T) {
	repo := new(MockWriter)
	s := &seeder{repo: repo, log: zaptest.NewLogger(t)}

	repo.On("InsertMany", mock.Anything, mock.Anything).Return([]string{"a"}, nil).Once()

	require.NoError(t, s.seed(context.Background(), 1, false))
	repo.AssertNotCalled(t, "DeleteAll", mock.Anything)
}
