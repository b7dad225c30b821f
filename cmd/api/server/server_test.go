package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	ginhandler "users-rest-api/internal/adapter/gin/handler"
	"users-rest-api/internal/config"
	domain "users-rest-api/internal/domain/user"
	"users-rest-api/internal/usecase/user"
)

type stubRepo struct {
	users []domain.User
	err   error
}

func (r *stubRepo) List(_ context.Context, limit int64) ([]domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if int64(len(r.users)) > limit {
		return r.users[:limit], nil
	}
	return r.users, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Port:                   "0",
			CORSAllowedOrigins:     []string{"*"},
			MaxBodyBytes:           1 << 20,
			ShutdownTimeoutSeconds: 5,
			UsersListLimit:         5,
		},
	}
}

func startServer(t *testing.T, repo user.Repository) (*Server, string) {
	t.Helper()

	l := zap.NewNop()
	h := ginhandler.NewUserHandler(user.New(repo, l), l)

	srv, err := New(testConfig(), l, h)
	require.NoError(t, err)

	lis, err := srv.Listen(context.Background())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(lis) }()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, srv.Shutdown(ctx))
		assert.NoError(t, <-done)
	})

	return srv, "http://" + lis.Addr().String()
}

func TestServer_ServesRoutes(t *testing.T) {
	_, base := startServer(t, &stubRepo{users: []domain.User{
		{ID: "1", Name: "Ada", Email: "ada@example.com", Location: "London"},
	}})

	resp, err := http.Get(base + "/")
	require.NoError(t, err)
	var teapot map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&teapot))
	resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, ginhandler.TeapotMessage, teapot["message"])

	resp, err = http.Get(base + "/users")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload ginhandler.ListUsersResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Data, 1)
	assert.Equal(t, "Ada", payload.Data[0].Name)
}

func TestServer_StoreDownStillServesRoot(t *testing.T) {
	_, base := startServer(t, &stubRepo{err: errors.New("server selection timeout")})

	resp, err := http.Get(base + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	resp, err = http.Get(base + "/users")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestNew_InvalidTrustedProxies(t *testing.T) {
	cfg := testConfig()
	cfg.App.TrustedProxies = []string{"not-an-ip"}

	l := zap.NewNop()
	_, err := New(cfg, l, ginhandler.NewUserHandler(user.New(&stubRepo{}, l), l))
	assert.Error(t, err)
}

func TestWithSignal_CancelsOnSIGTERM(t *testing.T) {
	ctx, stop := WithSignal(context.Background(), zap.NewNop())
	defer stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not canceled by SIGTERM")
	}
}
