package suite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serverest-suite/internal/common/config"
	commonhttp "serverest-suite/internal/common/http"
	"serverest-suite/internal/common/logger"
	"serverest-suite/internal/fakedata"
	"serverest-suite/internal/serverest"
	"serverest-suite/internal/serverest/fake"
	"serverest-suite/internal/session"
)

func newFakeSession(t *testing.T) *Session {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewTestLogger(t)
	srv := httptest.NewServer(fake.New(log).Handler())
	t.Cleanup(srv.Close)

	env := config.Environment{BaseURL: srv.URL, Timeout: config.DefaultTimeout}
	api := serverest.New(commonhttp.NewClient(env, commonhttp.Options{Logger: log}))
	return NewSession(api, log, session.NewMemoryCache(time.Minute), "SenhaSegura@123")
}

func TestSession_SharedAdminTokenIsCached(t *testing.T) {
	s := newFakeSession(t)
	ctx := context.Background()

	first, err := s.SharedAdminToken(ctx)
	require.NoError(t, err)
	second, err := s.SharedAdminToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSession_WithSharedAdmin_RelogsWhenTokenRejected(t *testing.T) {
	s := newFakeSession(t)
	ctx := context.Background()

	_, err := s.SharedAdminToken(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Tokens.Put(ctx, s.adminEmail, "Bearer stale"))

	var used []string
	token, resp, err := s.WithSharedAdmin(ctx, func(token string) (*commonhttp.Response, error) {
		used = append(used, token)
		_, resp, err := s.API.CreateProduct(ctx, token, fakedata.NewProduct(100, 5))
		return resp, err
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, used, 2)
	assert.Equal(t, "Bearer stale", used[0])
	assert.Equal(t, used[1], token)

	cached, found, err := s.Tokens.Get(ctx, s.adminEmail)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, token, cached)
}

func TestSession_WithSharedAdmin_NoRetryOnOtherStatus(t *testing.T) {
	s := newFakeSession(t)
	calls := 0
	_, resp, err := s.WithSharedAdmin(context.Background(), func(string) (*commonhttp.Response, error) {
		calls++
		return &commonhttp.Response{StatusCode: http.StatusBadRequest}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 1, calls)
}
