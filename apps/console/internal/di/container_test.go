package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/repository"
	"github.com/prohmpiriya/storefront-console/pkg/config"
	"github.com/prohmpiriya/storefront-console/pkg/logger"
	"github.com/prohmpiriya/storefront-console/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T, storefront string, store string) *config.Config {
	t.Helper()
	v := viper.New()
	v.Set("STOREFRONT_BASE_URL", storefront)
	v.Set("SESSION_STORE", store)
	cfg, err := config.LoadFromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestNewContainer_MemoryStore(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	c, err := NewContainer(context.Background(), &ContainerConfig{
		Config: testConfig(t, upstream.URL, config.TokenStoreMemory),
		Log:    logger.NewNop(),
	})
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Redis)
	assert.IsType(t, &repository.MemoryTokenRepository{}, c.TokenRepo)
	assert.False(t, c.Session.IsAuthenticated())

	r := c.Router()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/api/v1/cart", http.StatusOK},
		{http.MethodGet, "/api/v1/orders", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/checkout", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestNewContainer_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := redis.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	cfg := testConfig(t, "http://127.0.0.1:1", config.TokenStoreRedis)
	c, err := NewContainer(context.Background(), &ContainerConfig{
		Config: cfg,
		Log:    logger.NewNop(),
		Redis:  rc,
	})
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &repository.RedisTokenRepository{}, c.TokenRepo)

	// storefront unreachable, redis up
	w := httptest.NewRecorder()
	c.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"healthy"`)
}

func TestNewContainer_RestoresPersistedSession(t *testing.T) {
	repo := repository.NewMemoryTokenRepository()
	require.NoError(t, repo.Save(context.Background(), "not-a-jwt", time.Time{}))

	c, err := NewContainer(context.Background(), &ContainerConfig{
		Config:    testConfig(t, "http://127.0.0.1:1", config.TokenStoreMemory),
		Log:       logger.NewNop(),
		TokenRepo: repo,
	})
	require.NoError(t, err)

	assert.False(t, c.Session.IsAuthenticated())
	_, err = repo.Load(context.Background())
	assert.Error(t, err)
}

func TestNewTokenRepository_RedisRequiresClient(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{Store: config.TokenStoreRedis, RedisKey: "k"}}
	_, err := newTokenRepository(cfg, nil)
	assert.Error(t, err)
}
