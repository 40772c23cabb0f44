package app

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/swagshop/internal/config"
)

func testConfig(redisAddr string) *config.Config {
	return &config.Config{
		Environment:          "development",
		LogLevel:             "error",
		HTTPPort:             0,
		ShutdownTimeoutSecs:  1,
		HTTPReadTimeoutSecs:  5,
		HTTPWriteTimeoutSecs: 5,
		StoreDriver:          config.StoreRedis,
		RedisAddr:            redisAddr,
		RedisPoolSize:        2,
		CORSAllowedOrigins:   []string{"*"},
	}
}

func TestNewApp_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := NewApp(testConfig(mr.Addr()), logger)
	require.NoError(t, err)
	assert.Equal(t, config.StoreRedis, a.store.driver)
	assert.Nil(t, a.producer)
	assert.Nil(t, a.limiter)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/product", strings.NewReader(`{"title":"Mug","price":9.99}`))
	req.Header.Set("Content-Type", "application/json")
	a.httpServer.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/product", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var products []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Mug", products[0]["title"])

	rec = httptest.NewRecorder()
	a.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.NoError(t, a.Shutdown())
}

func TestNewApp_GzipFailureReleasesStore(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(mr.Addr())
	cfg.HTTPGzipEnabled = true

	prev := newCompressor
	newCompressor = func(int) (func(http.Handler) http.Handler, error) {
		return nil, errors.New("bad gzip options")
	}
	t.Cleanup(func() { newCompressor = prev })

	_, err := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configure gzip")

	assert.Eventually(t, func() bool {
		return mr.CurrentConnectionCount() == 0
	}, 2*time.Second, 10*time.Millisecond, "redis connections left open")
}

func TestNewApp_UnknownStoreDriver(t *testing.T) {
	cfg := testConfig("localhost:0")
	cfg.StoreDriver = "sqlite"

	_, err := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown store driver "sqlite"`)
}
