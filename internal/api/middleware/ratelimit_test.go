package middleware

import (
	"bytes"
	"console-bank/internal/config"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("Allows requests within the burst and blocks the rest", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(ctx, config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2}, logger)
		handler := rl.Middleware(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		req.RemoteAddr = "127.0.0.1:12345"

		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))

		var response map[string]map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "Rate limit exceeded", response["error"]["message"])

		other := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		other.RemoteAddr = "10.1.1.1:4000"
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, other)
		assert.Equal(t, http.StatusOK, rec.Code, "Limits are tracked per client IP")
	})

	t.Run("Disabled limiter passes everything through", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(ctx, config.RateLimitConfig{Enabled: false, RPS: 0.001, Burst: 1}, logger)
		handler := rl.Middleware(okHandler())

		for i := 0; i < 5; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("extractIP handles various headers", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(ctx, config.RateLimitConfig{}, logger)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "192.168.1.1, 10.0.0.1")
		assert.Equal(t, "192.168.1.1", rl.extractIP(req))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")
		assert.Equal(t, "10.0.0.1", rl.extractIP(req))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "127.0.0.1:12345"
		assert.Equal(t, "127.0.0.1", rl.extractIP(req))
	})

	t.Run("Idle limiters are evicted", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(ctx, config.RateLimitConfig{}, logger)
		current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		rl.now = func() time.Time { return current }

		rl.getLimiter("10.0.0.1").allow(current)
		current = current.Add(20 * time.Minute)
		rl.getLimiter("10.0.0.2").allow(current)
		current = current.Add(15 * time.Minute)

		assert.Equal(t, 1, rl.evictIdle(30*time.Minute))
		_, stale := rl.limiters.Load("10.0.0.1")
		_, active := rl.limiters.Load("10.0.0.2")
		assert.False(t, stale)
		assert.True(t, active)
	})
}
