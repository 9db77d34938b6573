package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/ailit-assessment/internal/config"
	"github.com/stemsi/ailit-assessment/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterRefill(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 2, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "buckets are per key")

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("1.2.3.4"))

	now = now.Add(10 * time.Minute)
	rl.cleanup()
	assert.Empty(t, rl.visitors)
}

func TestRateLimiterMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := gin.New()
	r.POST("/results", NewRateLimiter(ctx, 1, time.Minute).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	codes := make([]int, 2)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/results", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusTooManyRequests}, codes)
}

func TestBrotliCompressesWholeBody(t *testing.T) {
	// several writes straddling the threshold, with a tail below it
	parts := []string{strings.Repeat("a", 700), strings.Repeat("b", 700), "tail"}

	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{MinLength: 1024}))
	r.GET("/big", func(c *gin.Context) {
		c.Status(http.StatusOK)
		for _, p := range parts {
			_, _ = c.Writer.WriteString(p)
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/big", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, "br", w.Header().Get("Content-Encoding"))
	plain, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, strings.Join(parts, ""), string(plain))
}

func TestBrotliLeavesSmallAndSkippedResponses(t *testing.T) {
	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{
		MinLength: 1024,
		Skipper:   func(c *gin.Context) bool { return c.Request.URL.Path == "/download" },
	}))
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/download", func(c *gin.Context) { c.String(http.StatusOK, strings.Repeat("x", 4096)) })

	for _, path := range []string{"/small", "/download"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "br")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Empty(t, w.Header().Get("Content-Encoding"), path)
	}
}

func TestRequireRunJWT(t *testing.T) {
	auth := service.NewAuthService(&config.Config{JWTSecret: "secret", JWTExpiry: time.Hour, RunTTL: time.Hour})
	expired := service.NewAuthService(&config.Config{JWTSecret: "secret", RunTTL: -time.Hour, JWTExpiry: -time.Hour})

	r := gin.New()
	r.GET("/me", RequireRunJWT(auth), func(c *gin.Context) {
		c.String(http.StatusOK, GetRunID(c))
	})

	runToken, err := auth.GenerateRunToken("run-42")
	require.NoError(t, err)
	adminToken, err := auth.GenerateAdminToken()
	require.NoError(t, err)
	staleToken, err := expired.GenerateAdminToken()
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"run token", "Bearer " + runToken, http.StatusOK, "run-42"},
		{"lowercase scheme", "bearer " + runToken, http.StatusOK, "run-42"},
		{"missing", "", http.StatusUnauthorized, "TOKEN_REQUIRED"},
		{"admin token", "Bearer " + adminToken, http.StatusForbidden, "RUN_ACCESS_ONLY"},
		{"expired", "Bearer " + staleToken, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"garbage", "Bearer abc", http.StatusUnauthorized, "TOKEN_INVALID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}
