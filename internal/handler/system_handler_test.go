package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubQueueLen struct {
	n   int64
	err error
}

func (s stubQueueLen) Len(context.Context) (int64, error) { return s.n, s.err }

func readFirstEvent(t *testing.T, h *SystemHandler) systemMetrics {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", h.SystemMetricsSSE)

	// Already cancelled, so the handler returns after the initial event.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	require.True(t, strings.HasPrefix(body, "data: "), body)

	var m systemMetrics
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(body, "data: "))), &m))
	return m
}

func TestSystemMetricsSSE(t *testing.T) {
	m := readFirstEvent(t, NewSystemHandler(stubQueueLen{n: 7}, zerolog.Nop()))

	assert.Equal(t, int64(7), m.PendingResults)
	assert.Positive(t, m.Goroutines)
	assert.NotEmpty(t, m.GoVersion)
	assert.Equal(t, "0m 0s", m.Uptime)
}

func TestSystemMetricsQueueUnavailable(t *testing.T) {
	m := readFirstEvent(t, NewSystemHandler(stubQueueLen{err: errors.New("redis down")}, zerolog.Nop()))
	assert.Equal(t, int64(-1), m.PendingResults)
}
