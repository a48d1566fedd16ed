package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHealth(t *testing.T, h *HealthHandler, path string) (*httptest.ResponseRecorder, HealthStatus) {
	t.Helper()
	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)

	req, _ := http.NewRequest("GET", path, http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var status HealthStatus
	_ = json.Unmarshal(w.Body.Bytes(), &status)
	return w, status
}

func okCheck(context.Context) error { return nil }

func failCheck(context.Context) error { return errors.New("connection refused") }

func TestHealthHandler_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("healthy when no dependencies", func(t *testing.T) {
		handler := NewHealthHandler(
			Component{Name: "database"},
			Component{Name: "redis", Check: RedisCheck(nil)},
		)

		w, status := serveHealth(t, handler, "/health")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "not configured", status.Components["database"])
		assert.Equal(t, "not configured", status.Components["redis"])
	})

	t.Run("reports ok components", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer client.Close()

		handler := NewHealthHandler(
			Component{Name: "llm", Check: okCheck},
			Component{Name: "redis", Check: RedisCheck(client)},
		)

		w, status := serveHealth(t, handler, "/health")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", status.Components["llm"])
		assert.Equal(t, "ok", status.Components["redis"])
	})

	t.Run("unhealthy when a component fails", func(t *testing.T) {
		handler := NewHealthHandler(
			Component{Name: "model", Check: failCheck, Critical: true},
		)

		w, status := serveHealth(t, handler, "/health")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", status.Status)
		assert.Equal(t, "error: connection refused", status.Components["model"])
	})
}

func TestHealthHandler_Ready(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("ready when no critical components", func(t *testing.T) {
		handler := NewHealthHandler(Component{Name: "redis", Check: failCheck})

		w, _ := serveHealth(t, handler, "/ready")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ready")
	})

	t.Run("not ready when critical component fails", func(t *testing.T) {
		handler := NewHealthHandler(Component{Name: "model", Check: failCheck, Critical: true})

		w, _ := serveHealth(t, handler, "/ready")

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "model unreachable")
	})

	t.Run("not ready when critical component missing", func(t *testing.T) {
		handler := NewHealthHandler(Component{Name: "model", Critical: true})

		w, _ := serveHealth(t, handler, "/ready")

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "model not configured")
	})
}
