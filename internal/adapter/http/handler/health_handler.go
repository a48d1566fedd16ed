package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Checker reports whether a dependency is usable
type Checker func(ctx context.Context) error

// Component is one dependency reported by the health endpoints. A nil Check
// means the dependency is not configured. Only critical components gate /ready.
type Component struct {
	Name     string
	Check    Checker
	Critical bool
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	components []Component
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(components ...Component) *HealthHandler {
	return &HealthHandler{components: components}
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// RedisCheck pings the redis server
func RedisCheck(client *redis.Client) Checker {
	if client == nil {
		return nil
	}
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]string, len(h.components))
	healthy := true

	for _, comp := range h.components {
		if comp.Check == nil {
			components[comp.Name] = "not configured"
			continue
		}
		if err := comp.Check(ctx); err != nil {
			components[comp.Name] = "error: " + err.Error()
			healthy = false
			continue
		}
		components[comp.Name] = "ok"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthStatus{
		Status:     status,
		Components: components,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	for _, comp := range h.components {
		if !comp.Critical {
			continue
		}
		if comp.Check == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": comp.Name + " not configured"})
			return
		}
		if err := comp.Check(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": comp.Name + " unreachable"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
