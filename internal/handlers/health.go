package handlers

import (
	"net/http"
	"time"

	"taskhub/backend/internal/cache"
	"taskhub/backend/internal/monitoring"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports dependency health. Registered checks gate the
// status code; the cache is optional and reported informationally only.
type HealthHandler struct {
	checker   *monitoring.HealthChecker
	taskCache *cache.RedisCache
	startTime time.Time
}

func NewHealthHandler(checker *monitoring.HealthChecker, taskCache *cache.RedisCache) *HealthHandler {
	return &HealthHandler{
		checker:   checker,
		taskCache: taskCache,
		startTime: time.Now(),
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	checks := h.checker.Run(c.Request.Context())

	status := monitoring.StatusHealthy
	code := http.StatusOK
	if !monitoring.Healthy(checks) {
		status = monitoring.StatusUnhealthy
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now(),
		"uptime":    time.Since(h.startTime).String(),
		"checks":    checks,
		"cache":     h.cacheReport(),
	})
}

// cacheReport never influences the status code: the service works
// without redis, just slower.
func (h *HealthHandler) cacheReport() gin.H {
	if h.taskCache == nil {
		return gin.H{"enabled": false}
	}

	report := gin.H{
		"enabled": true,
		"status":  monitoring.StatusHealthy,
		"stats":   h.taskCache.Stats(),
	}
	if err := h.taskCache.Health(); err != nil {
		report["status"] = monitoring.StatusUnhealthy
	}

	return report
}
