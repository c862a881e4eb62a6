package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Pinger is satisfied by the Redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db    *gorm.DB
	cache Pinger
}

// NewHealthController accepts a nil cache when Redis is disabled.
func NewHealthController(db *gorm.DB, cache Pinger) *HealthController {
	return &HealthController{db: db, cache: cache}
}

// Health reports database and cache reachability
// GET /health
func (ctrl *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "ok"}

	sqlDB, err := ctrl.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		status = http.StatusServiceUnavailable
		checks["database"] = "unavailable"
	}

	if ctrl.cache != nil {
		checks["cache"] = "ok"
		if err := ctrl.cache.Ping(ctx); err != nil {
			// the cache is optional; report it without failing the check
			checks["cache"] = "unavailable"
		}
	}

	c.JSON(status, gin.H{
		"status": http.StatusText(status),
		"checks": checks,
	})
}
