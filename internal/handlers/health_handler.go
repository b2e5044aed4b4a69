package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports process and database liveness.
type HealthHandler struct {
	db      *gorm.DB
	started time.Time
}

// NewHealthHandler constructs the health handler.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// Health answers liveness probes; degraded when the database is down.
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	overall := "ok"
	dbState := "up"

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		status = http.StatusServiceUnavailable
		overall = "degraded"
		dbState = "down"
	}

	c.JSON(status, gin.H{
		"status":   overall,
		"database": dbState,
		"uptime":   time.Since(h.started).Round(time.Second).String(),
	})
}
