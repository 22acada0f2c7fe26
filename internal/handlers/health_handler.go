package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"loottracker/internal/database"
	"loottracker/internal/models"
)

// HealthHandler exposes the service health endpoints.
type HealthHandler struct {
	startTime time.Time
	version   string
	db        *database.DB
}

// NewHealthHandler creates the health handler. The database may be nil
// when persistence is disabled.
func NewHealthHandler(version string, db *database.DB) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		version:   version,
		db:        db,
	}
}

// Health returns the health status of the service
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	health := models.NewHealthResponse(h.version, time.Since(h.startTime))

	if h.db != nil {
		if err := h.db.Health(); err != nil {
			health.AddService("database", models.HealthStatusUnhealthy, err.Error())
		} else {
			health.AddService("database", models.HealthStatusHealthy, "Connected")
		}
	}

	statusCode := http.StatusOK
	if health.Status != models.HealthStatusHealthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, health)
}

// Readiness returns the readiness status of the service
// GET /health/ready
func (h *HealthHandler) Readiness(c *gin.Context) {
	readiness := models.NewReadinessResponse()

	if h.db != nil {
		err := h.db.Health()
		readiness.AddCheck("database", err == nil, "Database connection is ready")
	} else {
		readiness.AddCheck("database", true, "Persistence is disabled")
	}

	statusCode := http.StatusOK
	if !readiness.Ready {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, readiness)
}

// Liveness returns the liveness status of the service
// GET /health/live
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now(),
		"uptime":    time.Since(h.startTime).String(),
	})
}
