package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/puckcap/internal/store"
)

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db     *store.DB
	redis  *redis.Client
	logger *logrus.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *store.DB, redisClient *redis.Client, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		redis:  redisClient,
		logger: logger,
	}
}

// GetHealth returns the basic health status. The database is critical; the
// cache only degrades service when unreachable.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	response := HealthStatus{
		Status:    "ok",
		Service:   "puckcap",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	if err := h.db.HealthCheck(); err != nil {
		response.Status = "unhealthy"
		response.Checks["database"] = "failed: " + err.Error()
	} else {
		response.Checks["database"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			if response.Status == "ok" {
				response.Status = "degraded"
			}
			response.Checks["redis"] = "failed: " + err.Error()
		} else {
			response.Checks["redis"] = "ok"
		}
	} else {
		response.Checks["redis"] = "not_configured"
	}

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

// GetReady returns the readiness status.
func (h *HealthHandler) GetReady(c *gin.Context) {
	response := HealthStatus{
		Status:    "ready",
		Service:   "puckcap",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	if err := h.db.HealthCheck(); err != nil {
		response.Status = "not_ready"
		response.Checks["database"] = "failed: " + err.Error()
	} else {
		response.Checks["database"] = "ok"
	}

	statusCode := http.StatusOK
	if response.Status != "ready" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}
