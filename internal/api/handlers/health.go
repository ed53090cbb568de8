package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthStatus mirrors the uniform health envelope used across the
// original service set.
type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// HealthHandler reports liveness/readiness. The database is an optional
// adjunct (spec §6), so its absence degrades rather than fails health.
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) GetHealth(c *gin.Context) {
	resp := HealthStatus{
		Status:    "ok",
		Service:   "racesim",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	if h.db != nil {
		if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
			resp.Status = "degraded"
			resp.Checks["database"] = "failed"
		} else {
			resp.Checks["database"] = "ok"
		}
	} else {
		resp.Checks["database"] = "not_configured"
	}

	statusCode := http.StatusOK
	if resp.Status == "degraded" {
		statusCode = http.StatusOK
	}
	c.JSON(statusCode, resp)
}

func (h *HealthHandler) GetReady(c *gin.Context) {
	c.JSON(http.StatusOK, HealthStatus{
		Status:    "ready",
		Service:   "racesim",
		Timestamp: time.Now(),
		Checks:    map[string]string{},
	})
}
