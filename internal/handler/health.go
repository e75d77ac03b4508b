package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"propchat/internal/repository"
)

// BuildInfo is the version metadata stamped in at link time
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
}

// DatasetStatusProvider reports the state of the property dataset
type DatasetStatusProvider interface {
	Status() repository.DatasetStatus
}

// HealthHandler serves liveness and service info
type HealthHandler struct {
	dataset DatasetStatusProvider
	build   BuildInfo
	now     func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(dataset DatasetStatusProvider, build BuildInfo) *HealthHandler {
	return &HealthHandler{dataset: dataset, build: build, now: time.Now}
}

// Health handles GET /health. The process answers even while the dataset
// is unavailable; the dataset block says why searches would fail.
func (h *HealthHandler) Health(c *gin.Context) {
	status := h.dataset.Status()

	overall := "healthy"
	if status.State != repository.StateLoaded {
		overall = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    overall,
		"service":   "propchat",
		"version":   h.build.Version,
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"dataset":   status,
	})
}

// Info handles GET /
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "Property chat API is running",
		"service": "propchat",
		"version": h.build.Version,
		"endpoints": []string{
			"POST /api/chat",
			"POST /api/chat/clear-context",
			"GET /api/chat/context-stats",
			"GET /health",
		},
	})
}

// Version handles GET /version
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, h.build)
}

// NotFound answers unknown /api routes with a JSON 404
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found", "code": "NOT_FOUND"})
}
