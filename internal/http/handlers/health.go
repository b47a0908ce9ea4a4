package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"todo_webapp/internal/logger"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name string
	p    Pinger
}

// HealthHandler reports process liveness and the reachability of the
// store and any optional backends registered with WithCheck.
type HealthHandler struct {
	deps      []dependency
	startTime time.Time
	version   string
}

func NewHealthHandler(store Pinger, version string) *HealthHandler {
	return &HealthHandler{
		deps:      []dependency{{name: "database", p: store}},
		startTime: time.Now(),
		version:   version,
	}
}

// WithCheck adds a named dependency to the readiness checks.
func (h *HealthHandler) WithCheck(name string, p Pinger) *HealthHandler {
	h.deps = append(h.deps, dependency{name: name, p: p})
	return h
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness never touches dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ping runs every check and returns per-dependency results and the first
// failing dependency name, if any.
func (h *HealthHandler) ping(ctx context.Context) (map[string]string, string) {
	checks := make(map[string]string, len(h.deps))
	failed := ""
	for _, d := range h.deps {
		if err := d.p.Ping(ctx); err != nil {
			logger.WithContext(ctx).Warn("health check failed", "dependency", d.name, "error", err)
			checks[d.name] = "unhealthy"
			if failed == "" {
				failed = d.name
			}
			continue
		}
		checks[d.name] = "healthy"
	}
	return checks, failed
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks, failed := h.ping(ctx)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	checks["memory_alloc_mb"] = fmt.Sprintf("%.2f", float64(m.Alloc)/1024/1024)

	status, code := "healthy", http.StatusOK
	if failed != "" {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if _, failed := h.ping(ctx); failed != "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  failed + " unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}
