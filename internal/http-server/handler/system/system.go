package system

import (
	"math"
	"net/http"
	"time"

	"logsaas-lite/internal/http-server/respond"
)

const serviceName = "LogSaaS Lite API"

type HealthResponse struct {
	OK          bool    `json:"ok"`
	Version     string  `json:"version"`
	Uptime      float64 `json:"uptime"`
	Timestamp   string  `json:"timestamp"`
	Environment string  `json:"environment"`
}

type RootResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

// SystemHandler serves the process-level endpoints that do not touch upload state.
type SystemHandler struct {
	version   string
	env       string
	startedAt time.Time
	now       func() time.Time
}

func NewSystemHandler(version, env string) *SystemHandler {
	return &SystemHandler{
		version:   version,
		env:       env,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	uptime := now.Sub(h.startedAt).Seconds()
	if uptime < 0 {
		uptime = 0
	}

	respond.JSON(w, http.StatusOK, HealthResponse{
		OK:          true,
		Version:     h.version,
		Uptime:      math.Round(uptime*100) / 100,
		Timestamp:   now.UTC().Format(time.RFC3339Nano),
		Environment: h.env,
	})
}

func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, RootResponse{
		Message: serviceName,
		Version: h.version,
		Status:  "healthy",
		Endpoints: map[string]string{
			"health":    "/health",
			"upload":    "/upload",
			"data":      "/data",
			"files":     "/files",
			"dashboard": "/dashboard/",
			"docs":      "/docs (coming soon)",
		},
	})
}
