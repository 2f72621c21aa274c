package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"facelens-go/internal/config"
	"facelens-go/internal/services/detection"
)

type HealthHandler struct {
	cfg      *config.Config
	detector *detection.Service
}

func NewHealthHandler(cfg *config.Config, detector *detection.Service) *HealthHandler {
	return &HealthHandler{cfg: cfg, detector: detector}
}

type DetectorStatus struct {
	Backend string `json:"backend" example:"pigo"`
	Ready   bool   `json:"ready" example:"true"`
	Error   string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status     string         `json:"status" example:"healthy"`
	InstanceID string         `json:"instance_id" example:"facelens-1"`
	Version    string         `json:"version" example:"1.0.0"`
	Detector   DetectorStatus `json:"detector"`
}

type InfoResponse struct {
	InstanceID   string   `json:"instance_id" example:"facelens-1"`
	Status       string   `json:"status" example:"running"`
	Version      string   `json:"version" example:"1.0.0"`
	Capabilities []string `json:"capabilities"`
}

func (h *HealthHandler) detectorStatus() DetectorStatus {
	st := DetectorStatus{Backend: h.detector.Name(), Ready: h.detector.Ready()}
	if err := h.detector.LastError(); err != nil {
		st.Error = err.Error()
	}
	return st
}

// @Summary Health check
// @Description Liveness plus detector state. Status is degraded while the face model is not loaded.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	det := h.detectorStatus()
	status := "healthy"
	if !det.Ready {
		status = "degraded"
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:     status,
		InstanceID: h.cfg.InstanceID,
		Version:    h.cfg.Version,
		Detector:   det,
	})
}

// @Summary Readiness
// @Description 200 once the face detector is loaded, 503 otherwise
// @Tags health
// @Produce json
// @Success 200 {object} DetectorStatus
// @Failure 503 {object} DetectorStatus
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	det := h.detectorStatus()
	if !det.Ready {
		c.JSON(http.StatusServiceUnavailable, det)
		return
	}
	c.JSON(http.StatusOK, det)
}

// @Summary Service information
// @Description Basic instance information and capabilities
// @Tags health
// @Produce json
// @Success 200 {object} InfoResponse
// @Router /api/instance [get]
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		InstanceID: h.cfg.InstanceID,
		Status:     "running",
		Version:    h.cfg.Version,
		Capabilities: []string{
			"face_detection",
			"annotated_png_download",
			"parameter_sessions",
		},
	})
}
