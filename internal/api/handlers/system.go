package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"facelens-go/internal/config"
	"facelens-go/internal/services/detection"
	"facelens-go/internal/services/session"
)

// SystemHandler handles system-related endpoints
type SystemHandler struct {
	cfg       *config.Config
	sessions  *session.Store
	detector  *detection.Service
	startedAt time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(cfg *config.Config, sessions *session.Store, detector *detection.Service) *SystemHandler {
	return &SystemHandler{
		cfg:       cfg,
		sessions:  sessions,
		detector:  detector,
		startedAt: time.Now(),
	}
}

// @Summary Get system stats
// @Description Get system statistics and performance metrics
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /system/stats [get]
func (h *SystemHandler) GetStats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"instance_id":     h.cfg.InstanceID,
			"uptime_seconds":  int64(time.Since(h.startedAt).Seconds()),
			"memory_mb":       m.Alloc / 1024 / 1024,
			"cpu_cores":       runtime.NumCPU(),
			"goroutines":      runtime.NumGoroutine(),
			"go_version":      runtime.Version(),
			"active_sessions": h.sessions.Len(),
			"max_sessions":    h.cfg.MaxSessions,
			"detector_ready":  h.detector.Ready(),
		},
		"timestamp": time.Now().Unix(),
	})
}

// @Summary Get debug info
// @Description Get debug information for troubleshooting
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /system/debug [get]
func (h *SystemHandler) GetDebugInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"debug": gin.H{
			"instance_id": h.cfg.InstanceID,
			"environment": h.cfg.Environment,
			"endpoints":   []string{"/", "/health", "/ready", "/api/detect", "/api/sessions", "/system", "/docs"},
			"components":  []string{"ingest", "detector", "annotator", "session_store", "event_publisher"},
			"detector": gin.H{
				"backend":     h.detector.Name(),
				"min_size":    h.cfg.MinFaceSize,
				"pigo_iou":    h.cfg.PigoIoU,
				"pigo_shift":  h.cfg.PigoShiftFactor,
				"thickness":   h.cfg.RectThickness,
				"auto_orient": h.cfg.AutoOrient,
			},
			"sessions": gin.H{
				"ttl": h.cfg.SessionTTL.String(),
				"max": h.cfg.MaxSessions,
			},
			"nats_enabled":    h.cfg.NatsEnabled,
			"metrics_enabled": h.cfg.MetricsEnabled,
		},
		"timestamp": time.Now().Unix(),
	})
}
