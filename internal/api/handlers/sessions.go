package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"facelens-go/internal/logging"
	"facelens-go/internal/models"
	"facelens-go/internal/services/pipeline"
	"facelens-go/internal/services/session"
)

type SessionResponse struct {
	SessionID   string                     `json:"session_id"`
	Filename    string                     `json:"filename"`
	Width       int                        `json:"width"`
	Height      int                        `json:"height"`
	Params      models.DetectionParameters `json:"params"`
	Color       string                     `json:"color"`
	Labels      bool                       `json:"labels"`
	CreatedAt   time.Time                  `json:"created_at"`
	LastAccess  time.Time                  `json:"last_access"`
	DownloadURL string                     `json:"download_url"`
}

func downloadURL(id string) string {
	return "/api/sessions/" + id + "/download"
}

func toPipelineRequest(s session.Session) pipeline.Request {
	return pipeline.Request{
		SessionID: s.ID,
		Filename:  s.Filename,
		Source:    s.Source,
		Params:    s.Params,
		Color:     s.Color,
		Labels:    s.Labels,
	}
}

// @Summary Upload an image
// @Description Start a session with an uploaded image and run detection with the given parameters
// @Tags sessions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "JPG, JPEG or PNG image"
// @Param scale_factor formData number false "Scale factor, 1.1 to 2.0" default(1.3)
// @Param min_neighbors formData integer false "Min neighbors, 1 to 10" default(5)
// @Param color formData string false "Rectangle color #RRGGBB" default(#00FF00)
// @Param labels formData boolean false "Draw face numbers above boxes"
// @Success 201 {object} DetectionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 415 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/sessions [post]
func (h *FaceHandler) CreateSession(c *gin.Context) {
	var req ParamsRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, err)
		return
	}
	params, color, err := req.resolve(h.cfg.DefaultParameters(), h.cfg.DefaultRectColor)
	if err != nil {
		respondError(c, err)
		return
	}
	up, err := h.readUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	s := h.sessions.Create(up.Filename, up.Image, params, color, req.labelsOr(false))
	logging.SetSession(c, s.ID)
	logging.Info(c).
		Str("filename", up.Filename).
		Int("width", up.Width()).
		Int("height", up.Height()).
		Msg("Session created")

	res, err := h.pipeline.Run(c.Request.Context(), toPipelineRequest(s))
	if err != nil {
		// the session stays so the user can fix the setup and retry
		respondError(c, err)
		return
	}
	h.respondResult(c, http.StatusCreated, res, downloadURL(s.ID))
}

// @Summary Change parameters
// @Description Update the session's sliders or color and re-run detection
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param params body ParamsRequest true "New parameter values"
// @Success 200 {object} DetectionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/sessions/{id}/params [put]
func (h *FaceHandler) UpdateParams(c *gin.Context) {
	id := c.Param("id")
	logging.SetSession(c, id)

	current, err := h.sessions.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	var req ParamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err)
		return
	}
	params, color, err := req.resolve(current.Params, current.Color)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.sessions.Update(id, params, color, req.labelsOr(current.Labels))
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.pipeline.Run(c.Request.Context(), toPipelineRequest(updated))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondResult(c, http.StatusOK, res, downloadURL(id))
}

// @Summary Get session
// @Description Current parameters and image information of a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/sessions/{id} [get]
func (h *FaceHandler) GetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	b := s.Source.Bounds()
	c.JSON(http.StatusOK, SessionResponse{
		SessionID:   s.ID,
		Filename:    s.Filename,
		Width:       b.Dx(),
		Height:      b.Dy(),
		Params:      s.Params,
		Color:       s.Color,
		Labels:      s.Labels,
		CreatedAt:   s.CreatedAt,
		LastAccess:  s.LastAccess,
		DownloadURL: downloadURL(s.ID),
	})
}

// @Summary Download annotated image
// @Description Re-run detection with the session's current parameters and return the annotated PNG
// @Tags sessions
// @Produce png
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/sessions/{id}/download [get]
func (h *FaceHandler) Download(c *gin.Context) {
	id := c.Param("id")
	logging.SetSession(c, id)

	s, err := h.sessions.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	data, filename, res, err := h.pipeline.Render(c.Request.Context(), toPipelineRequest(s))
	if err != nil {
		respondError(c, err)
		return
	}

	logging.Info(c).
		Str("filename", filename).
		Int("faces", res.Detection.Count).
		Int("bytes", len(data)).
		Msg("Annotated image downloaded")
	sendPNG(c, data, filename)
}

// @Summary End session
// @Description Drop the uploaded image and parameters
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/sessions/{id} [delete]
func (h *FaceHandler) DeleteSession(c *gin.Context) {
	if !h.sessions.Delete(c.Param("id")) {
		respondError(c, session.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
