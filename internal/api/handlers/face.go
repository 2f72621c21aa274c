package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"facelens-go/internal/config"
	"facelens-go/internal/helpers"
	"facelens-go/internal/logging"
	"facelens-go/internal/models"
	"facelens-go/internal/services/ingest"
	"facelens-go/internal/services/metrics"
	"facelens-go/internal/services/pipeline"
	"facelens-go/internal/services/session"
)

// FaceHandler serves uploads, parameter changes and downloads.
type FaceHandler struct {
	cfg      *config.Config
	decoder  *ingest.Decoder
	pipeline *pipeline.Service
	sessions *session.Store
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewFaceHandler(cfg *config.Config, decoder *ingest.Decoder, pipe *pipeline.Service, sessions *session.Store, m *metrics.Metrics) *FaceHandler {
	return &FaceHandler{
		cfg:      cfg,
		decoder:  decoder,
		pipeline: pipe,
		sessions: sessions,
		metrics:  m,
		logger:   logging.NewServiceLogger(cfg, "api"),
	}
}

// ParamsRequest carries the slider and color picker values. Missing fields
// fall back to the configured defaults.
type ParamsRequest struct {
	ScaleFactor  *float64 `form:"scale_factor" json:"scale_factor" binding:"omitempty,gte=1.1,lte=2" example:"1.3"`
	MinNeighbors *int     `form:"min_neighbors" json:"min_neighbors" binding:"omitempty,gte=1,lte=10" example:"5"`
	Color        string   `form:"color" json:"color" example:"#00FF00"`
	Labels       *bool    `form:"labels" json:"labels"`
}

// resolve merges the request onto base and validates the color.
func (r ParamsRequest) resolve(base models.DetectionParameters, baseColor string) (models.DetectionParameters, string, error) {
	params := base
	if r.ScaleFactor != nil {
		params.ScaleFactor = *r.ScaleFactor
	}
	if r.MinNeighbors != nil {
		params.MinNeighbors = *r.MinNeighbors
	}
	if err := params.Validate(); err != nil {
		return params, "", err
	}

	color := baseColor
	if r.Color != "" {
		color = r.Color
	}
	hex, err := helpers.NormalizeHex(color)
	if err != nil {
		return params, "", err
	}
	return params, hex, nil
}

func (r ParamsRequest) labelsOr(base bool) bool {
	if r.Labels != nil {
		return *r.Labels
	}
	return base
}

// DetectionResponse is the results panel payload.
type DetectionResponse struct {
	models.DetectionResult
	OriginalPreview  string `json:"original_preview"`
	AnnotatedPreview string `json:"annotated_preview"`
	DownloadURL      string `json:"download_url,omitempty"`
}

type DefaultsResponse struct {
	ScaleFactor      RangeFloat `json:"scale_factor"`
	MinNeighbors     RangeInt   `json:"min_neighbors"`
	Color            string     `json:"color" example:"#00FF00"`
	MinFaceSize      int        `json:"min_face_size" example:"30"`
	AcceptedFormats  []string   `json:"accepted_formats"`
	MaxUploadBytes   int64      `json:"max_upload_bytes"`
	MaxImagePixels   int64      `json:"max_image_pixels" example:"40000000"`
	DetectorBackend  string     `json:"detector_backend" example:"pigo"`
	OutlineThickness int        `json:"outline_thickness" example:"2"`
}

type RangeFloat struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

type RangeInt struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Step    int `json:"step"`
	Default int `json:"default"`
}

func (h *FaceHandler) defaults() DefaultsResponse {
	return DefaultsResponse{
		ScaleFactor: RangeFloat{
			Min:     models.MinScaleFactor,
			Max:     models.MaxScaleFactor,
			Step:    0.1,
			Default: h.cfg.DefaultScaleFactor,
		},
		MinNeighbors: RangeInt{
			Min:     models.MinNeighbors,
			Max:     models.MaxNeighbors,
			Step:    1,
			Default: h.cfg.DefaultMinNeighbors,
		},
		Color:            h.cfg.DefaultRectColor,
		MinFaceSize:      h.cfg.MinFaceSize,
		AcceptedFormats:  []string{"jpg", "jpeg", "png"},
		MaxUploadBytes:   h.cfg.MaxUploadBytes,
		MaxImagePixels:   h.cfg.MaxImagePixels,
		DetectorBackend:  h.pipeline.DetectorName(),
		OutlineThickness: h.cfg.RectThickness,
	}
}

// @Summary Detection defaults
// @Description Parameter ranges, defaults and accepted upload formats
// @Tags detection
// @Produce json
// @Success 200 {object} DefaultsResponse
// @Router /api/defaults [get]
func (h *FaceHandler) Defaults(c *gin.Context) {
	c.JSON(http.StatusOK, h.defaults())
}

// readUpload decodes the multipart "file" field.
func (h *FaceHandler) readUpload(c *gin.Context) (*ingest.Upload, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		if statusFor(err) == http.StatusRequestEntityTooLarge {
			return nil, err
		}
		return nil, fmt.Errorf("%w: multipart field \"file\" is required", ingest.ErrEmpty)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	up, err := h.decoder.Decode(f, fh.Filename)
	if err != nil {
		h.metrics.ObserveUpload("rejected")
		return nil, err
	}
	h.metrics.ObserveUpload(string(up.Format))
	h.logger.Debug().
		Str("filename", up.Filename).
		Str("format", string(up.Format)).
		Int("bytes", up.Size).
		Int("width", up.Width()).
		Int("height", up.Height()).
		Msg("Upload decoded")
	return up, nil
}

func (h *FaceHandler) respondResult(c *gin.Context, status int, res *pipeline.Result, downloadURL string) {
	original, err := helpers.PreviewDataURL(res.Source, h.cfg.PreviewMaxWidth, h.cfg.PreviewMaxHeight)
	if err != nil {
		respondError(c, err)
		return
	}
	annotated, err := helpers.PreviewDataURL(res.Annotated, h.cfg.PreviewMaxWidth, h.cfg.PreviewMaxHeight)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(status, DetectionResponse{
		DetectionResult:  res.Detection,
		OriginalPreview:  original,
		AnnotatedPreview: annotated,
		DownloadURL:      downloadURL,
	})
}

func sendPNG(c *gin.Context, data []byte, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "image/png", data)
}

// @Summary One-shot detection
// @Description Upload an image and get the detection result without creating a session. With format=png the annotated PNG is returned as a download.
// @Tags detection
// @Accept multipart/form-data
// @Produce json
// @Produce png
// @Param file formData file true "JPG, JPEG or PNG image"
// @Param scale_factor formData number false "Scale factor, 1.1 to 2.0" default(1.3)
// @Param min_neighbors formData integer false "Min neighbors, 1 to 10" default(5)
// @Param color formData string false "Rectangle color #RRGGBB" default(#00FF00)
// @Param labels formData boolean false "Draw face numbers above boxes"
// @Param format query string false "json (default) or png"
// @Success 200 {object} DetectionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 415 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/detect [post]
func (h *FaceHandler) DetectOnce(c *gin.Context) {
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

	preq := pipeline.Request{
		Filename: up.Filename,
		Source:   up.Image,
		Params:   params,
		Color:    color,
		Labels:   req.labelsOr(false),
	}

	if c.Query("format") == "png" {
		data, filename, _, err := h.pipeline.Render(c.Request.Context(), preq)
		if err != nil {
			respondError(c, err)
			return
		}
		sendPNG(c, data, filename)
		return
	}

	res, err := h.pipeline.Run(c.Request.Context(), preq)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondResult(c, http.StatusOK, res, "")
}
