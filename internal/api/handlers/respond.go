package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"facelens-go/internal/helpers"
	"facelens-go/internal/logging"
	"facelens-go/internal/models"
	"facelens-go/internal/services/detection"
	"facelens-go/internal/services/ingest"
	"facelens-go/internal/services/session"
)

const modelHint = "Make sure the face detection model data is installed and the cascade path (PIGO_CASCADE_PATH / HAAR_CASCADE_PATH) points at it."

type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"invalid color: \"#00FF0\" must look like #RRGGBB"`
	Hint    string `json:"hint,omitempty"`
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	var cfgErr *detection.ConfigurationError
	var maxBytes *http.MaxBytesError
	var verrs validator.ValidationErrors

	switch {
	case errors.As(err, &cfgErr):
		return http.StatusServiceUnavailable
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ingest.ErrTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ingest.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, helpers.ErrInvalidColor),
		errors.Is(err, models.ErrInvalidParameters),
		errors.Is(err, ingest.ErrEmpty),
		errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Success: false, Error: err.Error()}

	var cfgErr *detection.ConfigurationError
	if errors.As(err, &cfgErr) {
		resp.Error = "Error loading face detection model: " + err.Error()
		resp.Hint = modelHint
	}
	if status == http.StatusInternalServerError {
		resp.Error = "Internal server error"
	}

	ev := logging.Warn(c)
	if status >= http.StatusInternalServerError {
		ev = logging.Error(c)
	}
	ev.Err(err).Int("status", status).Str("path", c.Request.URL.Path).Msg("Request failed")

	c.AbortWithStatusJSON(status, resp)
}
