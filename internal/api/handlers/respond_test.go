package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facelens-go/internal/helpers"
	"facelens-go/internal/models"
	"facelens-go/internal/services/detection"
	"facelens-go/internal/services/ingest"
	"facelens-go/internal/services/session"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&detection.ConfigurationError{Backend: "haar", Err: errors.New("missing")}, http.StatusServiceUnavailable},
		{fmt.Errorf("run: %w", &detection.ConfigurationError{Backend: "pigo", Err: errors.New("missing")}), http.StatusServiceUnavailable},
		{session.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: a.bmp", ingest.ErrUnsupportedFormat), http.StatusUnsupportedMediaType},
		{ingest.ErrTooLarge, http.StatusRequestEntityTooLarge},
		{&http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{ingest.ErrDecode, http.StatusUnprocessableEntity},
		{helpers.ErrInvalidColor, http.StatusBadRequest},
		{models.ErrInvalidParameters, http.StatusBadRequest},
		{ingest.ErrEmpty, http.StatusBadRequest},
		{context.DeadlineExceeded, http.StatusRequestTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func ptr[T any](v T) *T { return &v }

func TestParamsRequestResolve(t *testing.T) {
	base := models.DetectionParameters{ScaleFactor: 1.5, MinNeighbors: 4}

	params, color, err := ParamsRequest{}.resolve(base, "#112233")
	require.NoError(t, err)
	assert.Equal(t, base, params)
	assert.Equal(t, "#112233", color)

	params, color, err = ParamsRequest{MinNeighbors: ptr(9), Color: "#abcdef"}.resolve(base, "#112233")
	require.NoError(t, err)
	assert.Equal(t, models.DetectionParameters{ScaleFactor: 1.5, MinNeighbors: 9}, params)
	assert.Equal(t, "#ABCDEF", color)

	_, _, err = ParamsRequest{ScaleFactor: ptr(2.01)}.resolve(base, "#112233")
	assert.ErrorIs(t, err, models.ErrInvalidParameters)

	_, _, err = ParamsRequest{Color: "#12345"}.resolve(base, "#112233")
	assert.ErrorIs(t, err, helpers.ErrInvalidColor)
}
