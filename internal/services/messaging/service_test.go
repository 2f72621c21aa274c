package messaging

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facelens-go/internal/config"
	"facelens-go/internal/models"
)

// Needs a running broker: set FACELENS_TEST_NATS_URL, e.g. nats://localhost:4222.
func TestPublishDetectionRoundTrip(t *testing.T) {
	url := os.Getenv("FACELENS_TEST_NATS_URL")
	if url == "" {
		t.Skip("FACELENS_TEST_NATS_URL not set")
	}

	cfg := config.Load()
	cfg.NatsURL = url
	cfg.NatsSubject = "facelens.test." + time.Now().Format("150405.000000")
	cfg.NatsMaxReconnects = 0

	svc, err := NewService(cfg)
	require.NoError(t, err)
	defer svc.Shutdown(context.Background())
	require.True(t, svc.IsConnected())

	got := make(chan []byte, 1)
	sub, err := svc.Subscribe(svc.Subject(), func(b []byte) { got <- b })
	require.NoError(t, err)
	defer sub.Unsubscribe()

	event := models.FaceDetectionEvent{
		InstanceID: cfg.InstanceID,
		Backend:    "pigo",
		Count:      1,
		Regions:    []models.Region{{X: 1, Y: 2, Width: 30, Height: 30}},
		Params:     models.DefaultParameters(),
	}
	require.NoError(t, svc.PublishDetection(event))

	select {
	case raw := <-got:
		var decoded models.FaceDetectionEvent
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, 1, decoded.Count)
		assert.Equal(t, event.Regions, decoded.Regions)
	case <-time.After(2 * time.Second):
		t.Fatal("detection event not received")
	}
}

func TestNewServiceUnreachable(t *testing.T) {
	cfg := config.Load()
	cfg.NatsURL = "nats://127.0.0.1:1"
	cfg.NatsConnectTimeout = 200 * time.Millisecond
	cfg.NatsMaxReconnects = 0

	_, err := NewService(cfg)
	assert.Error(t, err)
}
