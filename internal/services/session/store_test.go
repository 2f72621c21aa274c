package session

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facelens-go/internal/models"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestStore(ttl time.Duration, max int) (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	st := NewStore(ttl, max)
	st.now = clock.now
	return st, clock
}

func TestCreateGetUpdate(t *testing.T) {
	st, clock := newTestStore(time.Minute, 0)
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	s := st.Create("a.png", img, models.DefaultParameters(), "#00FF00", false)
	require.NotEmpty(t, s.ID)

	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.png", got.Filename)
	assert.Same(t, img, got.Source)

	clock.t = clock.t.Add(30 * time.Second)
	upd, err := st.Update(s.ID, models.DetectionParameters{ScaleFactor: 1.5, MinNeighbors: 2}, "#FF0000", true)
	require.NoError(t, err)
	assert.Equal(t, 2, upd.Params.MinNeighbors)
	assert.Equal(t, "#FF0000", upd.Color)
	assert.True(t, upd.Labels)
	assert.Equal(t, clock.t, upd.LastAccess)

	// returned values are copies
	upd.Color = "#000000"
	again, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "#FF0000", again.Color)
}

func TestSessionsAreIsolated(t *testing.T) {
	st, _ := newTestStore(time.Minute, 0)
	a := st.Create("a.png", nil, models.DefaultParameters(), "#00FF00", false)
	b := st.Create("b.png", nil, models.DefaultParameters(), "#00FF00", false)

	_, err := st.Update(a.ID, models.DetectionParameters{ScaleFactor: 2.0, MinNeighbors: 10}, "#0000FF", false)
	require.NoError(t, err)

	got, err := st.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultParameters(), got.Params)
	assert.Equal(t, "#00FF00", got.Color)
}

func TestExpiry(t *testing.T) {
	st := NewStore(50*time.Millisecond, 0)
	old := st.Create("old.png", nil, models.DefaultParameters(), "#00FF00", false)

	require.Eventually(t, func() bool {
		_, err := st.Get(old.ID)
		return errors.Is(err, ErrNotFound)
	}, time.Second, 10*time.Millisecond)

	_, err := st.Update(old.ID, models.DefaultParameters(), "#00FF00", false)
	assert.True(t, errors.Is(err, ErrNotFound))
	// expired entries are cleaned up in the background
	assert.Eventually(t, func() bool { return st.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestAccessRenewsIdleTimeout(t *testing.T) {
	st := NewStore(300*time.Millisecond, 0)
	active := st.Create("active.png", nil, models.DefaultParameters(), "#00FF00", false)
	idle := st.Create("idle.png", nil, models.DefaultParameters(), "#00FF00", false)

	time.Sleep(200 * time.Millisecond)
	_, err := st.Get(active.ID)
	require.NoError(t, err)

	time.Sleep(200 * time.Millisecond)
	_, err = st.Get(idle.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = st.Get(active.ID)
	assert.NoError(t, err)
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	st, clock := newTestStore(time.Hour, 2)
	a := st.Create("a.png", nil, models.DefaultParameters(), "#00FF00", false)
	clock.t = clock.t.Add(time.Second)
	b := st.Create("b.png", nil, models.DefaultParameters(), "#00FF00", false)
	clock.t = clock.t.Add(time.Second)
	_, err := st.Get(a.ID)
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Second)
	c := st.Create("c.png", nil, models.DefaultParameters(), "#00FF00", false)

	assert.Equal(t, 2, st.Len())
	_, err = st.Get(b.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = st.Get(a.ID)
	assert.NoError(t, err)
	_, err = st.Get(c.ID)
	assert.NoError(t, err)
}

func TestDelete(t *testing.T) {
	st, _ := newTestStore(time.Minute, 0)
	s := st.Create("a.png", nil, models.DefaultParameters(), "#00FF00", false)

	assert.True(t, st.Delete(s.ID))
	assert.False(t, st.Delete(s.ID))
	_, err := st.Get(s.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
