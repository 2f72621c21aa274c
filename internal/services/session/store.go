package session

import (
	"errors"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"facelens-go/internal/models"
)

var ErrNotFound = errors.New("session not found")

// Session is the per-user state the page works against: the uploaded image
// and the current slider and color picker positions.
type Session struct {
	ID         string
	Filename   string
	Source     *image.NRGBA
	Params     models.DetectionParameters
	Color      string
	Labels     bool
	CreatedAt  time.Time
	LastAccess time.Time
}

// snapshot returns a copy safe to hand out of the store.
func (s *Session) snapshot() Session {
	return *s
}

// Store keeps sessions in an LRU with an idle timeout. Every successful Get
// or Update renews the timeout; when the store is full the least recently
// used session is dropped.
type Store struct {
	// mu serializes read-modify-write on the *Session values
	mu    sync.Mutex
	cache *expirable.LRU[string, *Session]
	now   func() time.Time
}

// NewStore builds a store. maxSessions <= 0 means unbounded and ttl <= 0
// means sessions never expire.
func NewStore(ttl time.Duration, maxSessions int) *Store {
	if maxSessions < 0 {
		maxSessions = 0
	}
	onEvict := func(id string, _ *Session) {
		log.Debug().Str("session_id", id).Msg("Session dropped from store")
	}
	return &Store{
		cache: expirable.NewLRU[string, *Session](maxSessions, onEvict, ttl),
		now:   time.Now,
	}
}

func (st *Store) Create(filename string, src *image.NRGBA, params models.DetectionParameters, color string, labels bool) Session {
	now := st.now()
	s := &Session{
		ID:         uuid.NewString(),
		Filename:   filename,
		Source:     src,
		Params:     params,
		Color:      color,
		Labels:     labels,
		CreatedAt:  now,
		LastAccess: now,
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if evicted := st.cache.Add(s.ID, s); evicted {
		log.Debug().Int("sessions", st.cache.Len()).Msg("Session store full, evicted least recently used")
	}
	return s.snapshot()
}

func (st *Store) Get(id string) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.cache.Get(id)
	if !ok {
		return Session{}, ErrNotFound
	}
	s.LastAccess = st.now()
	// Get alone does not push the expiry out
	st.cache.Add(id, s)
	return s.snapshot(), nil
}

// Update applies new parameters to an existing session.
func (st *Store) Update(id string, params models.DetectionParameters, color string, labels bool) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.cache.Get(id)
	if !ok {
		return Session{}, ErrNotFound
	}
	s.Params = params
	s.Color = color
	s.Labels = labels
	s.LastAccess = st.now()
	st.cache.Add(id, s)
	return s.snapshot(), nil
}

func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.cache.Remove(id)
}

// Len counts stored sessions, including expired ones not yet cleaned up.
func (st *Store) Len() int {
	return st.cache.Len()
}
