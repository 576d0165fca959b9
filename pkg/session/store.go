package session

import (
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/james-see/basstab/pkg/tab"
)

// ErrNotFound is returned when a session ID is unknown
var ErrNotFound = errors.New("session not found")

// Store keeps sessions in memory keyed by UUID
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	log      *slog.Logger
}

// NewStore creates an empty store. A nil logger uses slog.Default().
func NewStore(log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{sessions: make(map[string]*Session), log: log}
}

// Create starts a session on a fresh tablature in time signature ts
func (st *Store) Create(title, artist string, ts tab.TimeSignature) *Session {
	return st.Import(title, artist, tab.NewWithTimeSignature(ts))
}

// Import starts a session on an existing tablature
func (st *Store) Import(title, artist string, t *tab.Tablature) *Session {
	s := newSession(uuid.NewString(), t)
	s.title, s.artist = title, artist

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	st.log.Info("session created", "id", s.ID, "title", title)
	return s
}

// Get looks up a session
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete removes a session
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(st.sessions, id)
	st.log.Info("session deleted", "id", id)
	return nil
}

// List returns summaries of all sessions, oldest first
func (st *Store) List() []Info {
	st.mu.RLock()
	sessions := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		sessions = append(sessions, s)
	}
	st.mu.RUnlock()

	infos := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, s.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].Created.Equal(infos[j].Created) {
			return infos[i].Created.Before(infos[j].Created)
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// Len returns the number of sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
