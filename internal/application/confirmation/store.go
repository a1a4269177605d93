package confirmation

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Actor identidad verificada que emite comandos. Cada sesión (token) tiene su propio estado.
type Actor struct {
	UserID    string
	SessionID string
}

func (a Actor) key() string { return a.UserID + "/" + a.SessionID }

// SessionStore estado de confirmación por sesión, en memoria del proceso.
// Las sesiones inactivas caducan tras ttl y, con más de size sesiones, se descarta la menos usada.
type SessionStore struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *Session]
}

// NewSessionStore construye el store.
func NewSessionStore(size int, ttl time.Duration) *SessionStore {
	return &SessionStore{sessions: expirable.NewLRU[string, *Session](size, nil, ttl)}
}

// Get devuelve la sesión del actor, creándola si no existe, y renueva su caducidad.
func (st *SessionStore) Get(a Actor) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions.Get(a.key())
	if !ok {
		s = &Session{}
	}
	st.sessions.Add(a.key(), s)
	return s
}

// Lookup devuelve la sesión sin crearla.
func (st *SessionStore) Lookup(a Actor) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sessions.Get(a.key())
}

// Len número de sesiones vivas.
func (st *SessionStore) Len() int {
	return st.sessions.Len()
}
