package session

import (
	"encoding/gob"
	"sync"

	"github.com/gin-contrib/sessions"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
)

// TokenKey is the single session key the token is stored under.
const TokenKey = "token"

func init() {
	// Flashes travel through securecookie's gob codec.
	gob.Register(models.Flash{})
}

// Store persists the session token for one browser profile. Concurrent tabs
// share it; the last write wins.
type Store interface {
	Save(token string) error
	Read() (string, bool)
	Clear() error
}

// FlashStore is a Store that can also carry one-shot messages to the next
// rendered page.
type FlashStore interface {
	Store
	AddFlash(f models.Flash) error
	Flashes() ([]models.Flash, error)
}

// CookieStore keeps the token in the signed cookie session.
type CookieStore struct {
	session sessions.Session
}

func NewCookieStore(s sessions.Session) *CookieStore {
	return &CookieStore{session: s}
}

func (s *CookieStore) Save(token string) error {
	s.session.Set(TokenKey, token)
	return s.session.Save()
}

func (s *CookieStore) Read() (string, bool) {
	token, ok := s.session.Get(TokenKey).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func (s *CookieStore) Clear() error {
	s.session.Delete(TokenKey)
	return s.session.Save()
}

func (s *CookieStore) AddFlash(f models.Flash) error {
	s.session.AddFlash(f)
	return s.session.Save()
}

func (s *CookieStore) Flashes() ([]models.Flash, error) {
	raw := s.session.Flashes()
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]models.Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(models.Flash); ok {
			out = append(out, f)
		}
	}
	return out, s.session.Save()
}

// MemoryStore is a process-local Store. Tests use it in place of the cookie.
type MemoryStore struct {
	mu      sync.Mutex
	token   string
	flashes []models.Flash
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Read() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

func (s *MemoryStore) AddFlash(f models.Flash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flashes = append(s.flashes, f)
	return nil
}

func (s *MemoryStore) Flashes() ([]models.Flash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.flashes
	s.flashes = nil
	return out, nil
}
