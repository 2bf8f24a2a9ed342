package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/observability/metrics"
)

// LoginPath is where an expired or rejected session is sent.
const LoginPath = "/login"

// ExpiredMessage is flashed when the backend rejects the session token.
const ExpiredMessage = "Session expired. Please login again."

// Context is the per-request view of the browser session. It owns the
// Store and the Identity derived from the stored token; every handler of the
// request shares the same instance.
type Context struct {
	store   Store
	decoder IdentityDecoder
	logger  *zap.Logger

	mu           sync.Mutex
	initializing bool
	token        string
	identity     *models.Identity
	redirect     string
	// flashes is used when the store cannot carry them itself.
	flashes []models.Flash
}

// New returns a Context that reports Initializing until Init is called.
func New(store Store, decoder IdentityDecoder, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{
		store:        store,
		decoder:      decoder,
		logger:       logger,
		initializing: true,
	}
}

// Init loads the stored token and decodes it. A token that does not decode
// is purged; the request continues without an identity.
func (s *Context) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.initializing = false }()

	token, ok := s.store.Read()
	if !ok {
		return
	}
	id, err := s.decoder.Decode(token)
	if err != nil {
		s.logger.Warn("Discarding undecodable session token", zap.Error(err))
		metrics.SessionResetsTotal.WithLabelValues("invalid_token").Inc()
		s.clearLocked()
		return
	}
	s.token = token
	s.identity = &id
}

func (s *Context) Initializing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initializing
}

// Identity returns the current identity, if any.
func (s *Context) Identity() (models.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

// Token returns the stored token for outbound requests.
func (s *Context) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// Login stores token and makes its identity current. On a decode failure
// nothing is left stored and the previous identity is dropped.
func (s *Context) Login(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.decoder.Decode(token)
	if err != nil {
		s.clearLocked()
		return err
	}
	if err := s.store.Save(token); err != nil {
		s.clearLocked()
		return err
	}
	s.token = token
	s.identity = &id
	return nil
}

// Logout clears the token and identity. Calling it without a session is a
// no-op.
func (s *Context) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// Invalidate tears the session down after the backend rejected the token
// and schedules a redirect to the login page. Without a session, or on a
// repeated call within one request, it only clears the store.
func (s *Context) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.redirect != "" || (s.token == "" && s.identity == nil) {
		s.clearLocked()
		return
	}
	if s.identity != nil {
		s.logger.Info("Backend rejected session token, logging out", zap.String("user_id", s.identity.ID))
	}
	metrics.SessionResetsTotal.WithLabelValues("unauthorized").Inc()
	s.clearLocked()
	s.redirect = LoginPath
	s.addFlashLocked(models.Flash{Text: ExpiredMessage, Type: "error"})
}

// Redirect reports a navigation forced by Invalidate.
func (s *Context) Redirect() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redirect, s.redirect != ""
}

// AddFlash queues a message for the next rendered page.
func (s *Context) AddFlash(text, kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addFlashLocked(models.Flash{Text: text, Type: kind})
}

// Flashes returns and consumes the pending messages.
func (s *Context) Flashes() []models.Flash {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.flashes
	s.flashes = nil
	if fs, ok := s.store.(FlashStore); ok {
		stored, err := fs.Flashes()
		if err != nil {
			s.logger.Warn("Failed to consume flash messages", zap.Error(err))
		}
		out = append(out, stored...)
	}
	return out
}

func (s *Context) addFlashLocked(f models.Flash) {
	if fs, ok := s.store.(FlashStore); ok {
		if err := fs.AddFlash(f); err != nil {
			s.logger.Warn("Failed to store flash message", zap.Error(err))
		} else {
			return
		}
	}
	s.flashes = append(s.flashes, f)
}

// forgetter is implemented by decoders that memoise identities.
type forgetter interface {
	Forget(token string)
}

func (s *Context) clearLocked() {
	if f, ok := s.decoder.(forgetter); ok && s.token != "" {
		f.Forget(s.token)
	}
	s.token = ""
	s.identity = nil
	if err := s.store.Clear(); err != nil {
		s.logger.Warn("Failed to clear session store", zap.Error(err))
	}
}
