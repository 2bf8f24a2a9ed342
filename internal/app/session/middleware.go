package session

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
)

// ContextKey is the gin context key holding the request's *Context.
const ContextKey = "session"

type options struct {
	storeFunc func(c *gin.Context) Store
}

type Option func(*options)

// WithStoreFunc replaces the cookie-backed store, e.g. with a MemoryStore in
// tests.
func WithStoreFunc(fn func(c *gin.Context) Store) Option {
	return func(o *options) { o.storeFunc = fn }
}

// Middleware installs a Context on every request and initializes it before
// any handler runs. It must come after sessions.Sessions unless a store
// func is supplied.
func Middleware(decoder IdentityDecoder, logger *zap.Logger, opts ...Option) gin.HandlerFunc {
	o := options{
		storeFunc: func(c *gin.Context) Store {
			return NewCookieStore(sessions.Default(c))
		},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return func(c *gin.Context) {
		sc := New(o.storeFunc(c), decoder, logger)
		sc.Init()
		c.Set(ContextKey, sc)
		c.Next()
	}
}

// FromGin returns the request's Context. Outside Middleware it returns an
// anonymous Context whose Login always fails.
func FromGin(c *gin.Context) *Context {
	if v, ok := c.Get(ContextKey); ok {
		if sc, ok := v.(*Context); ok {
			return sc
		}
	}
	sc := New(NewMemoryStore(), rejectAll{}, nil)
	sc.Init()
	c.Set(ContextKey, sc)
	return sc
}

type rejectAll struct{}

func (rejectAll) Decode(string) (models.Identity, error) {
	return models.Identity{}, models.ErrNoSession
}
