package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/backend"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/middleware"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/session"
	"github.com/farmersconnect/farmers-connect-ui/internal/pkg/config"
	"github.com/farmersconnect/farmers-connect-ui/internal/routes"
)

// SetupRouter configures and returns the Gin router with all middleware and routes
func SetupRouter(cfg *config.Config, api *backend.Client, decoder session.IdentityDecoder, logger *zap.Logger) *gin.Engine {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context:    zapContextFunc(),
		SkipPaths:  []string{"/healthz"},
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(middleware.OTELGinMiddleware(cfg.ServiceName))
	r.Use(middleware.ObservabilityMiddleware())
	r.Use(middleware.SecurityMiddleware())
	r.Use(sessions.Sessions(cfg.Session.Name, newCookieStore(cfg.Session)))
	r.Use(session.Middleware(decoder, logger))

	SetupAssets(r)
	routes.Setup(r, api, logger)

	return r
}

// newCookieStore signs the session cookie with the configured secret. The
// cookie carries only the backend token and pending flash messages.
func newCookieStore(cfg config.SessionConfig) cookie.Store {
	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// zapContextFunc adds request and trace ids to the access log. Request
// bodies are never logged: they carry passwords.
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{}

		if requestID := c.Writer.Header().Get(middleware.RequestIDHeader); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			fields = append(fields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}

		return fields
	}
}
