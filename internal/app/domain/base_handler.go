package domain

import (
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/middleware"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/observability/metrics"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/pages"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/session"
)

type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaseHandler{Logger: logger}
}

func (h *BaseHandler) newLayoutData(c *gin.Context, title, activeNav string, content templ.Component) models.LayoutTempl {
	sc := session.FromGin(c)
	layout := models.LayoutTempl{
		Title:     title,
		Content:   content,
		Nav:       models.MainNav,
		ActiveNav: activeNav,
		Flashes:   sc.Flashes(),
	}
	if id, ok := sc.Identity(); ok {
		layout.Identity = &id
		if item, ok := models.RoleNavItem(id.Role); ok {
			layout.RoleLink = &item
		}
	}
	return layout
}

func (h *BaseHandler) render(c *gin.Context, status int, component templ.Component) {
	start := time.Now()
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		h.Logger.Error("Failed to render page", zap.String("path", c.FullPath()), zap.Error(err))
	}
	metrics.Get().TemplateRenderDuration.Record(c.Request.Context(), time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("route", c.FullPath())))
}

// RenderPage renders content inside the layout. A navigation forced by the
// session (the backend rejected the token) wins over rendering.
// hx-boost swaps the body, so htmx requests get the full layout too.
func (h *BaseHandler) RenderPage(c *gin.Context, title, activeNav string, content templ.Component) {
	if to, ok := session.FromGin(c).Redirect(); ok {
		middleware.Navigate(c, to)
		return
	}
	h.render(c, http.StatusOK, pages.LayoutPage(h.newLayoutData(c, title, activeNav, content)))
}

// Identity returns the session identity. Handlers behind RequireSession
// always have one.
func (h *BaseHandler) Identity(c *gin.Context) (models.Identity, bool) {
	return session.FromGin(c).Identity()
}
