package home

import (
	"github.com/gin-gonic/gin"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/domain"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/pages"
)

type HomeHandlers struct {
	*domain.BaseHandler
}

func NewHomeHandlers(base *domain.BaseHandler) *HomeHandlers {
	return &HomeHandlers{BaseHandler: base}
}

func (h *HomeHandlers) ShowHomePage(c *gin.Context) {
	var id *models.Identity
	if identity, ok := h.Identity(c); ok {
		id = &identity
	}
	h.RenderPage(c, "Farmers Connect", "Home", pages.HomePage(id))
}
