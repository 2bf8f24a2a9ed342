package settings

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/backend"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/domain"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/gateway"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/pages"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/session"
)

type PasswordAPI interface {
	UpdatePassword(ctx context.Context, sess gateway.Session, id string, p backend.PasswordChange) error
}

type PasswordForm struct {
	CurrentPassword string `form:"currentPassword" binding:"required"`
	NewPassword     string `form:"newPassword" binding:"required"`
	ConfirmPassword string `form:"confirmPassword" binding:"required"`
}

type SettingsHandlers struct {
	*domain.BaseHandler
	api PasswordAPI
}

func NewSettingsHandlers(base *domain.BaseHandler, api PasswordAPI) *SettingsHandlers {
	return &SettingsHandlers{BaseHandler: base, api: api}
}

func (h *SettingsHandlers) ShowSettings(c *gin.Context) {
	h.renderSettings(c, nil)
}

func (h *SettingsHandlers) UpdatePassword(c *gin.Context) {
	var form PasswordForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderSettings(c, pages.Error("All fields are required"))
		return
	}
	if form.NewPassword != form.ConfirmPassword {
		h.renderSettings(c, pages.Error("New passwords do not match"))
		return
	}

	id, _ := h.Identity(c)
	err := h.api.UpdatePassword(c.Request.Context(), session.FromGin(c), id.ID, backend.PasswordChange{
		CurrentPassword: form.CurrentPassword,
		NewPassword:     form.NewPassword,
	})
	if err != nil {
		h.Logger.Warn("Failed to update password", zap.String("user_id", id.ID), zap.Error(err))
		h.renderSettings(c, pages.Error(gateway.MessageOf(err, "Failed to update password")))
		return
	}

	h.Logger.Info("Password updated", zap.String("user_id", id.ID))
	h.renderSettings(c, pages.Success("Password updated successfully"))
}

func (h *SettingsHandlers) renderSettings(c *gin.Context, alert *pages.Alert) {
	h.RenderPage(c, "Settings - Farmers Connect", "", pages.SettingsPage(pages.SettingsData{Alert: alert}))
}
