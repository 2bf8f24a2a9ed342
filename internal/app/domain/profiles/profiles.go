package profiles

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/domain"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/gateway"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/pages"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/session"
)

type ProfileAPI interface {
	GetUser(ctx context.Context, sess gateway.Session, id string) (models.User, error)
	UpdateUser(ctx context.Context, sess gateway.Session, id string, p models.UpdateProfileParams) error
}

type ProfilesHandler struct {
	*domain.BaseHandler
	api ProfileAPI
}

func NewProfilesHandler(base *domain.BaseHandler, api ProfileAPI) *ProfilesHandler {
	return &ProfilesHandler{BaseHandler: base, api: api}
}

const title = "Profile - Farmers Connect"

// ShowProfile renders the signed-in user's record; ?edit=1 shows the form.
func (h *ProfilesHandler) ShowProfile(c *gin.Context) {
	id, _ := h.Identity(c)
	sc := session.FromGin(c)

	user, err := h.api.GetUser(c.Request.Context(), sc, id.ID)
	if err != nil {
		h.Logger.Warn("Failed to fetch profile", zap.String("user_id", id.ID), zap.Error(err))
		h.RenderPage(c, title, "", pages.ProfilePage(pages.ProfileData{
			Alert: pages.Error("Failed to fetch user data"),
		}))
		return
	}

	h.RenderPage(c, title, "", pages.ProfilePage(pages.ProfileData{
		User:    user,
		Form:    models.ProfileParams(user),
		Editing: c.Query("edit") != "",
		Loaded:  true,
	}))
}

func (h *ProfilesHandler) UpdateProfile(c *gin.Context) {
	id, _ := h.Identity(c)
	sc := session.FromGin(c)

	var form models.UpdateProfileParams
	if err := c.ShouldBind(&form); err != nil {
		h.Logger.Warn("Failed to bind profile form", zap.Error(err))
	}
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.PhoneNumber = strings.TrimSpace(form.PhoneNumber)
	form.Address = strings.TrimSpace(form.Address)
	if form.Avatar == "" {
		form.Avatar = models.DefaultAvatar
	}

	user := models.User{
		ID:          id.ID,
		Name:        form.Name,
		Email:       form.Email,
		PhoneNumber: form.PhoneNumber,
		Address:     form.Address,
		Avatar:      form.Avatar,
		Role:        id.Role,
	}

	if err := h.api.UpdateUser(c.Request.Context(), sc, id.ID, form); err != nil {
		h.Logger.Warn("Failed to update profile", zap.String("user_id", id.ID), zap.Error(err))
		h.RenderPage(c, title, "", pages.ProfilePage(pages.ProfileData{
			User:    user,
			Form:    form,
			Editing: true,
			Loaded:  true,
			Alert:   pages.Error(gateway.MessageOf(err, "Failed to update profile")),
		}))
		return
	}

	h.Logger.Info("Profile updated", zap.String("user_id", id.ID))
	h.RenderPage(c, title, "", pages.ProfilePage(pages.ProfileData{
		User:   user,
		Form:   form,
		Loaded: true,
		Alert:  pages.Success("Profile updated successfully!"),
	}))
}
