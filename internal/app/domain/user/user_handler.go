package user

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/domain"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/gateway"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/middleware"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/pages"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/session"
)

// UserAdminAPI is the admin surface of the backend user service.
type UserAdminAPI interface {
	ListUsers(ctx context.Context, sess gateway.Session) ([]models.User, error)
	UpdateRole(ctx context.Context, sess gateway.Session, id string, role models.Role) error
	DeleteUser(ctx context.Context, sess gateway.Session, id string) error
}

type UserHandlers struct {
	*domain.BaseHandler
	api UserAdminAPI
}

func NewUserHandlers(base *domain.BaseHandler, api UserAdminAPI) *UserHandlers {
	return &UserHandlers{BaseHandler: base, api: api}
}

const title = "Admin Panel - Farmers Connect"

// listFailureMessage words a failed user listing for the admin banner.
func listFailureMessage(err error) string {
	switch gateway.StatusOf(err) {
	case http.StatusBadRequest:
		return "Invalid request. Please check your input."
	case http.StatusUnauthorized:
		return session.ExpiredMessage
	case http.StatusForbidden:
		return "You do not have permission to access this resource."
	case http.StatusNotFound:
		return "User data not found."
	case http.StatusInternalServerError:
		return "Server error. Please try again later."
	default:
		return gateway.MessageOf(err, "An error occurred while fetching users.")
	}
}

func (h *UserHandlers) ShowAdmin(c *gin.Context) {
	users, err := h.listUsers(c)
	if err != nil {
		h.listFailed(c, err)
		return
	}
	h.renderAdmin(c, users, nil)
}

// listFailed surfaces a listing failure. A 403 sends the user home with the
// message as a flash; a 401 has already queued the login navigation.
func (h *UserHandlers) listFailed(c *gin.Context, err error) {
	msg := listFailureMessage(err)
	if gateway.StatusOf(err) == http.StatusForbidden {
		session.FromGin(c).AddFlash(msg, "error")
		middleware.Navigate(c, "/")
		return
	}
	h.renderAdmin(c, nil, pages.Error(msg))
}

func (h *UserHandlers) UpdateRole(c *gin.Context) {
	userID := c.Param("id")
	role, err := models.ParseRole(c.PostForm("role"))
	if err == nil && !role.Valid() {
		err = models.ErrInvalidRole
	}

	var alert *pages.Alert
	if err != nil {
		h.Logger.Warn("Rejected role value", zap.String("role", c.PostForm("role")), zap.Error(err))
		alert = pages.Error("Failed to update user role")
	} else if err := h.api.UpdateRole(c.Request.Context(), session.FromGin(c), userID, role); err != nil {
		h.Logger.Warn("Failed to update role", zap.String("target_id", userID), zap.Error(err))
		alert = pages.Error(gateway.MessageOf(err, "Failed to update user role"))
	} else {
		h.Logger.Info("User role updated", zap.String("target_id", userID), zap.String("role", role.String()))
		alert = pages.Success("User role updated successfully")
	}
	h.refresh(c, alert)
}

func (h *UserHandlers) DeleteUser(c *gin.Context) {
	userID := c.Param("id")

	var alert *pages.Alert
	if err := h.api.DeleteUser(c.Request.Context(), session.FromGin(c), userID); err != nil {
		h.Logger.Warn("Failed to delete user", zap.String("target_id", userID), zap.Error(err))
		alert = pages.Error(gateway.MessageOf(err, "Failed to delete user"))
	} else {
		h.Logger.Info("User deleted", zap.String("target_id", userID))
		alert = pages.Success("User deleted successfully")
	}
	h.refresh(c, alert)
}

// refresh re-fetches the list after a mutation. The mutation's outcome
// stays the banner; a failed re-fetch only empties the table.
func (h *UserHandlers) refresh(c *gin.Context, alert *pages.Alert) {
	if _, pending := session.FromGin(c).Redirect(); pending {
		h.renderAdmin(c, nil, alert)
		return
	}
	users, err := h.listUsers(c)
	if err != nil {
		h.Logger.Warn("Failed to re-fetch users", zap.Error(err))
		if gateway.StatusOf(err) == http.StatusForbidden {
			h.listFailed(c, err)
			return
		}
	}
	h.renderAdmin(c, users, alert)
}

func (h *UserHandlers) listUsers(c *gin.Context) ([]models.User, error) {
	return h.api.ListUsers(c.Request.Context(), session.FromGin(c))
}

func (h *UserHandlers) renderAdmin(c *gin.Context, users []models.User, alert *pages.Alert) {
	id, _ := h.Identity(c)
	h.RenderPage(c, title, "", pages.AdminPage(pages.AdminData{
		Users:     users,
		CurrentID: id.ID,
		Alert:     alert,
	}))
}
