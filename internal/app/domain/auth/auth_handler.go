package auth

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/backend"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/domain"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/gateway"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/middleware"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/observability/metrics"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/pages"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/session"
)

// AuthAPI is the part of the backend the login and registration views use.
type AuthAPI interface {
	Login(ctx context.Context, sess gateway.Session, creds backend.Credentials) (backend.LoginResult, error)
	Register(ctx context.Context, sess gateway.Session, r backend.Registration) (backend.RegisterResult, error)
}

type LoginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type AuthHandlers struct {
	*domain.BaseHandler
	api       AuthAPI
	validator *formValidator
}

func NewAuthHandlers(base *domain.BaseHandler, api AuthAPI) *AuthHandlers {
	return &AuthHandlers{
		BaseHandler: base,
		api:         api,
		validator:   newFormValidator(),
	}
}

func (h *AuthHandlers) ShowLoginPage(c *gin.Context) {
	h.RenderPage(c, "Login - Farmers Connect", "Login", pages.LoginPage(pages.LoginData{}))
}

func (h *AuthHandlers) LoginHandler(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderLogin(c, form.Email, "Email and password are required")
		return
	}

	res, err := h.api.Login(c.Request.Context(), session.FromGin(c), backend.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		h.Logger.Warn("Login request failed", zap.Error(err))
		h.renderLogin(c, form.Email, gateway.MessageOf(err, "Login failed"))
		return
	}
	if !res.Flag {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		msg := res.Message
		if msg == "" {
			msg = "Login failed"
		}
		h.renderLogin(c, form.Email, msg)
		return
	}

	sc := session.FromGin(c)
	if err := sc.Login(res.Token); err != nil {
		metrics.LoginsTotal.WithLabelValues("bad_token").Inc()
		h.Logger.Error("Backend issued an undecodable token", zap.Error(err))
		h.renderLogin(c, form.Email, "Error processing login. Please try again.")
		return
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	if id, ok := sc.Identity(); ok {
		h.Logger.Info("User logged in", zap.String("user_id", id.ID), zap.String("role", id.Role.String()))
	}
	middleware.RedirectAfterPost(c, "/")
}

func (h *AuthHandlers) renderLogin(c *gin.Context, email, msg string) {
	keepAcrossRedirect(c, msg)
	h.RenderPage(c, "Login - Farmers Connect", "Login", pages.LoginPage(pages.LoginData{
		Email: email,
		Alert: pages.Error(msg),
	}))
}

func (h *AuthHandlers) ShowRegisterPage(c *gin.Context) {
	h.RenderPage(c, "Register - Farmers Connect", "Register", pages.RegisterPage(pages.RegisterData{}))
}

func (h *AuthHandlers) RegisterHandler(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		h.Logger.Warn("Failed to bind registration form", zap.Error(err))
	}
	form.normalize()

	fieldErrs, err := h.validator.Validate(form)
	if err != nil {
		h.Logger.Error("Registration validation failed unexpectedly", zap.Error(err))
		h.renderRegister(c, form, nil, "Registration failed")
		return
	}
	if len(fieldErrs) > 0 {
		h.renderRegister(c, form, fieldErrs, "Please fix the errors before submitting.")
		return
	}

	res, err := h.api.Register(c.Request.Context(), session.FromGin(c), backend.Registration{
		Name:            form.Name,
		Email:           form.Email,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
		PhoneNumber:     form.PhoneNumber,
		Address:         form.Address,
	})
	if err != nil {
		h.Logger.Warn("Registration request failed", zap.Error(err))
		h.renderRegister(c, form, nil, gateway.MessageOf(err, "Registration failed"))
		return
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "Registration failed"
		}
		h.renderRegister(c, form, nil, msg)
		return
	}

	session.FromGin(c).AddFlash("Registration successful! Please login.", "success")
	middleware.RedirectAfterPost(c, "/login")
}

func (h *AuthHandlers) renderRegister(c *gin.Context, form RegisterForm, fieldErrs map[string]string, msg string) {
	keepAcrossRedirect(c, msg)
	h.RenderPage(c, "Register - Farmers Connect", "Register", pages.RegisterPage(pages.RegisterData{
		Values: form.values(),
		Errors: fieldErrs,
		Alert:  pages.Error(msg),
	}))
}

// keepAcrossRedirect flashes msg when a rejected session has already queued
// the login navigation, since the form it belongs to will not be rendered.
func keepAcrossRedirect(c *gin.Context, msg string) {
	sc := session.FromGin(c)
	if _, pending := sc.Redirect(); pending && msg != session.ExpiredMessage {
		sc.AddFlash(msg, "error")
	}
}

// LogoutHandler clears the session without contacting the backend.
func (h *AuthHandlers) LogoutHandler(c *gin.Context) {
	session.FromGin(c).Logout()
	middleware.RedirectAfterPost(c, "/login")
}
