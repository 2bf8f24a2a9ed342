package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/backend"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/domain"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/domain/auth"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/domain/home"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/domain/profiles"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/domain/settings"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/domain/user"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/domain/weather"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/middleware"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
)

type AppHandlers struct {
	Home     *home.HomeHandlers
	Auth     *auth.AuthHandlers
	Profiles *profiles.ProfilesHandler
	Settings *settings.SettingsHandlers
	User     *user.UserHandlers
	Weather  *weather.WeatherHandlers
}

// Setup registers every page of the app on r. The session middleware must
// already be installed.
func Setup(r *gin.Engine, api *backend.Client, log *zap.Logger) {
	setupRouter(r, setupDependencies(api, log))
}

func setupDependencies(api *backend.Client, log *zap.Logger) *AppHandlers {
	baseHandler := domain.NewBaseHandler(log)

	return &AppHandlers{
		Home:     home.NewHomeHandlers(baseHandler),
		Auth:     auth.NewAuthHandlers(baseHandler, api),
		Profiles: profiles.NewProfilesHandler(baseHandler, api),
		Settings: settings.NewSettingsHandlers(baseHandler, api),
		User:     user.NewUserHandlers(baseHandler, api),
		Weather:  weather.NewWeatherHandlers(baseHandler, api),
	}
}

func setupRouter(r *gin.Engine, h *AppHandlers) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", h.Home.ShowHomePage)

	// Public auth routes
	r.GET("/login", h.Auth.ShowLoginPage)
	r.POST("/login", h.Auth.LoginHandler)
	r.GET("/register", h.Auth.ShowRegisterPage)
	r.POST("/register", h.Auth.RegisterHandler)
	r.POST("/logout", h.Auth.LogoutHandler)

	protected := r.Group("/")
	protected.Use(middleware.RequireSession())
	{
		protected.GET("/weather", h.Weather.ShowWeather)

		protected.GET("/profile", h.Profiles.ShowProfile)
		protected.POST("/profile", h.Profiles.UpdateProfile)

		protected.GET("/settings", h.Settings.ShowSettings)
		protected.POST("/settings/password", h.Settings.UpdatePassword)

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireRole("/", models.RoleAdmin))
		{
			admin.GET("", h.User.ShowAdmin)
			admin.POST("/users/:id/role", h.User.UpdateRole)
			admin.POST("/users/:id/delete", h.User.DeleteUser)
		}
	}
}
