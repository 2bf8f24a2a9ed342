package weather

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/domain"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/gateway"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/pages"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/session"
)

type ForecastAPI interface {
	WeatherForecast(ctx context.Context, sess gateway.Session) ([]models.Forecast, error)
}

type WeatherHandlers struct {
	*domain.BaseHandler
	api ForecastAPI
}

func NewWeatherHandlers(base *domain.BaseHandler, api ForecastAPI) *WeatherHandlers {
	return &WeatherHandlers{BaseHandler: base, api: api}
}

func (h *WeatherHandlers) ShowWeather(c *gin.Context) {
	var data pages.WeatherData
	forecasts, err := h.api.WeatherForecast(c.Request.Context(), session.FromGin(c))
	if err != nil {
		h.Logger.Warn("Failed to fetch weather forecast", zap.Error(err))
		data.Alert = pages.Error("Failed to fetch weather data")
	} else {
		data.Forecasts = forecasts
	}
	h.RenderPage(c, "Weather - Farmers Connect", "Weather", pages.WeatherPage(data))
}
