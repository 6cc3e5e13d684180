package handlers

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/soltix-forecast/internal/analytics/forecast"
	"github.com/soltixdb/soltix-forecast/internal/middleware"
	"github.com/soltixdb/soltix-forecast/internal/models"
	"github.com/soltixdb/soltix-forecast/internal/services"
)

// Forecast handles forecast requests
// POST /forecast
// POST /v1/forecast
func (h *Handler) Forecast(c *fiber.Ctx) error {
	var payload models.ForecastPayload
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return services.ErrInvalidBody(err)
	}

	req, err := services.ParseForecastPayload(payload)
	if err != nil {
		return err
	}
	req.User = middleware.CurrentUser(c)

	resp, err := h.forecastService.Execute(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.JSON(models.ForecastResponse{Forecast: resp.Forecast})
}

// Methods lists the registered forecasting methods
// GET /v1/methods
func (h *Handler) Methods(c *fiber.Ctx) error {
	names := forecast.ListForecasters()
	methods := make([]models.MethodInfo, 0, len(names))
	for _, name := range names {
		f, err := forecast.GetForecaster(name)
		if err != nil {
			continue
		}
		methods = append(methods, models.MethodInfo{
			Name:          f.Name(),
			Description:   f.Description(),
			RequiredParam: f.RequiredParam(),
		})
	}

	return c.JSON(models.MethodListResponse{
		Methods: methods,
		Horizon: forecast.Horizon,
	})
}
