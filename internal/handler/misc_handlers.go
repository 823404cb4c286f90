package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *APIHandler) serveWS(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return h.wsManager.ServeWS(c.Response(), c.Request(), userID)
}

// getWeatherKey выдает клиенту ключ погодного API из динамической
// конфигурации. Клиент ходит за погодой напрямую, ключ в приложение
// не зашивается.
func (h *APIHandler) getWeatherKey(c echo.Context) error {
	if _, err := getUserIDFromContext(c); err != nil {
		return h.handleServiceError(c, err)
	}

	key, err := h.cfg.WeatherAPIKey(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusNotFound, APIError{Message: "Weather API key is not configured"})
	}

	return c.JSON(http.StatusOK, weatherKeyResponse{APIKey: key})
}
