package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"daydreams-server/internal/service"
)

func (h *APIHandler) getSettings(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	settings, err := h.settings.Get(c.Request().Context(), userID)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, settings)
}

func (h *APIHandler) updateSettings(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	var req updateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid settings values"})
	}

	settings, err := h.settings.Update(c.Request().Context(), userID, service.SettingsUpdate{
		EnabledCategories: req.EnabledCategories,
		ReminderHour:      req.ReminderHour,
		ReminderMinute:    req.ReminderMinute,
		Timezone:          req.Timezone,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, settings)
}
