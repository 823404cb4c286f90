package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *APIHandler) registerDevice(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	var req registerDeviceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Token and platform (ios|android) are required"})
	}

	if err := h.devices.Register(c.Request().Context(), userID, req.Token, req.Platform); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *APIHandler) unregisterDevice(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	token := c.Param("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Token is required"})
	}

	if err := h.devices.Unregister(c.Request().Context(), userID, token); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
