package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *APIHandler) createInvitation(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	invitation, err := h.partnerships.CreateInvitation(c.Request().Context(), userID)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	invitationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, invitation)
}

func (h *APIHandler) acceptInvitation(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	var req acceptInvitationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid invitation code"})
	}

	partnership, err := h.partnerships.AcceptInvitation(c.Request().Context(), userID, req.Code)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	invitationsTotal.WithLabelValues("accepted").Inc()
	return c.JSON(http.StatusCreated, partnership)
}

func (h *APIHandler) rejectInvitation(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	var req rejectInvitationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid invitation code"})
	}

	if err := h.partnerships.RejectInvitation(c.Request().Context(), userID, req.Code); err != nil {
		return h.handleServiceError(c, err)
	}

	invitationsTotal.WithLabelValues("rejected").Inc()
	return c.NoContent(http.StatusNoContent)
}

func (h *APIHandler) getMyPartnership(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	partnership, err := h.partnerships.GetMine(c.Request().Context(), userID)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, partnership)
}
