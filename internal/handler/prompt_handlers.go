package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"daydreams-server/internal/configservice"
)

func (h *APIHandler) getTodayPrompt(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	prompt, err := h.prompts.GetOrCreateToday(c.Request().Context(), userID)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	promptsCreatedTotal.Inc()
	return c.JSON(http.StatusOK, prompt)
}

func (h *APIHandler) saveStory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	promptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid prompt ID"})
	}

	var req saveStoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body"})
	}

	prompt, err := h.stories.SaveStory(c.Request().Context(), userID, promptID, req.StoryText)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	storiesSavedTotal.Inc()
	return c.JSON(http.StatusOK, prompt)
}

func (h *APIHandler) setFavorite(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	promptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid prompt ID"})
	}

	var req setFavoriteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body"})
	}

	prompt, err := h.stories.SetFavorite(c.Request().Context(), userID, promptID, req.Favorite)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	favoritesToggledTotal.WithLabelValues(strconv.FormatBool(req.Favorite)).Inc()
	return c.JSON(http.StatusOK, prompt)
}

// pageParams читает cursor и limit из query. Лимит по умолчанию берется
// из динамической конфигурации.
func (h *APIHandler) pageParams(c echo.Context) (string, int) {
	cursor := c.QueryParam("cursor")
	limit := h.cfg.GetInt(configservice.ConfigKeyHistoryPageSize, configservice.DefaultHistoryPageSize)
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	return cursor, limit
}

func (h *APIHandler) listHistory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	cursor, limit := h.pageParams(c)
	items, nextCursor, err := h.stories.ListHistory(c.Request().Context(), userID, cursor, limit)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, mirrorPageResponse{Items: items, NextCursor: nextCursor})
}

func (h *APIHandler) listFavorites(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	cursor, limit := h.pageParams(c)
	items, nextCursor, err := h.stories.ListFavorites(c.Request().Context(), userID, cursor, limit)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, mirrorPageResponse{Items: items, NextCursor: nextCursor})
}

func (h *APIHandler) clearHistory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	deleted, err := h.stories.ClearHistory(c.Request().Context(), userID)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	h.logger.Info("History cleared via API",
		zap.String("userID", userID.String()),
		zap.Int64("deleted", deleted))
	return c.JSON(http.StatusOK, clearHistoryResponse{Deleted: deleted})
}
