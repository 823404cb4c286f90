package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"daydreams-server/internal/authutils"
	"daydreams-server/internal/configservice"
	"daydreams-server/internal/deck"
	"daydreams-server/internal/middleware"
	"daydreams-server/internal/models"
	"daydreams-server/internal/service"
	"daydreams-server/internal/utils"
	"daydreams-server/internal/ws"
)

// APIHandler обрабатывает HTTP-запросы сервера.
type APIHandler struct {
	prompts      service.DailyPromptService
	stories      service.StoryService
	partnerships service.PartnershipService
	settings     service.SettingsService
	devices      service.DeviceTokenService
	cfg          *configservice.ConfigService
	wsManager    *ws.Manager
	verifier     *authutils.JWTVerifier
	logger       *zap.Logger
}

// NewAPIHandler создает APIHandler.
func NewAPIHandler(
	prompts service.DailyPromptService,
	stories service.StoryService,
	partnerships service.PartnershipService,
	settings service.SettingsService,
	devices service.DeviceTokenService,
	cfg *configservice.ConfigService,
	wsManager *ws.Manager,
	jwtSecret string,
	logger *zap.Logger,
) *APIHandler {
	verifier, err := authutils.NewJWTVerifier(jwtSecret, logger)
	if err != nil {
		logger.Fatal("Failed to create JWT Verifier", zap.Error(err))
	}

	return &APIHandler{
		prompts:      prompts,
		stories:      stories,
		partnerships: partnerships,
		settings:     settings,
		devices:      devices,
		cfg:          cfg,
		wsManager:    wsManager,
		verifier:     verifier,
		logger:       logger.Named("APIHandler"),
	}
}

// RegisterRoutes регистрирует маршруты сервера.
func (h *APIHandler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()

	authMiddleware := middleware.JWTAuthMiddleware(h.verifier.VerifyToken, h.logger)

	e.GET("/healthz", h.healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	partnershipsGroup := e.Group("/partnerships", authMiddleware)
	{
		partnershipsGroup.POST("/invitations", h.createInvitation)
		partnershipsGroup.POST("/invitations/accept", h.acceptInvitation)
		partnershipsGroup.POST("/invitations/reject", h.rejectInvitation)
		partnershipsGroup.GET("/me", h.getMyPartnership)
	}

	promptsGroup := e.Group("/prompts", authMiddleware)
	{
		promptsGroup.GET("/today", h.getTodayPrompt)
		promptsGroup.PUT("/:id/story", h.saveStory)
		promptsGroup.PUT("/:id/favorite", h.setFavorite)
		promptsGroup.GET("/history", h.listHistory)
		promptsGroup.DELETE("/history", h.clearHistory)
		promptsGroup.GET("/favorites", h.listFavorites)
	}

	settingsGroup := e.Group("/settings", authMiddleware)
	{
		settingsGroup.GET("", h.getSettings)
		settingsGroup.PUT("", h.updateSettings)
	}

	devicesGroup := e.Group("/devices", authMiddleware)
	{
		devicesGroup.POST("", h.registerDevice)
		devicesGroup.DELETE("/:token", h.unregisterDevice)
	}

	e.GET("/ws", h.serveWS, authMiddleware)
	e.GET("/config/weather-key", h.getWeatherKey, authMiddleware)
}

func (h *APIHandler) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// getUserIDFromContext извлекает userID, положенный auth middleware.
func getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, models.ErrUnauthorized
	}
	return userID, nil
}

// handleServiceError переводит ошибки сервисов в HTTP-статусы.
func (h *APIHandler) handleServiceError(c echo.Context, err error) error {
	var statusCode int
	var apiErr APIError

	var validationErr *service.ValidationError

	switch {
	case errors.Is(err, models.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		apiErr = APIError{Message: "Unauthorized"}
	case errors.Is(err, models.ErrForbidden):
		statusCode = http.StatusForbidden
		apiErr = APIError{Message: "It is not your turn to write"}
	case errors.Is(err, models.ErrNotPartnershipMember):
		statusCode = http.StatusForbidden
		apiErr = APIError{Message: "Not a member of this partnership"}
	case errors.Is(err, models.ErrNoPartnership):
		statusCode = http.StatusNotFound
		apiErr = APIError{Message: "No partnership yet"}
	case errors.Is(err, models.ErrPromptNotFound),
		errors.Is(err, models.ErrInvitationNotFound),
		errors.Is(err, models.ErrPartnershipNotFound),
		errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		apiErr = APIError{Message: "Resource not found"}
	case errors.Is(err, models.ErrInvitationExpired):
		statusCode = http.StatusGone
		apiErr = APIError{Message: "Invitation has expired"}
	case errors.Is(err, models.ErrSelfInvitation):
		statusCode = http.StatusConflict
		apiErr = APIError{Message: "Cannot accept your own invitation"}
	case errors.Is(err, models.ErrAlreadyPartnered):
		statusCode = http.StatusConflict
		apiErr = APIError{Message: "Already in a partnership"}
	case errors.Is(err, deck.ErrNoCategoriesEnabled):
		statusCode = http.StatusConflict
		apiErr = APIError{Message: "No prompt categories enabled"}
	case errors.As(err, &validationErr):
		statusCode = http.StatusBadRequest
		apiErr = APIError{Message: validationErr.Error()}
	case errors.Is(err, utils.ErrInvalidCursor):
		statusCode = http.StatusBadRequest
		apiErr = APIError{Message: "Invalid pagination cursor"}
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrBadRequest):
		statusCode = http.StatusBadRequest
		apiErr = APIError{Message: "Invalid request"}
	default:
		h.logger.Error("Unhandled service error", zap.Error(err))
		statusCode = http.StatusInternalServerError
		apiErr = APIError{Message: "Internal server error"}
	}

	return c.JSON(statusCode, apiErr)
}
