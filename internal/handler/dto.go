package handler

import (
	"github.com/go-playground/validator/v10"

	"daydreams-server/internal/models"
)

// CustomValidator подключает go-playground/validator к echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator создает валидатор запросов.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate реализует echo.Validator.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// APIError представляет стандартизированный ответ об ошибке.
type APIError struct {
	Message string `json:"message"`
}

type acceptInvitationRequest struct {
	Code string `json:"code" validate:"required,len=8,alphanum"`
}

type rejectInvitationRequest struct {
	Code string `json:"code" validate:"required,len=8,alphanum"`
}

type saveStoryRequest struct {
	StoryText string `json:"storyText"`
}

type setFavoriteRequest struct {
	Favorite bool `json:"favorite"`
}

type updateSettingsRequest struct {
	EnabledCategories []string `json:"enabledCategories,omitempty"`
	ReminderHour      *int     `json:"reminderHour,omitempty" validate:"omitempty,min=0,max=23"`
	ReminderMinute    *int     `json:"reminderMinute,omitempty" validate:"omitempty,min=0,max=59"`
	Timezone          *string  `json:"timezone,omitempty"`
}

type registerDeviceRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android"`
}

// mirrorPageResponse - страница истории или избранного с курсором.
type mirrorPageResponse struct {
	Items      []*models.PromptMirror `json:"items"`
	NextCursor string                 `json:"nextCursor,omitempty"`
}

type clearHistoryResponse struct {
	Deleted int64 `json:"deleted"`
}

type weatherKeyResponse struct {
	APIKey string `json:"apiKey"`
}
