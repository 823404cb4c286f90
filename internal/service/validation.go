package service

import (
	"fmt"
	"time"
	"unicode/utf8"

	"daydreams-server/internal/deck"
	"daydreams-server/internal/models"
)

// MaxStoryLength ограничивает длину текста истории в символах.
const MaxStoryLength = 10000

// ValidationError описывает нарушение правил валидации входных данных.
// Оборачивает models.ErrInvalidInput, чтобы обработчики могли отличать
// ошибки клиента от внутренних.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return models.ErrInvalidInput
}

// ValidateStoryText проверяет текст истории. Пустой текст допустим,
// сохранение пустого текста трактуется сервисом как no-op.
func ValidateStoryText(text string) error {
	if utf8.RuneCountInString(text) > MaxStoryLength {
		return &ValidationError{Field: "story_text", Reason: fmt.Sprintf("exceeds %d characters", MaxStoryLength)}
	}
	return nil
}

// ValidateCategories проверяет набор включенных категорий против каталога.
func ValidateCategories(catalog deck.Catalog, enabled []string) error {
	if len(enabled) == 0 {
		return &ValidationError{Field: "enabled_categories", Reason: "must not be empty"}
	}
	seen := make(map[string]bool, len(enabled))
	for _, category := range enabled {
		if _, ok := catalog[category]; !ok {
			return &ValidationError{Field: "enabled_categories", Reason: fmt.Sprintf("unknown category %q", category)}
		}
		if seen[category] {
			return &ValidationError{Field: "enabled_categories", Reason: fmt.Sprintf("duplicate category %q", category)}
		}
		seen[category] = true
	}
	return nil
}

// ValidateReminderTime проверяет время ежедневного напоминания.
func ValidateReminderTime(hour, minute int) error {
	if hour < 0 || hour > 23 {
		return &ValidationError{Field: "reminder_hour", Reason: "must be between 0 and 23"}
	}
	if minute < 0 || minute > 59 {
		return &ValidationError{Field: "reminder_minute", Reason: "must be between 0 and 59"}
	}
	return nil
}

// ValidateTimezone проверяет, что строка является валидным именем зоны IANA.
func ValidateTimezone(tz string) error {
	if tz == "" {
		return &ValidationError{Field: "timezone", Reason: "must not be empty"}
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return &ValidationError{Field: "timezone", Reason: fmt.Sprintf("unknown timezone %q", tz)}
	}
	return nil
}
