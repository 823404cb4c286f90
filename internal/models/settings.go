package models

import (
	"time"

	"github.com/google/uuid"
)

// Значения по умолчанию для настроек партнерства.
const (
	DefaultReminderHour   = 9
	DefaultReminderMinute = 0
	DefaultTimezone       = "UTC"
)

// CategorySettings хранит настройки партнерства: упорядоченный набор
// включенных категорий, время дневного напоминания и часовой пояс,
// по которому считается "сегодня".
type CategorySettings struct {
	PartnershipID     uuid.UUID `db:"partnership_id" json:"partnershipId"`
	EnabledCategories []string  `db:"enabled_categories" json:"enabledCategories"`
	ReminderHour      int       `db:"reminder_hour" json:"reminderHour"`
	ReminderMinute    int       `db:"reminder_minute" json:"reminderMinute"`
	Timezone          string    `db:"timezone" json:"timezone"` // IANA-имя, например "America/New_York"
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

// Location возвращает часовой пояс партнерства. При некорректном имени
// возвращает UTC, чтобы координатор всегда мог посчитать дату.
func (s *CategorySettings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DefaultSettings возвращает настройки по умолчанию для нового партнерства.
func DefaultSettings(partnershipID uuid.UUID, categories []string) *CategorySettings {
	return &CategorySettings{
		PartnershipID:     partnershipID,
		EnabledCategories: categories,
		ReminderHour:      DefaultReminderHour,
		ReminderMinute:    DefaultReminderMinute,
		Timezone:          DefaultTimezone,
	}
}
