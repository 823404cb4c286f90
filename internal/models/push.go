package models

import "github.com/google/uuid"

// PushNotification содержит видимые части push-сообщения.
type PushNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PushNotificationPayload - структура сообщения в очереди push_notifications.
// Сервер публикует, notifier потребляет. Структура общая для обоих бинарей.
type PushNotificationPayload struct {
	UserID       uuid.UUID         `json:"user_id"`
	Notification PushNotification  `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

// Типы событий, которые кладутся в Data["event"] push-сообщения и в
// websocket-обновления. Клиент по ним решает, какой экран обновлять.
const (
	EventPromptCreated      = "prompt_created"
	EventStorySaved         = "story_saved"
	EventFavoriteToggled    = "favorite_toggled"
	EventInvitationAccepted = "invitation_accepted"
	EventDailyReminder      = "daily_reminder"
)
