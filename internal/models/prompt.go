package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthorRole определяет, кто из двух партнеров пишет историю по промпту.
type AuthorRole string

const (
	// AuthorRoleInviter - партнер, создавший приглашение. Пишет первым,
	// если предыдущих записей нет.
	AuthorRoleInviter AuthorRole = "inviter"
	// AuthorRoleInvitee - партнер, принявший приглашение.
	AuthorRoleInvitee AuthorRole = "invitee"
)

// Valid проверяет, что роль автора одна из двух допустимых.
func (r AuthorRole) Valid() bool {
	return r == AuthorRoleInviter || r == AuthorRoleInvitee
}

// Other возвращает противоположную роль.
func (r AuthorRole) Other() AuthorRole {
	if r == AuthorRoleInviter {
		return AuthorRoleInvitee
	}
	return AuthorRoleInviter
}

// PromptSelections - выбранные опции по категориям (категория -> текст опции).
type PromptSelections map[string]string

// DailyPrompt представляет общий дневной промпт партнерства.
// Создается координатором ровно один раз в день на партнерство.
type DailyPrompt struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	PartnershipID uuid.UUID        `db:"partnership_id" json:"partnershipId"`
	PromptDate    time.Time        `db:"prompt_date" json:"promptDate"` // Дата без времени (календарный день партнерства)
	Selections    PromptSelections `db:"selections" json:"selections"`
	AssignedTo    AuthorRole       `db:"assigned_to" json:"assignedTo"`
	StoryText     string           `db:"story_text" json:"storyText,omitempty"`
	IsFavorite    bool             `db:"is_favorite" json:"isFavorite"`
	CreatedAt     time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updatedAt"`
}

// PromptMirror - денормализованная копия промпта для чтения (история/избранное).
// Хранится отдельно от общей записи: своя строка на каждого пользователя.
type PromptMirror struct {
	PromptID      uuid.UUID        `db:"prompt_id" json:"promptId"`
	UserID        uuid.UUID        `db:"user_id" json:"userId"`
	PartnershipID uuid.UUID        `db:"partnership_id" json:"partnershipId"`
	PromptDate    time.Time        `db:"prompt_date" json:"promptDate"`
	Selections    PromptSelections `db:"selections" json:"selections"`
	AssignedTo    AuthorRole       `db:"assigned_to" json:"assignedTo"`
	StoryText     string           `db:"story_text" json:"storyText,omitempty"`
	IsFavorite    bool             `db:"is_favorite" json:"isFavorite"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updatedAt"`
}
