package service

import (
	"daydreams-server/internal/models"
)

// NextAuthor определяет, чья очередь писать историю для нового промпта.
// Роли чередуются от промпта к промпту; если предыдущего промпта нет,
// первым пишет пригласивший.
func NextAuthor(previous *models.DailyPrompt) models.AuthorRole {
	if previous == nil || !previous.AssignedTo.Valid() {
		return models.AuthorRoleInviter
	}
	return previous.AssignedTo.Other()
}
