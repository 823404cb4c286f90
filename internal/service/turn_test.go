package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"daydreams-server/internal/models"
)

func TestNextAuthor(t *testing.T) {
	t.Run("no previous prompt defaults to inviter", func(t *testing.T) {
		assert.Equal(t, models.AuthorRoleInviter, NextAuthor(nil))
	})

	t.Run("alternates from inviter to invitee", func(t *testing.T) {
		prev := &models.DailyPrompt{AssignedTo: models.AuthorRoleInviter}
		assert.Equal(t, models.AuthorRoleInvitee, NextAuthor(prev))
	})

	t.Run("alternates from invitee to inviter", func(t *testing.T) {
		prev := &models.DailyPrompt{AssignedTo: models.AuthorRoleInvitee}
		assert.Equal(t, models.AuthorRoleInviter, NextAuthor(prev))
	})

	t.Run("invalid previous role falls back to inviter", func(t *testing.T) {
		prev := &models.DailyPrompt{AssignedTo: models.AuthorRole("narrator")}
		assert.Equal(t, models.AuthorRoleInviter, NextAuthor(prev))
	})

	t.Run("stable over a sequence", func(t *testing.T) {
		role := NextAuthor(nil)
		for i := 0; i < 6; i++ {
			next := NextAuthor(&models.DailyPrompt{AssignedTo: role})
			assert.NotEqual(t, role, next)
			role = next
		}
	})
}
