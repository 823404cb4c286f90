package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daydreams-server/internal/deck"
	"daydreams-server/internal/models"
)

func TestValidateStoryText(t *testing.T) {
	assert.NoError(t, ValidateStoryText(""))
	assert.NoError(t, ValidateStoryText("a perfectly normal story"))
	assert.NoError(t, ValidateStoryText(strings.Repeat("a", MaxStoryLength)))

	err := ValidateStoryText(strings.Repeat("a", MaxStoryLength+1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestValidateCategories(t *testing.T) {
	catalog := deck.DefaultCatalog()

	t.Run("valid set", func(t *testing.T) {
		assert.NoError(t, ValidateCategories(catalog, []string{deck.CategoryPark, deck.CategoryRide}))
	})

	t.Run("empty set rejected", func(t *testing.T) {
		err := ValidateCategories(catalog, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrInvalidInput))
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		err := ValidateCategories(catalog, []string{"spaceship"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "spaceship")
	})

	t.Run("duplicate category rejected", func(t *testing.T) {
		err := ValidateCategories(catalog, []string{deck.CategoryPark, deck.CategoryPark})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})
}

func TestValidateReminderTime(t *testing.T) {
	assert.NoError(t, ValidateReminderTime(0, 0))
	assert.NoError(t, ValidateReminderTime(23, 59))
	assert.Error(t, ValidateReminderTime(24, 0))
	assert.Error(t, ValidateReminderTime(-1, 0))
	assert.Error(t, ValidateReminderTime(9, 60))
}

func TestValidateTimezone(t *testing.T) {
	assert.NoError(t, ValidateTimezone("UTC"))
	assert.NoError(t, ValidateTimezone("America/New_York"))
	assert.Error(t, ValidateTimezone(""))
	assert.Error(t, ValidateTimezone("Mars/Olympus_Mons"))
}
