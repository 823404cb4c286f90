package mocks

import (
	"context"
	"time"

	"daydreams-server/internal/deck"
	"daydreams-server/internal/models"
	"daydreams-server/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock PromptRepository
type PromptRepository struct {
	mock.Mock
}

func (m *PromptRepository) Insert(ctx context.Context, q repository.DBTX, prompt *models.DailyPrompt) (bool, error) {
	args := m.Called(ctx, q, prompt)
	return args.Bool(0), args.Error(1)
}

func (m *PromptRepository) GetByID(ctx context.Context, q repository.DBTX, id uuid.UUID) (*models.DailyPrompt, error) {
	args := m.Called(ctx, q, id)
	if p, ok := args.Get(0).(*models.DailyPrompt); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PromptRepository) GetByDate(ctx context.Context, q repository.DBTX, partnershipID uuid.UUID, date time.Time) (*models.DailyPrompt, error) {
	args := m.Called(ctx, q, partnershipID, date)
	if p, ok := args.Get(0).(*models.DailyPrompt); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PromptRepository) GetLatest(ctx context.Context, q repository.DBTX, partnershipID uuid.UUID) (*models.DailyPrompt, error) {
	args := m.Called(ctx, q, partnershipID)
	if p, ok := args.Get(0).(*models.DailyPrompt); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PromptRepository) UpdateStoryText(ctx context.Context, q repository.DBTX, id uuid.UUID, storyText string) error {
	args := m.Called(ctx, q, id, storyText)
	return args.Error(0)
}

func (m *PromptRepository) SetFavorite(ctx context.Context, q repository.DBTX, id uuid.UUID, favorite bool) error {
	args := m.Called(ctx, q, id, favorite)
	return args.Error(0)
}

// Mock MirrorRepository
type MirrorRepository struct {
	mock.Mock
}

func (m *MirrorRepository) UpsertHistory(ctx context.Context, q repository.DBTX, mirror *models.PromptMirror) error {
	args := m.Called(ctx, q, mirror)
	return args.Error(0)
}

func (m *MirrorRepository) UpsertFavorite(ctx context.Context, q repository.DBTX, mirror *models.PromptMirror) error {
	args := m.Called(ctx, q, mirror)
	return args.Error(0)
}

func (m *MirrorRepository) RemoveFavorite(ctx context.Context, q repository.DBTX, userID, promptID uuid.UUID) error {
	args := m.Called(ctx, q, userID, promptID)
	return args.Error(0)
}

func (m *MirrorRepository) ListHistory(ctx context.Context, q repository.DBTX, userID uuid.UUID, cursor string, limit int) ([]*models.PromptMirror, string, error) {
	args := m.Called(ctx, q, userID, cursor, limit)
	var mirrors []*models.PromptMirror
	if v, ok := args.Get(0).([]*models.PromptMirror); ok {
		mirrors = v
	}
	return mirrors, args.String(1), args.Error(2)
}

func (m *MirrorRepository) ListFavorites(ctx context.Context, q repository.DBTX, userID uuid.UUID, cursor string, limit int) ([]*models.PromptMirror, string, error) {
	args := m.Called(ctx, q, userID, cursor, limit)
	var mirrors []*models.PromptMirror
	if v, ok := args.Get(0).([]*models.PromptMirror); ok {
		mirrors = v
	}
	return mirrors, args.String(1), args.Error(2)
}

func (m *MirrorRepository) ClearHistory(ctx context.Context, q repository.DBTX, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, q, userID)
	return args.Get(0).(int64), args.Error(1)
}

// Mock PartnershipRepository
type PartnershipRepository struct {
	mock.Mock
}

func (m *PartnershipRepository) Create(ctx context.Context, q repository.DBTX, partnership *models.Partnership) error {
	args := m.Called(ctx, q, partnership)
	return args.Error(0)
}

func (m *PartnershipRepository) GetByID(ctx context.Context, q repository.DBTX, id uuid.UUID) (*models.Partnership, error) {
	args := m.Called(ctx, q, id)
	if p, ok := args.Get(0).(*models.Partnership); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartnershipRepository) GetByUserID(ctx context.Context, q repository.DBTX, userID uuid.UUID) (*models.Partnership, error) {
	args := m.Called(ctx, q, userID)
	if p, ok := args.Get(0).(*models.Partnership); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartnershipRepository) CreateInvitation(ctx context.Context, q repository.DBTX, invitation *models.Invitation) error {
	args := m.Called(ctx, q, invitation)
	return args.Error(0)
}

func (m *PartnershipRepository) GetInvitationByCode(ctx context.Context, q repository.DBTX, code string) (*models.Invitation, error) {
	args := m.Called(ctx, q, code)
	if inv, ok := args.Get(0).(*models.Invitation); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartnershipRepository) UpdateInvitationStatus(ctx context.Context, q repository.DBTX, id uuid.UUID, status models.InvitationStatus) error {
	args := m.Called(ctx, q, id, status)
	return args.Error(0)
}

// Mock SettingsRepository
type SettingsRepository struct {
	mock.Mock
}

func (m *SettingsRepository) Get(ctx context.Context, q repository.DBTX, partnershipID uuid.UUID) (*models.CategorySettings, error) {
	args := m.Called(ctx, q, partnershipID)
	if s, ok := args.Get(0).(*models.CategorySettings); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SettingsRepository) Upsert(ctx context.Context, q repository.DBTX, settings *models.CategorySettings) error {
	args := m.Called(ctx, q, settings)
	return args.Error(0)
}

func (m *SettingsRepository) ListAll(ctx context.Context, q repository.DBTX) ([]*models.CategorySettings, error) {
	args := m.Called(ctx, q)
	var settings []*models.CategorySettings
	if v, ok := args.Get(0).([]*models.CategorySettings); ok {
		settings = v
	}
	return settings, args.Error(1)
}

// Mock DeviceTokenRepository
type DeviceTokenRepository struct {
	mock.Mock
}

func (m *DeviceTokenRepository) Save(ctx context.Context, userID uuid.UUID, token, platform string) error {
	args := m.Called(ctx, userID, token, platform)
	return args.Error(0)
}

func (m *DeviceTokenRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.DeviceTokenInfo, error) {
	args := m.Called(ctx, userID)
	var tokens []models.DeviceTokenInfo
	if v, ok := args.Get(0).([]models.DeviceTokenInfo); ok {
		tokens = v
	}
	return tokens, args.Error(1)
}

func (m *DeviceTokenRepository) Delete(ctx context.Context, userID uuid.UUID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *DeviceTokenRepository) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// Mock DeckStateRepository
type DeckStateRepository struct {
	mock.Mock
}

func (m *DeckStateRepository) Get(ctx context.Context, partnershipID uuid.UUID) (*deck.State, error) {
	args := m.Called(ctx, partnershipID)
	if s, ok := args.Get(0).(*deck.State); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DeckStateRepository) Save(ctx context.Context, partnershipID uuid.UUID, state *deck.State) error {
	args := m.Called(ctx, partnershipID, state)
	return args.Error(0)
}

func (m *DeckStateRepository) Delete(ctx context.Context, partnershipID uuid.UUID) error {
	args := m.Called(ctx, partnershipID)
	return args.Error(0)
}

// Mock DynamicConfigRepository
type DynamicConfigRepository struct {
	mock.Mock
}

func (m *DynamicConfigRepository) Get(ctx context.Context, q repository.DBTX, key string) (string, error) {
	args := m.Called(ctx, q, key)
	return args.String(0), args.Error(1)
}

func (m *DynamicConfigRepository) GetAll(ctx context.Context, q repository.DBTX) (map[string]string, error) {
	args := m.Called(ctx, q)
	var configs map[string]string
	if v, ok := args.Get(0).(map[string]string); ok {
		configs = v
	}
	return configs, args.Error(1)
}

func (m *DynamicConfigRepository) Set(ctx context.Context, q repository.DBTX, key, value string) error {
	args := m.Called(ctx, q, key, value)
	return args.Error(0)
}
