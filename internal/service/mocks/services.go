package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"daydreams-server/internal/models"
	"daydreams-server/internal/service"
)

// Mock DailyPromptService
type DailyPromptService struct {
	mock.Mock
}

func (m *DailyPromptService) GetOrCreateToday(ctx context.Context, userID uuid.UUID) (*models.DailyPrompt, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(*models.DailyPrompt); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// Mock StoryService
type StoryService struct {
	mock.Mock
}

func (m *StoryService) SaveStory(ctx context.Context, userID, promptID uuid.UUID, text string) (*models.DailyPrompt, error) {
	args := m.Called(ctx, userID, promptID, text)
	if p, ok := args.Get(0).(*models.DailyPrompt); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StoryService) SetFavorite(ctx context.Context, userID, promptID uuid.UUID, favorite bool) (*models.DailyPrompt, error) {
	args := m.Called(ctx, userID, promptID, favorite)
	if p, ok := args.Get(0).(*models.DailyPrompt); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StoryService) ListHistory(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]*models.PromptMirror, string, error) {
	args := m.Called(ctx, userID, cursor, limit)
	var mirrors []*models.PromptMirror
	if v, ok := args.Get(0).([]*models.PromptMirror); ok {
		mirrors = v
	}
	return mirrors, args.String(1), args.Error(2)
}

func (m *StoryService) ListFavorites(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]*models.PromptMirror, string, error) {
	args := m.Called(ctx, userID, cursor, limit)
	var mirrors []*models.PromptMirror
	if v, ok := args.Get(0).([]*models.PromptMirror); ok {
		mirrors = v
	}
	return mirrors, args.String(1), args.Error(2)
}

func (m *StoryService) ClearHistory(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// Mock PartnershipService
type PartnershipService struct {
	mock.Mock
}

func (m *PartnershipService) CreateInvitation(ctx context.Context, inviterID uuid.UUID) (*models.Invitation, error) {
	args := m.Called(ctx, inviterID)
	if i, ok := args.Get(0).(*models.Invitation); ok {
		return i, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartnershipService) AcceptInvitation(ctx context.Context, inviteeID uuid.UUID, code string) (*models.Partnership, error) {
	args := m.Called(ctx, inviteeID, code)
	if p, ok := args.Get(0).(*models.Partnership); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartnershipService) RejectInvitation(ctx context.Context, userID uuid.UUID, code string) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

func (m *PartnershipService) GetMine(ctx context.Context, userID uuid.UUID) (*models.Partnership, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(*models.Partnership); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// Mock SettingsService
type SettingsService struct {
	mock.Mock
}

func (m *SettingsService) Get(ctx context.Context, userID uuid.UUID) (*models.CategorySettings, error) {
	args := m.Called(ctx, userID)
	if s, ok := args.Get(0).(*models.CategorySettings); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SettingsService) Update(ctx context.Context, userID uuid.UUID, update service.SettingsUpdate) (*models.CategorySettings, error) {
	args := m.Called(ctx, userID, update)
	if s, ok := args.Get(0).(*models.CategorySettings); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

// Mock DeviceTokenService
type DeviceTokenService struct {
	mock.Mock
}

func (m *DeviceTokenService) Register(ctx context.Context, userID uuid.UUID, token, platform string) error {
	args := m.Called(ctx, userID, token, platform)
	return args.Error(0)
}

func (m *DeviceTokenService) Unregister(ctx context.Context, userID uuid.UUID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *DeviceTokenService) UnregisterAll(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
