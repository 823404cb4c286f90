package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"daydreams-server/internal/deck"
	"daydreams-server/internal/models"
	"daydreams-server/internal/repository"
)

// SettingsUpdate - изменяемые поля настроек. Nil-поле означает
// "оставить как есть".
type SettingsUpdate struct {
	EnabledCategories []string
	ReminderHour      *int
	ReminderMinute    *int
	Timezone          *string
}

// SettingsService управляет настройками партнерства.
type SettingsService interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.CategorySettings, error)
	Update(ctx context.Context, userID uuid.UUID, update SettingsUpdate) (*models.CategorySettings, error)
}

type settingsService struct {
	db            repository.DBTX
	partnerRepo   repository.PartnershipRepository
	settingsRepo  repository.SettingsRepository
	deckStateRepo repository.DeckStateRepository
	catalog       deck.Catalog
	logger        *zap.Logger
}

var _ SettingsService = (*settingsService)(nil)

// NewSettingsService создает сервис настроек.
func NewSettingsService(
	db repository.DBTX,
	partnerRepo repository.PartnershipRepository,
	settingsRepo repository.SettingsRepository,
	deckStateRepo repository.DeckStateRepository,
	catalog deck.Catalog,
	logger *zap.Logger,
) SettingsService {
	return &settingsService{
		db:            db,
		partnerRepo:   partnerRepo,
		settingsRepo:  settingsRepo,
		deckStateRepo: deckStateRepo,
		catalog:       catalog,
		logger:        logger.Named("SettingsService"),
	}
}

func (s *settingsService) Get(ctx context.Context, userID uuid.UUID) (*models.CategorySettings, error) {
	partnership, err := s.partnerRepo.GetByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx, s.db, partnership.ID)
	if errors.Is(err, models.ErrSettingsNotFound) {
		return models.DefaultSettings(partnership.ID, deck.CategoryOrder), nil
	}
	return settings, err
}

func (s *settingsService) Update(ctx context.Context, userID uuid.UUID, update SettingsUpdate) (*models.CategorySettings, error) {
	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	categoriesChanged := false
	if update.EnabledCategories != nil {
		if err := ValidateCategories(s.catalog, update.EnabledCategories); err != nil {
			return nil, err
		}
		categoriesChanged = !equalCategories(settings.EnabledCategories, update.EnabledCategories)
		settings.EnabledCategories = update.EnabledCategories
	}
	if update.ReminderHour != nil {
		settings.ReminderHour = *update.ReminderHour
	}
	if update.ReminderMinute != nil {
		settings.ReminderMinute = *update.ReminderMinute
	}
	if err := ValidateReminderTime(settings.ReminderHour, settings.ReminderMinute); err != nil {
		return nil, err
	}
	if update.Timezone != nil {
		if err := ValidateTimezone(*update.Timezone); err != nil {
			return nil, err
		}
		settings.Timezone = *update.Timezone
	}

	if err := s.settingsRepo.Upsert(ctx, s.db, settings); err != nil {
		return nil, err
	}

	if categoriesChanged {
		// Колода пересоберется при следующей выдаче; устаревшее состояние
		// удаляем сразу, чтобы не держать мусор в Redis.
		if err := s.deckStateRepo.Delete(ctx, settings.PartnershipID); err != nil {
			s.logger.Warn("Failed to drop stale deck state", zap.Error(err))
		}
		s.logger.Info("Category set changed, deck will be rebuilt",
			zap.String("partnershipID", settings.PartnershipID.String()),
			zap.Strings("categories", settings.EnabledCategories))
	}
	return settings, nil
}

func equalCategories(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
