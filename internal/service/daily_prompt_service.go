package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"daydreams-server/internal/configservice"
	"daydreams-server/internal/deck"
	"daydreams-server/internal/messaging"
	"daydreams-server/internal/models"
	"daydreams-server/internal/repository"
)

// UpdateStreamer доставляет обновления подключенным websocket-клиентам.
// Реализуется ws.Manager; в юнит-тестах подменяется моком.
type UpdateStreamer interface {
	NotifyUser(userID uuid.UUID, messageType string, payload interface{})
}

// DailyPromptService - координатор дневного промпта: выдает общий промпт
// партнерства на сегодня, создавая его при первом обращении.
type DailyPromptService interface {
	// GetOrCreateToday возвращает промпт партнерства на текущую дату.
	// Если промпта еще нет, он создается; при одновременных запросах
	// обоих партнеров выигрывает ровно один, второй получает ту же запись.
	GetOrCreateToday(ctx context.Context, userID uuid.UUID) (*models.DailyPrompt, error)
}

type dailyPromptService struct {
	db            repository.DBTX
	tx            repository.Transactor
	promptRepo    repository.PromptRepository
	mirrorRepo    repository.MirrorRepository
	partnerRepo   repository.PartnershipRepository
	settingsRepo  repository.SettingsRepository
	deckStateRepo repository.DeckStateRepository
	builder       *deck.Builder
	publisher     messaging.PushNotificationPublisher
	streamer      UpdateStreamer
	cfg           *configservice.ConfigService
	logger        *zap.Logger

	// now и reseed подменяются в тестах.
	now    func() time.Time
	reseed func() int64
}

var _ DailyPromptService = (*dailyPromptService)(nil)

// NewDailyPromptService создает сервис дневного промпта.
func NewDailyPromptService(
	db repository.DBTX,
	tx repository.Transactor,
	promptRepo repository.PromptRepository,
	mirrorRepo repository.MirrorRepository,
	partnerRepo repository.PartnershipRepository,
	settingsRepo repository.SettingsRepository,
	deckStateRepo repository.DeckStateRepository,
	builder *deck.Builder,
	publisher messaging.PushNotificationPublisher,
	streamer UpdateStreamer,
	cfg *configservice.ConfigService,
	logger *zap.Logger,
) DailyPromptService {
	return &dailyPromptService{
		db:            db,
		tx:            tx,
		promptRepo:    promptRepo,
		mirrorRepo:    mirrorRepo,
		partnerRepo:   partnerRepo,
		settingsRepo:  settingsRepo,
		deckStateRepo: deckStateRepo,
		builder:       builder,
		publisher:     publisher,
		streamer:      streamer,
		cfg:           cfg,
		logger:        logger.Named("DailyPromptService"),
		now:           time.Now,
		reseed:        func() int64 { return rand.Int63() },
	}
}

// promptDate возвращает календарную дату "сегодня" партнерства.
// Дата хранится как полночь UTC независимо от часового пояса.
func promptDate(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *dailyPromptService) GetOrCreateToday(ctx context.Context, userID uuid.UUID) (*models.DailyPrompt, error) {
	partnership, err := s.partnerRepo.GetByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx, s.db, partnership.ID)
	if err != nil {
		if !errors.Is(err, models.ErrSettingsNotFound) {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		settings = models.DefaultSettings(partnership.ID, deck.CategoryOrder)
	}

	today := promptDate(s.now(), settings.Location())

	// Быстрый путь: промпт на сегодня уже существует.
	prompt, err := s.promptRepo.GetByDate(ctx, s.db, partnership.ID, today)
	if err == nil {
		return prompt, nil
	}
	if !errors.Is(err, models.ErrPromptNotFound) {
		return nil, err
	}

	return s.createToday(ctx, partnership, settings, today)
}

// createToday тянет следующую комбинацию из колоды, определяет очередь и
// вставляет промпт. При гонке двух партнеров unique constraint по
// (partnership_id, prompt_date) гарантирует, что запись создаст ровно
// один из них; проигравший перечитывает чужую запись.
func (s *dailyPromptService) createToday(ctx context.Context, partnership *models.Partnership, settings *models.CategorySettings, today time.Time) (*models.DailyPrompt, error) {
	enabled := settings.EnabledCategories

	state, err := s.deckStateRepo.Get(ctx, partnership.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrDeckStateNotFound) {
			return nil, fmt.Errorf("failed to load deck state: %w", err)
		}
		state, err = s.builder.NewState(enabled, s.reseed())
		if err != nil {
			return nil, err
		}
	}

	selections, err := s.builder.Draw(state, enabled, s.reseed)
	if err != nil {
		return nil, err
	}

	var assignedTo models.AuthorRole
	latest, err := s.promptRepo.GetLatest(ctx, s.db, partnership.ID)
	switch {
	case err == nil:
		assignedTo = NextAuthor(latest)
	case errors.Is(err, models.ErrPromptNotFound):
		assignedTo = NextAuthor(nil)
	default:
		return nil, err
	}

	candidate := &models.DailyPrompt{
		ID:            uuid.New(),
		PartnershipID: partnership.ID,
		PromptDate:    today,
		Selections:    selections,
		AssignedTo:    assignedTo,
	}

	var result *models.DailyPrompt
	var inserted bool
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx repository.DBTX) error {
		inserted, err = s.promptRepo.Insert(ctx, tx, candidate)
		if err != nil {
			return err
		}
		if !inserted {
			// Гонку выиграл партнер: берем его запись.
			result, err = s.promptRepo.GetByDate(ctx, tx, partnership.ID, today)
			return err
		}

		result = candidate
		for _, memberID := range []uuid.UUID{partnership.InviterID, partnership.InviteeID} {
			if err := s.mirrorRepo.UpsertHistory(ctx, tx, mirrorOf(result, memberID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !inserted {
		s.logger.Debug("Lost daily prompt race, returning winner's record",
			zap.String("partnershipID", partnership.ID.String()))
		return result, nil
	}

	if err := s.deckStateRepo.Save(ctx, partnership.ID, state); err != nil {
		// Состояние колоды не критично: при потере комбинация может
		// повториться раньше времени, но промпт уже создан.
		s.logger.Warn("Failed to save deck state", zap.Error(err))
	}

	s.notifyPromptCreated(ctx, partnership, result)

	s.logger.Info("Daily prompt created",
		zap.String("partnershipID", partnership.ID.String()),
		zap.String("promptID", result.ID.String()),
		zap.String("assignedTo", string(result.AssignedTo)))
	return result, nil
}

// notifyPromptCreated рассылает push автору дня и websocket-обновление обоим.
func (s *dailyPromptService) notifyPromptCreated(ctx context.Context, partnership *models.Partnership, prompt *models.DailyPrompt) {
	assignedID := partnership.InviterID
	if prompt.AssignedTo == models.AuthorRoleInvitee {
		assignedID = partnership.InviteeID
	}

	title := s.cfg.GetString(configservice.ConfigKeyPromptPushTitle, configservice.DefaultPromptPushTitle)
	payload := models.PushNotificationPayload{
		UserID: assignedID,
		Notification: models.PushNotification{
			Title: title,
			Body:  "It's your turn to write today's story.",
		},
		Data: map[string]string{
			"event":     models.EventPromptCreated,
			"prompt_id": prompt.ID.String(),
		},
	}
	if err := s.publisher.PublishPushNotification(ctx, payload); err != nil {
		s.logger.Error("Failed to publish prompt push", zap.Error(err))
	}

	for _, memberID := range []uuid.UUID{partnership.InviterID, partnership.InviteeID} {
		s.streamer.NotifyUser(memberID, models.EventPromptCreated, prompt)
	}
}

// mirrorOf строит зеркальную строку промпта для конкретного пользователя.
func mirrorOf(prompt *models.DailyPrompt, userID uuid.UUID) *models.PromptMirror {
	return &models.PromptMirror{
		PromptID:      prompt.ID,
		UserID:        userID,
		PartnershipID: prompt.PartnershipID,
		PromptDate:    prompt.PromptDate,
		Selections:    prompt.Selections,
		AssignedTo:    prompt.AssignedTo,
		StoryText:     prompt.StoryText,
		IsFavorite:    prompt.IsFavorite,
		UpdatedAt:     prompt.UpdatedAt,
	}
}
