package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"daydreams-server/internal/messaging"
	"daydreams-server/internal/models"
	"daydreams-server/internal/repository"
)

// StoryService управляет историями, избранным и зеркалами чтения.
type StoryService interface {
	// SaveStory сохраняет текст истории. Пустой текст - no-op: существующая
	// история не затирается, возвращается текущая запись.
	SaveStory(ctx context.Context, userID, promptID uuid.UUID, text string) (*models.DailyPrompt, error)

	// SetFavorite выставляет флаг избранного. Повторное выставление того же
	// значения идемпотентно, снятие и повторное добавление возвращает
	// промпт в избранное без потерь.
	SetFavorite(ctx context.Context, userID, promptID uuid.UUID, favorite bool) (*models.DailyPrompt, error)

	ListHistory(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]*models.PromptMirror, string, error)
	ListFavorites(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]*models.PromptMirror, string, error)

	// ClearHistory удаляет историю пользователя, возвращает число записей.
	ClearHistory(ctx context.Context, userID uuid.UUID) (int64, error)
}

type storyService struct {
	db          repository.DBTX
	tx          repository.Transactor
	promptRepo  repository.PromptRepository
	mirrorRepo  repository.MirrorRepository
	partnerRepo repository.PartnershipRepository
	publisher   messaging.PushNotificationPublisher
	streamer    UpdateStreamer
	logger      *zap.Logger
}

var _ StoryService = (*storyService)(nil)

// NewStoryService создает сервис историй.
func NewStoryService(
	db repository.DBTX,
	tx repository.Transactor,
	promptRepo repository.PromptRepository,
	mirrorRepo repository.MirrorRepository,
	partnerRepo repository.PartnershipRepository,
	publisher messaging.PushNotificationPublisher,
	streamer UpdateStreamer,
	logger *zap.Logger,
) StoryService {
	return &storyService{
		db:          db,
		tx:          tx,
		promptRepo:  promptRepo,
		mirrorRepo:  mirrorRepo,
		partnerRepo: partnerRepo,
		publisher:   publisher,
		streamer:    streamer,
		logger:      logger.Named("StoryService"),
	}
}

// loadMemberPrompt загружает промпт и проверяет, что пользователь состоит
// в его партнерстве.
func (s *storyService) loadMemberPrompt(ctx context.Context, userID, promptID uuid.UUID) (*models.DailyPrompt, *models.Partnership, error) {
	prompt, err := s.promptRepo.GetByID(ctx, s.db, promptID)
	if err != nil {
		return nil, nil, err
	}

	partnership, err := s.partnerRepo.GetByID(ctx, s.db, prompt.PartnershipID)
	if err != nil {
		return nil, nil, err
	}

	if _, ok := partnership.RoleOf(userID); !ok {
		return nil, nil, models.ErrNotPartnershipMember
	}
	return prompt, partnership, nil
}

func (s *storyService) SaveStory(ctx context.Context, userID, promptID uuid.UUID, text string) (*models.DailyPrompt, error) {
	if err := ValidateStoryText(text); err != nil {
		return nil, err
	}

	prompt, partnership, err := s.loadMemberPrompt(ctx, userID, promptID)
	if err != nil {
		return nil, err
	}

	if text == "" {
		return prompt, nil
	}

	role, _ := partnership.RoleOf(userID)
	if role != prompt.AssignedTo {
		return nil, models.ErrForbidden
	}

	prompt.StoryText = text
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx repository.DBTX) error {
		if err := s.promptRepo.UpdateStoryText(ctx, tx, prompt.ID, text); err != nil {
			return err
		}
		return s.refreshMirrors(ctx, tx, partnership, prompt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save story: %w", err)
	}

	s.notifyPartner(ctx, partnership, userID, prompt, models.EventStorySaved,
		models.PushNotification{
			Title: "A new story is waiting",
			Body:  "Your partner just finished today's story.",
		})

	s.logger.Info("Story saved",
		zap.String("promptID", prompt.ID.String()),
		zap.String("userID", userID.String()))
	return prompt, nil
}

func (s *storyService) SetFavorite(ctx context.Context, userID, promptID uuid.UUID, favorite bool) (*models.DailyPrompt, error) {
	prompt, partnership, err := s.loadMemberPrompt(ctx, userID, promptID)
	if err != nil {
		return nil, err
	}

	prompt.IsFavorite = favorite
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx repository.DBTX) error {
		if err := s.promptRepo.SetFavorite(ctx, tx, prompt.ID, favorite); err != nil {
			return err
		}
		return s.refreshMirrors(ctx, tx, partnership, prompt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set favorite: %w", err)
	}

	for _, memberID := range []uuid.UUID{partnership.InviterID, partnership.InviteeID} {
		s.streamer.NotifyUser(memberID, models.EventFavoriteToggled, prompt)
	}
	return prompt, nil
}

// refreshMirrors приводит зеркала обоих партнеров в соответствие общей
// записи. Вызывается только внутри транзакции вместе с обновлением общей
// записи: частичный отказ откатывает все копии разом.
func (s *storyService) refreshMirrors(ctx context.Context, tx repository.DBTX, partnership *models.Partnership, prompt *models.DailyPrompt) error {
	for _, memberID := range []uuid.UUID{partnership.InviterID, partnership.InviteeID} {
		mirror := mirrorOf(prompt, memberID)
		if err := s.mirrorRepo.UpsertHistory(ctx, tx, mirror); err != nil {
			return err
		}
		if prompt.IsFavorite {
			if err := s.mirrorRepo.UpsertFavorite(ctx, tx, mirror); err != nil {
				return err
			}
		} else {
			if err := s.mirrorRepo.RemoveFavorite(ctx, tx, memberID, prompt.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// notifyPartner шлет push второму участнику и websocket-обновление обоим.
func (s *storyService) notifyPartner(ctx context.Context, partnership *models.Partnership, actorID uuid.UUID, prompt *models.DailyPrompt, event string, notification models.PushNotification) {
	partnerID, ok := partnership.PartnerOf(actorID)
	if ok {
		payload := models.PushNotificationPayload{
			UserID:       partnerID,
			Notification: notification,
			Data: map[string]string{
				"event":     event,
				"prompt_id": prompt.ID.String(),
			},
		}
		if err := s.publisher.PublishPushNotification(ctx, payload); err != nil {
			s.logger.Error("Failed to publish push", zap.String("event", event), zap.Error(err))
		}
	}

	for _, memberID := range []uuid.UUID{partnership.InviterID, partnership.InviteeID} {
		s.streamer.NotifyUser(memberID, event, prompt)
	}
}

func (s *storyService) ListHistory(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]*models.PromptMirror, string, error) {
	return s.mirrorRepo.ListHistory(ctx, s.db, userID, cursor, limit)
}

func (s *storyService) ListFavorites(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]*models.PromptMirror, string, error) {
	return s.mirrorRepo.ListFavorites(ctx, s.db, userID, cursor, limit)
}

func (s *storyService) ClearHistory(ctx context.Context, userID uuid.UUID) (int64, error) {
	deleted, err := s.mirrorRepo.ClearHistory(ctx, s.db, userID)
	if err != nil {
		return 0, err
	}
	s.logger.Info("History cleared",
		zap.String("userID", userID.String()),
		zap.Int64("deleted", deleted))
	return deleted, nil
}
