package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"daydreams-server/internal/deck"
	"daydreams-server/internal/messaging"
	"daydreams-server/internal/models"
	"daydreams-server/internal/repository"
)

const (
	invitationCodeLength = 8
	invitationTTL        = 7 * 24 * time.Hour
	// Алфавит без визуально похожих символов: код диктуют вслух.
	invitationCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

// PartnershipService управляет приглашениями и партнерствами.
type PartnershipService interface {
	// CreateInvitation выпускает код приглашения. Пользователь, уже
	// состоящий в партнерстве, второго создать не может.
	CreateInvitation(ctx context.Context, inviterID uuid.UUID) (*models.Invitation, error)

	// AcceptInvitation принимает приглашение по коду: создает партнерство
	// и настройки по умолчанию одной транзакцией.
	AcceptInvitation(ctx context.Context, inviteeID uuid.UUID, code string) (*models.Partnership, error)

	RejectInvitation(ctx context.Context, userID uuid.UUID, code string) error

	// GetMine возвращает партнерство пользователя или models.ErrNoPartnership.
	GetMine(ctx context.Context, userID uuid.UUID) (*models.Partnership, error)
}

type partnershipService struct {
	db           repository.DBTX
	tx           repository.Transactor
	partnerRepo  repository.PartnershipRepository
	settingsRepo repository.SettingsRepository
	publisher    messaging.PushNotificationPublisher
	streamer     UpdateStreamer
	logger       *zap.Logger
}

var _ PartnershipService = (*partnershipService)(nil)

// NewPartnershipService создает сервис партнерств.
func NewPartnershipService(
	db repository.DBTX,
	tx repository.Transactor,
	partnerRepo repository.PartnershipRepository,
	settingsRepo repository.SettingsRepository,
	publisher messaging.PushNotificationPublisher,
	streamer UpdateStreamer,
	logger *zap.Logger,
) PartnershipService {
	return &partnershipService{
		db:           db,
		tx:           tx,
		partnerRepo:  partnerRepo,
		settingsRepo: settingsRepo,
		publisher:    publisher,
		streamer:     streamer,
		logger:       logger.Named("PartnershipService"),
	}
}

// generateInvitationCode генерирует криптослучайный код приглашения.
func generateInvitationCode() (string, error) {
	buf := make([]byte, invitationCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invitation code: %w", err)
	}
	for i, b := range buf {
		buf[i] = invitationCodeAlphabet[int(b)%len(invitationCodeAlphabet)]
	}
	return string(buf), nil
}

func (s *partnershipService) CreateInvitation(ctx context.Context, inviterID uuid.UUID) (*models.Invitation, error) {
	_, err := s.partnerRepo.GetByUserID(ctx, s.db, inviterID)
	if err == nil {
		return nil, models.ErrAlreadyPartnered
	}
	if !errors.Is(err, models.ErrNoPartnership) {
		return nil, err
	}

	code, err := generateInvitationCode()
	if err != nil {
		return nil, err
	}

	invitation := &models.Invitation{
		ID:        uuid.New(),
		Code:      code,
		InviterID: inviterID,
		Status:    models.InvitationStatusPending,
		ExpiresAt: time.Now().Add(invitationTTL),
	}
	if err := s.partnerRepo.CreateInvitation(ctx, s.db, invitation); err != nil {
		return nil, err
	}

	s.logger.Info("Invitation created",
		zap.String("inviterID", inviterID.String()),
		zap.String("invitationID", invitation.ID.String()))
	return invitation, nil
}

// loadPendingInvitation загружает приглашение и проверяет, что оно еще
// действует.
func (s *partnershipService) loadPendingInvitation(ctx context.Context, code string) (*models.Invitation, error) {
	invitation, err := s.partnerRepo.GetInvitationByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if invitation.Status != models.InvitationStatusPending {
		return nil, models.ErrInvitationNotFound
	}
	if time.Now().After(invitation.ExpiresAt) {
		return nil, models.ErrInvitationExpired
	}
	return invitation, nil
}

func (s *partnershipService) AcceptInvitation(ctx context.Context, inviteeID uuid.UUID, code string) (*models.Partnership, error) {
	invitation, err := s.loadPendingInvitation(ctx, code)
	if err != nil {
		return nil, err
	}
	if invitation.InviterID == inviteeID {
		return nil, models.ErrSelfInvitation
	}

	for _, memberID := range []uuid.UUID{invitation.InviterID, inviteeID} {
		_, err := s.partnerRepo.GetByUserID(ctx, s.db, memberID)
		if err == nil {
			return nil, models.ErrAlreadyPartnered
		}
		if !errors.Is(err, models.ErrNoPartnership) {
			return nil, err
		}
	}

	partnership := &models.Partnership{
		ID:        uuid.New(),
		InviterID: invitation.InviterID,
		InviteeID: inviteeID,
	}

	// Партнерство, статус приглашения и настройки по умолчанию создаются
	// одной транзакцией: наполовину принятых приглашений не бывает.
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx repository.DBTX) error {
		if err := s.partnerRepo.Create(ctx, tx, partnership); err != nil {
			return err
		}
		if err := s.partnerRepo.UpdateInvitationStatus(ctx, tx, invitation.ID, models.InvitationStatusAccepted); err != nil {
			return err
		}
		return s.settingsRepo.Upsert(ctx, tx, models.DefaultSettings(partnership.ID, deck.CategoryOrder))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}

	payload := models.PushNotificationPayload{
		UserID: invitation.InviterID,
		Notification: models.PushNotification{
			Title: "Invitation accepted",
			Body:  "Your partner joined. Your first daydream is ready.",
		},
		Data: map[string]string{
			"event":          models.EventInvitationAccepted,
			"partnership_id": partnership.ID.String(),
		},
	}
	if err := s.publisher.PublishPushNotification(ctx, payload); err != nil {
		s.logger.Error("Failed to publish invitation push", zap.Error(err))
	}
	s.streamer.NotifyUser(invitation.InviterID, models.EventInvitationAccepted, partnership)

	s.logger.Info("Invitation accepted",
		zap.String("partnershipID", partnership.ID.String()),
		zap.String("inviterID", invitation.InviterID.String()),
		zap.String("inviteeID", inviteeID.String()))
	return partnership, nil
}

func (s *partnershipService) RejectInvitation(ctx context.Context, userID uuid.UUID, code string) error {
	invitation, err := s.loadPendingInvitation(ctx, code)
	if err != nil {
		return err
	}
	if invitation.InviterID == userID {
		return models.ErrSelfInvitation
	}

	if err := s.partnerRepo.UpdateInvitationStatus(ctx, s.db, invitation.ID, models.InvitationStatusRejected); err != nil {
		return err
	}
	s.logger.Info("Invitation rejected", zap.String("invitationID", invitation.ID.String()))
	return nil
}

func (s *partnershipService) GetMine(ctx context.Context, userID uuid.UUID) (*models.Partnership, error) {
	return s.partnerRepo.GetByUserID(ctx, s.db, userID)
}
