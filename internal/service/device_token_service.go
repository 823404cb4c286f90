package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"daydreams-server/internal/repository"
)

// Поддерживаемые платформы push-токенов.
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// DeviceTokenService регистрирует push-токены устройств.
type DeviceTokenService interface {
	Register(ctx context.Context, userID uuid.UUID, token, platform string) error
	Unregister(ctx context.Context, userID uuid.UUID, token string) error
	UnregisterAll(ctx context.Context, userID uuid.UUID) error
}

type deviceTokenService struct {
	tokenRepo repository.DeviceTokenRepository
	logger    *zap.Logger
}

var _ DeviceTokenService = (*deviceTokenService)(nil)

// NewDeviceTokenService создает сервис push-токенов.
func NewDeviceTokenService(tokenRepo repository.DeviceTokenRepository, logger *zap.Logger) DeviceTokenService {
	return &deviceTokenService{
		tokenRepo: tokenRepo,
		logger:    logger.Named("DeviceTokenService"),
	}
}

func (s *deviceTokenService) Register(ctx context.Context, userID uuid.UUID, token, platform string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return &ValidationError{Field: "token", Reason: "must not be empty"}
	}

	platform = strings.ToLower(platform)
	if platform != PlatformIOS && platform != PlatformAndroid {
		return &ValidationError{Field: "platform", Reason: "must be ios or android"}
	}

	if err := s.tokenRepo.Save(ctx, userID, token, platform); err != nil {
		return err
	}
	s.logger.Info("Device token registered",
		zap.String("userID", userID.String()),
		zap.String("platform", platform))
	return nil
}

func (s *deviceTokenService) Unregister(ctx context.Context, userID uuid.UUID, token string) error {
	return s.tokenRepo.Delete(ctx, userID, token)
}

func (s *deviceTokenService) UnregisterAll(ctx context.Context, userID uuid.UUID) error {
	return s.tokenRepo.DeleteForUser(ctx, userID)
}
