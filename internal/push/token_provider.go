package push

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"daydreams-server/internal/models"
	"daydreams-server/internal/repository"
)

// TokenProvider возвращает push-токены устройств пользователя.
type TokenProvider interface {
	GetUserDeviceTokens(ctx context.Context, userID uuid.UUID) ([]models.DeviceTokenInfo, error)
}

// dbTokenProvider читает токены напрямую из общей БД.
type dbTokenProvider struct {
	repo   repository.DeviceTokenRepository
	logger *zap.Logger
}

var _ TokenProvider = (*dbTokenProvider)(nil)

// NewDBTokenProvider создает провайдер токенов поверх репозитория.
func NewDBTokenProvider(repo repository.DeviceTokenRepository, logger *zap.Logger) TokenProvider {
	return &dbTokenProvider{
		repo:   repo,
		logger: logger.Named("DBTokenProvider"),
	}
}

func (p *dbTokenProvider) GetUserDeviceTokens(ctx context.Context, userID uuid.UUID) ([]models.DeviceTokenInfo, error) {
	tokens, err := p.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Device tokens fetched",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(tokens)))
	return tokens, nil
}
