package repository

import (
	"context"
	"fmt"

	"daydreams-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	saveDeviceTokenQuery = `
		INSERT INTO user_device_tokens (user_id, token, platform, last_used_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, token)
		DO UPDATE SET
			platform = EXCLUDED.platform,
			last_used_at = NOW();
	`
	getDeviceTokensForUserQuery = `
		SELECT token, platform
		FROM user_device_tokens
		WHERE user_id = $1;
	`
	deleteDeviceTokenQuery         = `DELETE FROM user_device_tokens WHERE user_id = $1 AND token = $2;`
	deleteDeviceTokensForUserQuery = `DELETE FROM user_device_tokens WHERE user_id = $1;`
)

// pgDeviceTokenRepository реализует DeviceTokenRepository для PostgreSQL.
type pgDeviceTokenRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

var _ DeviceTokenRepository = (*pgDeviceTokenRepository)(nil)

// NewPgDeviceTokenRepository создает репозиторий push-токенов устройств.
func NewPgDeviceTokenRepository(db *pgxpool.Pool, logger *zap.Logger) DeviceTokenRepository {
	return &pgDeviceTokenRepository{
		db:     db,
		logger: logger.Named("device_token_repo"),
	}
}

// Save сохраняет или обновляет токен устройства для пользователя.
// Использует INSERT ... ON CONFLICT DO UPDATE для атомарности.
func (r *pgDeviceTokenRepository) Save(ctx context.Context, userID uuid.UUID, token, platform string) error {
	_, err := r.db.Exec(ctx, saveDeviceTokenQuery, userID, token, platform)
	if err != nil {
		r.logger.Error("Failed to save device token",
			zap.String("userID", userID.String()),
			zap.String("platform", platform),
			zap.Error(err),
		)
		return fmt.Errorf("db error saving device token: %w", err)
	}
	r.logger.Debug("Device token saved",
		zap.String("userID", userID.String()),
		zap.String("platform", platform))
	return nil
}

func (r *pgDeviceTokenRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.DeviceTokenInfo, error) {
	rows, err := r.db.Query(ctx, getDeviceTokensForUserQuery, userID)
	if err != nil {
		r.logger.Error("Failed to list device tokens",
			zap.String("userID", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("db error listing device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []models.DeviceTokenInfo
	for rows.Next() {
		var info models.DeviceTokenInfo
		if err := rows.Scan(&info.Token, &info.Platform); err != nil {
			return nil, fmt.Errorf("db error scanning device token: %w", err)
		}
		tokens = append(tokens, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db rows error listing device tokens: %w", err)
	}
	return tokens, nil
}

func (r *pgDeviceTokenRepository) Delete(ctx context.Context, userID uuid.UUID, token string) error {
	_, err := r.db.Exec(ctx, deleteDeviceTokenQuery, userID, token)
	if err != nil {
		r.logger.Error("Failed to delete device token",
			zap.String("userID", userID.String()),
			zap.Error(err))
		return fmt.Errorf("db error deleting device token: %w", err)
	}
	return nil
}

func (r *pgDeviceTokenRepository) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, deleteDeviceTokensForUserQuery, userID)
	if err != nil {
		r.logger.Error("Failed to delete device tokens for user",
			zap.String("userID", userID.String()),
			zap.Error(err))
		return fmt.Errorf("db error deleting device tokens for user: %w", err)
	}
	return nil
}
