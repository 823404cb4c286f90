package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// pgDynamicConfigRepository реализует DynamicConfigRepository для PostgreSQL.
type pgDynamicConfigRepository struct {
	logger *zap.Logger
}

var _ DynamicConfigRepository = (*pgDynamicConfigRepository)(nil)

// NewPgDynamicConfigRepository создает репозиторий динамических конфигураций.
func NewPgDynamicConfigRepository(logger *zap.Logger) DynamicConfigRepository {
	return &pgDynamicConfigRepository{
		logger: logger.Named("PgDynamicConfigRepo"),
	}
}

func (r *pgDynamicConfigRepository) Get(ctx context.Context, q DBTX, key string) (string, error) {
	query := `SELECT value FROM dynamic_configs WHERE key = $1`
	var value string
	err := q.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrConfigKeyNotFound
		}
		r.logger.Error("Failed to get dynamic config", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to get dynamic config: %w", err)
	}
	return value, nil
}

func (r *pgDynamicConfigRepository) GetAll(ctx context.Context, q DBTX) (map[string]string, error) {
	query := `SELECT key, value FROM dynamic_configs`
	rows, err := q.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to get all dynamic configs", zap.Error(err))
		return nil, fmt.Errorf("failed to get all dynamic configs: %w", err)
	}
	defer rows.Close()

	configs := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan dynamic config row: %w", err)
		}
		configs[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error reading dynamic configs: %w", err)
	}
	return configs, nil
}

func (r *pgDynamicConfigRepository) Set(ctx context.Context, q DBTX, key, value string) error {
	query := `
		INSERT INTO dynamic_configs (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW();`
	_, err := q.Exec(ctx, query, key, value)
	if err != nil {
		r.logger.Error("Failed to set dynamic config", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to set dynamic config: %w", err)
	}
	return nil
}
