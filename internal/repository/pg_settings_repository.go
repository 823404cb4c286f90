package repository

import (
	"context"
	"errors"
	"fmt"

	"daydreams-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// pgSettingsRepository реализует SettingsRepository для PostgreSQL.
type pgSettingsRepository struct {
	logger *zap.Logger
}

var _ SettingsRepository = (*pgSettingsRepository)(nil)

// NewPgSettingsRepository создает репозиторий настроек партнерств.
func NewPgSettingsRepository(logger *zap.Logger) SettingsRepository {
	return &pgSettingsRepository{
		logger: logger.Named("PgSettingsRepo"),
	}
}

func (r *pgSettingsRepository) Get(ctx context.Context, q DBTX, partnershipID uuid.UUID) (*models.CategorySettings, error) {
	query := `
		SELECT partnership_id, enabled_categories, reminder_hour, reminder_minute, timezone, updated_at
		FROM partnership_settings WHERE partnership_id = $1`
	var s models.CategorySettings
	err := q.QueryRow(ctx, query, partnershipID).Scan(
		&s.PartnershipID, &s.EnabledCategories, &s.ReminderHour, &s.ReminderMinute, &s.Timezone, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrSettingsNotFound
		}
		r.logger.Error("Failed to get settings",
			zap.String("partnershipID", partnershipID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &s, nil
}

func (r *pgSettingsRepository) Upsert(ctx context.Context, q DBTX, settings *models.CategorySettings) error {
	query := `
		INSERT INTO partnership_settings (partnership_id, enabled_categories, reminder_hour, reminder_minute, timezone, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (partnership_id)
		DO UPDATE SET
			enabled_categories = EXCLUDED.enabled_categories,
			reminder_hour = EXCLUDED.reminder_hour,
			reminder_minute = EXCLUDED.reminder_minute,
			timezone = EXCLUDED.timezone,
			updated_at = NOW();`
	_, err := q.Exec(ctx, query,
		settings.PartnershipID, settings.EnabledCategories,
		settings.ReminderHour, settings.ReminderMinute, settings.Timezone)
	if err != nil {
		r.logger.Error("Failed to upsert settings",
			zap.String("partnershipID", settings.PartnershipID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to upsert settings: %w", err)
	}
	r.logger.Info("Settings upserted",
		zap.String("partnershipID", settings.PartnershipID.String()),
		zap.Strings("categories", settings.EnabledCategories))
	return nil
}

func (r *pgSettingsRepository) ListAll(ctx context.Context, q DBTX) ([]*models.CategorySettings, error) {
	query := `
		SELECT partnership_id, enabled_categories, reminder_hour, reminder_minute, timezone, updated_at
		FROM partnership_settings`
	rows, err := q.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list all settings", zap.Error(err))
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var result []*models.CategorySettings
	for rows.Next() {
		var s models.CategorySettings
		if err := rows.Scan(&s.PartnershipID, &s.EnabledCategories, &s.ReminderHour,
			&s.ReminderMinute, &s.Timezone, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settings row: %w", err)
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error listing settings: %w", err)
	}
	return result, nil
}
