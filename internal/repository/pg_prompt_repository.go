package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daydreams-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const promptColumns = `id, partnership_id, prompt_date, selections, assigned_to, story_text, is_favorite, created_at, updated_at`

// pgPromptRepository реализует PromptRepository для PostgreSQL.
type pgPromptRepository struct {
	logger *zap.Logger
}

// Compile-time check
var _ PromptRepository = (*pgPromptRepository)(nil)

// NewPgPromptRepository создает новый репозиторий дневных промптов.
func NewPgPromptRepository(logger *zap.Logger) PromptRepository {
	return &pgPromptRepository{
		logger: logger.Named("PgPromptRepo"),
	}
}

// Insert вставляет промпт с ON CONFLICT DO NOTHING по (partnership_id, prompt_date).
// Возвращает false, если запись на эту дату уже существует: гонку двух партнеров
// выигрывает первый писатель, второй перечитывает существующую запись.
func (r *pgPromptRepository) Insert(ctx context.Context, q DBTX, prompt *models.DailyPrompt) (bool, error) {
	query := `
		INSERT INTO daily_prompts (id, partnership_id, prompt_date, selections, assigned_to, story_text, is_favorite, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, '', FALSE, NOW(), NOW())
		ON CONFLICT (partnership_id, prompt_date) DO NOTHING`
	logFields := []zap.Field{
		zap.String("promptID", prompt.ID.String()),
		zap.String("partnershipID", prompt.PartnershipID.String()),
		zap.String("promptDate", prompt.PromptDate.Format("2006-01-02")),
	}
	r.logger.Debug("Inserting daily prompt", logFields...)

	tag, err := q.Exec(ctx, query,
		prompt.ID, prompt.PartnershipID, prompt.PromptDate, prompt.Selections, prompt.AssignedTo)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			r.logger.Warn("Partnership not found for prompt insert (foreign key violation)", logFields...)
			return false, models.ErrPartnershipNotFound
		}
		r.logger.Error("Failed to insert daily prompt", append(logFields, zap.Error(err))...)
		return false, fmt.Errorf("failed to insert daily prompt: %w", err)
	}

	inserted := tag.RowsAffected() > 0
	if inserted {
		r.logger.Info("Daily prompt inserted", logFields...)
	} else {
		r.logger.Info("Daily prompt already exists for this date, insert skipped", logFields...)
	}
	return inserted, nil
}

func (r *pgPromptRepository) GetByID(ctx context.Context, q DBTX, id uuid.UUID) (*models.DailyPrompt, error) {
	query := fmt.Sprintf(`SELECT %s FROM daily_prompts WHERE id = $1`, promptColumns)
	return r.scanOne(ctx, q, query, id)
}

func (r *pgPromptRepository) GetByDate(ctx context.Context, q DBTX, partnershipID uuid.UUID, date time.Time) (*models.DailyPrompt, error) {
	query := fmt.Sprintf(`SELECT %s FROM daily_prompts WHERE partnership_id = $1 AND prompt_date = $2`, promptColumns)
	return r.scanOne(ctx, q, query, partnershipID, date)
}

// GetLatest возвращает самую свежую запись партнерства. Нужен Turn Alternator-у:
// следующий автор вычисляется от автора последней записи.
func (r *pgPromptRepository) GetLatest(ctx context.Context, q DBTX, partnershipID uuid.UUID) (*models.DailyPrompt, error) {
	query := fmt.Sprintf(`SELECT %s FROM daily_prompts WHERE partnership_id = $1 ORDER BY prompt_date DESC LIMIT 1`, promptColumns)
	return r.scanOne(ctx, q, query, partnershipID)
}

func (r *pgPromptRepository) UpdateStoryText(ctx context.Context, q DBTX, id uuid.UUID, storyText string) error {
	query := `UPDATE daily_prompts SET story_text = $2, updated_at = NOW() WHERE id = $1`
	tag, err := q.Exec(ctx, query, id, storyText)
	if err != nil {
		r.logger.Error("Failed to update story text", zap.String("promptID", id.String()), zap.Error(err))
		return fmt.Errorf("failed to update story text: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrPromptNotFound
	}
	return nil
}

func (r *pgPromptRepository) SetFavorite(ctx context.Context, q DBTX, id uuid.UUID, favorite bool) error {
	query := `UPDATE daily_prompts SET is_favorite = $2, updated_at = NOW() WHERE id = $1`
	tag, err := q.Exec(ctx, query, id, favorite)
	if err != nil {
		r.logger.Error("Failed to set favorite flag", zap.String("promptID", id.String()), zap.Error(err))
		return fmt.Errorf("failed to set favorite flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrPromptNotFound
	}
	return nil
}

func (r *pgPromptRepository) scanOne(ctx context.Context, q DBTX, query string, args ...any) (*models.DailyPrompt, error) {
	var p models.DailyPrompt
	err := q.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.PartnershipID, &p.PromptDate, &p.Selections, &p.AssignedTo,
		&p.StoryText, &p.IsFavorite, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPromptNotFound
		}
		r.logger.Error("Failed to scan daily prompt", zap.Error(err))
		return nil, fmt.Errorf("failed to query daily prompt: %w", err)
	}
	return &p, nil
}
