package repository

import (
	"context"
	"fmt"

	"daydreams-server/internal/models"
	"daydreams-server/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// pgMirrorRepository реализует MirrorRepository для PostgreSQL.
// История и избранное - две отдельные денормализованные таблицы,
// заполняемые copy-on-write из общей записи.
type pgMirrorRepository struct {
	logger *zap.Logger
}

var _ MirrorRepository = (*pgMirrorRepository)(nil)

// NewPgMirrorRepository создает репозиторий зеркальных копий.
func NewPgMirrorRepository(logger *zap.Logger) MirrorRepository {
	return &pgMirrorRepository{
		logger: logger.Named("PgMirrorRepo"),
	}
}

const upsertHistoryQuery = `
	INSERT INTO prompt_history (prompt_id, user_id, partnership_id, prompt_date, selections, assigned_to, story_text, is_favorite, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	ON CONFLICT (user_id, prompt_id)
	DO UPDATE SET
		selections = EXCLUDED.selections,
		story_text = EXCLUDED.story_text,
		is_favorite = EXCLUDED.is_favorite,
		updated_at = NOW();`

const upsertFavoriteQuery = `
	INSERT INTO prompt_favorites (prompt_id, user_id, partnership_id, prompt_date, selections, assigned_to, story_text, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	ON CONFLICT (user_id, prompt_id)
	DO UPDATE SET
		selections = EXCLUDED.selections,
		story_text = EXCLUDED.story_text,
		updated_at = NOW();`

func (r *pgMirrorRepository) UpsertHistory(ctx context.Context, q DBTX, mirror *models.PromptMirror) error {
	_, err := q.Exec(ctx, upsertHistoryQuery,
		mirror.PromptID, mirror.UserID, mirror.PartnershipID, mirror.PromptDate,
		mirror.Selections, mirror.AssignedTo, mirror.StoryText, mirror.IsFavorite)
	if err != nil {
		r.logger.Error("Failed to upsert history mirror",
			zap.String("promptID", mirror.PromptID.String()),
			zap.String("userID", mirror.UserID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to upsert history mirror: %w", err)
	}
	return nil
}

func (r *pgMirrorRepository) UpsertFavorite(ctx context.Context, q DBTX, mirror *models.PromptMirror) error {
	_, err := q.Exec(ctx, upsertFavoriteQuery,
		mirror.PromptID, mirror.UserID, mirror.PartnershipID, mirror.PromptDate,
		mirror.Selections, mirror.AssignedTo, mirror.StoryText)
	if err != nil {
		r.logger.Error("Failed to upsert favorite mirror",
			zap.String("promptID", mirror.PromptID.String()),
			zap.String("userID", mirror.UserID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to upsert favorite mirror: %w", err)
	}
	return nil
}

func (r *pgMirrorRepository) RemoveFavorite(ctx context.Context, q DBTX, userID, promptID uuid.UUID) error {
	query := `DELETE FROM prompt_favorites WHERE user_id = $1 AND prompt_id = $2`
	_, err := q.Exec(ctx, query, userID, promptID)
	if err != nil {
		r.logger.Error("Failed to remove favorite mirror",
			zap.String("promptID", promptID.String()),
			zap.String("userID", userID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to remove favorite mirror: %w", err)
	}
	// Отсутствующая строка не ошибка: снятие избранного идемпотентно
	return nil
}

func (r *pgMirrorRepository) ListHistory(ctx context.Context, q DBTX, userID uuid.UUID, cursor string, limit int) ([]*models.PromptMirror, string, error) {
	return r.list(ctx, q, "prompt_history", true, userID, cursor, limit)
}

func (r *pgMirrorRepository) ListFavorites(ctx context.Context, q DBTX, userID uuid.UUID, cursor string, limit int) ([]*models.PromptMirror, string, error) {
	return r.list(ctx, q, "prompt_favorites", false, userID, cursor, limit)
}

func (r *pgMirrorRepository) ClearHistory(ctx context.Context, q DBTX, userID uuid.UUID) (int64, error) {
	query := `DELETE FROM prompt_history WHERE user_id = $1`
	tag, err := q.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to clear history", zap.String("userID", userID.String()), zap.Error(err))
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	r.logger.Info("History cleared",
		zap.String("userID", userID.String()),
		zap.Int64("removed", tag.RowsAffected()))
	return tag.RowsAffected(), nil
}

// list выполняет keyset-пагинацию по (updated_at, prompt_id).
// hasFavoriteColumn: в таблице избранного нет колонки is_favorite (строка
// там сама по себе означает "в избранном").
func (r *pgMirrorRepository) list(ctx context.Context, q DBTX, table string, hasFavoriteColumn bool, userID uuid.UUID, cursor string, limit int) ([]*models.PromptMirror, string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	cursorTime, cursorID, err := utils.DecodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	favExpr := "is_favorite"
	if !hasFavoriteColumn {
		favExpr = "TRUE"
	}

	var query string
	args := []any{userID, limit + 1}
	if cursorID == uuid.Nil {
		query = fmt.Sprintf(`
			SELECT prompt_id, user_id, partnership_id, prompt_date, selections, assigned_to, story_text, %s, updated_at
			FROM %s WHERE user_id = $1
			ORDER BY updated_at DESC, prompt_id DESC
			LIMIT $2`, favExpr, table)
	} else {
		query = fmt.Sprintf(`
			SELECT prompt_id, user_id, partnership_id, prompt_date, selections, assigned_to, story_text, %s, updated_at
			FROM %s WHERE user_id = $1 AND (updated_at, prompt_id) < ($3, $4)
			ORDER BY updated_at DESC, prompt_id DESC
			LIMIT $2`, favExpr, table)
		args = append(args, cursorTime, cursorID)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list mirrors", zap.String("table", table), zap.Error(err))
		return nil, "", fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	mirrors := make([]*models.PromptMirror, 0, limit)
	for rows.Next() {
		var m models.PromptMirror
		if err := rows.Scan(&m.PromptID, &m.UserID, &m.PartnershipID, &m.PromptDate,
			&m.Selections, &m.AssignedTo, &m.StoryText, &m.IsFavorite, &m.UpdatedAt); err != nil {
			return nil, "", fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		mirrors = append(mirrors, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("rows error listing %s: %w", table, err)
	}

	nextCursor := ""
	if len(mirrors) > limit {
		mirrors = mirrors[:limit]
		last := mirrors[len(mirrors)-1]
		nextCursor = utils.EncodeCursor(last.UpdatedAt, last.PromptID)
	}
	return mirrors, nextCursor, nil
}
