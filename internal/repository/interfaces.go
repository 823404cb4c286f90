package repository

import (
	"context"
	"errors"
	"time"

	"daydreams-server/internal/deck"
	"daydreams-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ошибки уровня репозитория.
var (
	ErrDeckStateNotFound = errors.New("deck state not found")
	ErrConfigKeyNotFound = errors.New("dynamic config key not found")
)

// DBTX - минимальный интерфейс querier-а pgx: его реализуют и *pgxpool.Pool,
// и pgx.Tx, поэтому репозитории работают как в транзакции, так и вне ее.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PromptRepository управляет общими записями дневных промптов.
type PromptRepository interface {
	// Insert вставляет промпт. Возвращает false без ошибки, если промпт на
	// эту дату уже существует (first-writer-wins по unique constraint).
	Insert(ctx context.Context, q DBTX, prompt *models.DailyPrompt) (bool, error)

	GetByID(ctx context.Context, q DBTX, id uuid.UUID) (*models.DailyPrompt, error)
	GetByDate(ctx context.Context, q DBTX, partnershipID uuid.UUID, date time.Time) (*models.DailyPrompt, error)
	// GetLatest возвращает самый свежий промпт партнерства или models.ErrPromptNotFound.
	GetLatest(ctx context.Context, q DBTX, partnershipID uuid.UUID) (*models.DailyPrompt, error)

	UpdateStoryText(ctx context.Context, q DBTX, id uuid.UUID, storyText string) error
	SetFavorite(ctx context.Context, q DBTX, id uuid.UUID, favorite bool) error
}

// MirrorRepository управляет денормализованными копиями промптов
// (история и избранное, по строке на пользователя).
type MirrorRepository interface {
	UpsertHistory(ctx context.Context, q DBTX, mirror *models.PromptMirror) error
	UpsertFavorite(ctx context.Context, q DBTX, mirror *models.PromptMirror) error
	RemoveFavorite(ctx context.Context, q DBTX, userID, promptID uuid.UUID) error

	ListHistory(ctx context.Context, q DBTX, userID uuid.UUID, cursor string, limit int) ([]*models.PromptMirror, string, error)
	ListFavorites(ctx context.Context, q DBTX, userID uuid.UUID, cursor string, limit int) ([]*models.PromptMirror, string, error)

	// ClearHistory удаляет все строки истории пользователя, возвращает число удаленных.
	ClearHistory(ctx context.Context, q DBTX, userID uuid.UUID) (int64, error)
}

// PartnershipRepository управляет партнерствами и приглашениями.
type PartnershipRepository interface {
	Create(ctx context.Context, q DBTX, partnership *models.Partnership) error
	GetByID(ctx context.Context, q DBTX, id uuid.UUID) (*models.Partnership, error)
	// GetByUserID находит партнерство, где пользователь является любой из сторон.
	GetByUserID(ctx context.Context, q DBTX, userID uuid.UUID) (*models.Partnership, error)

	CreateInvitation(ctx context.Context, q DBTX, invitation *models.Invitation) error
	GetInvitationByCode(ctx context.Context, q DBTX, code string) (*models.Invitation, error)
	UpdateInvitationStatus(ctx context.Context, q DBTX, id uuid.UUID, status models.InvitationStatus) error
}

// SettingsRepository управляет настройками партнерств.
type SettingsRepository interface {
	Get(ctx context.Context, q DBTX, partnershipID uuid.UUID) (*models.CategorySettings, error)
	Upsert(ctx context.Context, q DBTX, settings *models.CategorySettings) error
	// ListAll возвращает настройки всех партнерств (для шедулера напоминаний).
	ListAll(ctx context.Context, q DBTX) ([]*models.CategorySettings, error)
}

// DeviceTokenRepository хранит push-токены устройств пользователей.
type DeviceTokenRepository interface {
	Save(ctx context.Context, userID uuid.UUID, token, platform string) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.DeviceTokenInfo, error)
	Delete(ctx context.Context, userID uuid.UUID, token string) error
	DeleteForUser(ctx context.Context, userID uuid.UUID) error
}

// DeckStateRepository хранит состояние колоды партнерства.
type DeckStateRepository interface {
	// Get возвращает ErrDeckStateNotFound, если состояния еще нет.
	Get(ctx context.Context, partnershipID uuid.UUID) (*deck.State, error)
	Save(ctx context.Context, partnershipID uuid.UUID, state *deck.State) error
	Delete(ctx context.Context, partnershipID uuid.UUID) error
}

// DynamicConfigRepository хранит динамические конфигурации (ключ -> значение).
type DynamicConfigRepository interface {
	Get(ctx context.Context, q DBTX, key string) (string, error)
	GetAll(ctx context.Context, q DBTX) (map[string]string, error)
	Set(ctx context.Context, q DBTX, key, value string) error
}
