package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Transactor выполняет функцию в границах одной транзакции.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// TxManager выполняет функции в транзакции с автоматическим rollback при ошибке.
// Зеркальные записи (общая запись + история + избранное) идут через него,
// чтобы частичный отказ не оставлял копии рассинхронизированными.
type TxManager struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

var _ Transactor = (*TxManager)(nil)

// NewTxManager создает новый менеджер транзакций.
func NewTxManager(db *pgxpool.Pool, logger *zap.Logger) *TxManager {
	return &TxManager{
		db:     db,
		logger: logger.Named("TxManager"),
	}
}

// WithTransaction выполняет fn в транзакции.
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				m.logger.Error("Failed to rollback transaction after panic",
					zap.Error(rollbackErr),
					zap.Any("panic", p))
			}
			panic(p) // re-throw panic after rollback
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			m.logger.Error("Failed to rollback transaction",
				zap.Error(rollbackErr),
				zap.NamedError("original_error", err))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
