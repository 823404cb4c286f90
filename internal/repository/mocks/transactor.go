package mocks

import (
	"context"

	"daydreams-server/internal/repository"
)

// Transactor - тестовая замена TxManager: выполняет функцию без реальной
// транзакции, querier внутри nil (репозитории в юнит-тестах тоже моки).
type Transactor struct {
	// Err, если задан, возвращается вместо выполнения функции.
	Err error
}

var _ repository.Transactor = (*Transactor)(nil)

func (t *Transactor) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.DBTX) error) error {
	if t.Err != nil {
		return t.Err
	}
	return fn(ctx, nil)
}
