package persistence

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
)

// WithTransaction выполняет функцию внутри транзакции с правильной обработкой ошибок.
// Доменные ошибки возвращаются как есть, ошибки драйвера оборачиваются в DATABASE_ERROR.
func WithTransaction(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.Storage(err, "не удалось начать транзакцию")
	}

	defer func() {
		if p := recover(); p != nil {
			// При панике откатываем транзакцию
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, context.Canceled) {
			return apperror.Storage(errors.Join(err, rbErr), "не удалось откатить транзакцию")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperror.Storage(err, "не удалось зафиксировать транзакцию")
	}

	return nil
}
