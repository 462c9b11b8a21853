package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
)

type RoundRepositoryAdapter struct {
	db      *sqlx.DB
	dialect dialect
}

func NewRoundRepositoryAdapter(db *sqlx.DB) *RoundRepositoryAdapter {
	return &RoundRepositoryAdapter{db: db, dialect: dialectFor(db)}
}

func (r *RoundRepositoryAdapter) GetOrCreate(ctx context.Context) (*entity.Round, error) {
	var round *entity.Round
	err := WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := ensureRound(ctx, tx); err != nil {
			return err
		}
		var found bool
		var err error
		round, found, err = loadRound(ctx, tx, r.dialect.shareLock)
		if err != nil {
			return err
		}
		if !found {
			return apperror.ErrPhaseNotFound
		}
		return nil
	})
	return round, err
}

func (r *RoundRepositoryAdapter) Get(ctx context.Context) (*entity.Round, error) {
	var row roundRow
	if err := r.db.GetContext(ctx, &row, selectRoundQuery); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrPhaseNotFound
		}
		return nil, apperror.Storage(err, "не удалось получить состояние процесса")
	}
	return row.toEntity(), nil
}

func (r *RoundRepositoryAdapter) SetBudget(ctx context.Context, amount valueobject.Money) (*entity.Round, error) {
	if !amount.IsPositive() {
		return nil, apperror.Validation("бюджет должен быть положительным")
	}

	var round *entity.Round
	err := WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		current, found, err := loadRound(ctx, tx, r.dialect.updateLock)
		if err != nil {
			return err
		}
		if !found {
			return apperror.ErrPhaseNotFound
		}
		if err := current.Phase.Require(valueobject.PhaseBudgetDefinition); err != nil {
			return err
		}

		query := `UPDATE rounds SET budget_cents = ?, updated_at = CURRENT_TIMESTAMP WHERE id = 1`
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), amount.Cents); err != nil {
			return apperror.Storage(err, "не удалось сохранить бюджет")
		}

		current.Budget = &amount
		round = current
		return nil
	})
	return round, err
}

// Advance переводит процесс на следующую фазу. Если процесса ещё нет, создаёт его в фазе 0.
func (r *RoundRepositoryAdapter) Advance(ctx context.Context) (valueobject.Phase, error) {
	var phase valueobject.Phase
	err := WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		current, found, err := loadRound(ctx, tx, r.dialect.updateLock)
		if err != nil {
			return err
		}
		if !found {
			phase = valueobject.PhaseBudgetDefinition
			return ensureRound(ctx, tx)
		}

		next, err := current.Phase.Next()
		if err != nil {
			return err
		}

		query := `UPDATE rounds SET phase = ?, updated_at = CURRENT_TIMESTAMP WHERE id = 1`
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), int(next)); err != nil {
			return apperror.Storage(err, "не удалось сменить фазу")
		}
		phase = next
		return nil
	})
	return phase, err
}

// Reset удаляет голоса, предложения и сам процесс. Пользователи не затрагиваются.
func (r *RoundRepositoryAdapter) Reset(ctx context.Context) error {
	return WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, query := range []string{
			`DELETE FROM votes`,
			`DELETE FROM proposals`,
			`DELETE FROM rounds`,
		} {
			if _, err := tx.ExecContext(ctx, query); err != nil {
				return apperror.Storage(err, "не удалось сбросить процесс")
			}
		}
		return nil
	})
}

const selectRoundQuery = `SELECT phase, budget_cents FROM rounds WHERE id = 1`

type roundRow struct {
	Phase       int           `db:"phase"`
	BudgetCents sql.NullInt64 `db:"budget_cents"`
}

func (r roundRow) toEntity() *entity.Round {
	round := &entity.Round{Phase: valueobject.Phase(r.Phase)}
	if r.BudgetCents.Valid {
		budget := valueobject.MoneyFromCents(r.BudgetCents.Int64)
		round.Budget = &budget
	}
	return round
}

func ensureRound(ctx context.Context, tx *sqlx.Tx) error {
	query := `INSERT INTO rounds (id, phase) VALUES (1, 0) ON CONFLICT (id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return apperror.Storage(err, "не удалось создать процесс")
	}
	return nil
}

// loadRound читает строку процесса внутри транзакции с указанной блокировкой.
func loadRound(ctx context.Context, tx *sqlx.Tx, lock string) (*entity.Round, bool, error) {
	var row roundRow
	if err := tx.GetContext(ctx, &row, selectRoundQuery+lock); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, apperror.Storage(err, "не удалось получить состояние процесса")
	}
	return row.toEntity(), true, nil
}

// lockRoundInPhase блокирует процесс и проверяет фазу. Отсутствие процесса равно фазе 0.
func lockRoundInPhase(ctx context.Context, tx *sqlx.Tx, lock string, expected valueobject.Phase) (*entity.Round, error) {
	round, found, err := loadRound(ctx, tx, lock)
	if err != nil {
		return nil, err
	}
	if !found {
		round = &entity.Round{Phase: valueobject.PhaseBudgetDefinition}
	}
	if err := round.Phase.Require(expected); err != nil {
		return nil, err
	}
	return round, nil
}
