package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
)

type ApprovalRepositoryAdapter struct {
	db      *sqlx.DB
	dialect dialect
}

func NewApprovalRepositoryAdapter(db *sqlx.DB) *ApprovalRepositoryAdapter {
	return &ApprovalRepositoryAdapter{db: db, dialect: dialectFor(db)}
}

// Apply считает одобрения и переписывает флаги approved в одной транзакции.
// Строка процесса заблокирована до фиксации, поэтому предложения и голоса не меняются во время расчёта.
func (r *ApprovalRepositoryAdapter) Apply(ctx context.Context, planner entity.ApprovalPlanner) (*entity.ApprovalResult, error) {
	var result entity.ApprovalResult
	err := WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		round, err := lockRoundInPhase(ctx, tx, r.dialect.updateLock, valueobject.PhaseResults)
		if err != nil {
			return err
		}
		budget, err := round.RequireBudget()
		if err != nil {
			return err
		}

		candidates, err := loadCandidates(ctx, tx)
		if err != nil {
			return err
		}

		result = planner(budget, candidates)

		if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE proposals SET approved = ?`), false); err != nil {
			return apperror.Storage(err, "не удалось сбросить одобрения")
		}

		ids := result.ApprovedIDs()
		if len(ids) == 0 {
			return nil
		}
		query, args, err := sqlx.In(`UPDATE proposals SET approved = ? WHERE id IN (?)`, true, ids)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось подготовить запрос")
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return apperror.Storage(err, "не удалось сохранить одобрения")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type candidateRow struct {
	ProposalID    int64  `db:"proposal_id"`
	Description   string `db:"description"`
	CostCents     int64  `db:"cost_cents"`
	OwnerUsername string `db:"owner_username"`
	TotalScore    int64  `db:"total_score"`
}

func loadCandidates(ctx context.Context, tx *sqlx.Tx) ([]entity.ApprovalCandidate, error) {
	var rows []candidateRow
	query := `
		SELECT p.id AS proposal_id, p.description, p.cost_cents,
			COALESCE(u.username, '') AS owner_username,
			COALESCE(SUM(v.score), 0) AS total_score
		FROM proposals p
		LEFT JOIN users u ON u.id = p.owner_id
		LEFT JOIN votes v ON v.proposal_id = p.id
		GROUP BY p.id, p.description, p.cost_cents, u.username
		ORDER BY p.id
	`
	if err := tx.SelectContext(ctx, &rows, query); err != nil {
		return nil, apperror.Storage(err, "не удалось загрузить предложения для расчёта")
	}

	candidates := make([]entity.ApprovalCandidate, len(rows))
	for i, row := range rows {
		candidates[i] = entity.ApprovalCandidate{
			ProposalID:    row.ProposalID,
			Description:   row.Description,
			OwnerUsername: row.OwnerUsername,
			Cost:          valueobject.MoneyFromCents(row.CostCents),
			TotalScore:    row.TotalScore,
		}
	}
	return candidates, nil
}
