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

// maxSlotAttempts сколько раз Create повторяет транзакцию при гонке за слот.
const maxSlotAttempts = 3

var errSlotTaken = errors.New("proposal slot already taken")

type ProposalStoreAdapter struct {
	db      *sqlx.DB
	dialect dialect
	// pickSlot выбирает слот по уже занятым; 0 означает, что квота исчерпана.
	pickSlot func(used []int) int
}

func NewProposalStoreAdapter(db *sqlx.DB) *ProposalStoreAdapter {
	return &ProposalStoreAdapter{db: db, dialect: dialectFor(db), pickSlot: freeSlot}
}

// Create сохраняет предложение в свободный слот владельца (1..3).
// Ограничение UNIQUE(owner_id, slot) держит квоту даже при параллельных вставках.
func (s *ProposalStoreAdapter) Create(ctx context.Context, proposal *entity.Proposal) error {
	for attempt := 1; attempt <= maxSlotAttempts; attempt++ {
		err := WithTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
			return s.create(ctx, tx, proposal)
		})
		if errors.Is(err, errSlotTaken) {
			continue
		}
		return err
	}
	return apperror.ErrTooManyProposals
}

func (s *ProposalStoreAdapter) create(ctx context.Context, tx *sqlx.Tx, proposal *entity.Proposal) error {
	round, err := lockRoundInPhase(ctx, tx, s.dialect.shareLock, valueobject.PhaseProposalSubmission)
	if err != nil {
		return err
	}
	budget, err := round.RequireBudget()
	if err != nil {
		return err
	}
	if !proposal.FitsBudget(budget) {
		return apperror.ErrCostExceedsBudget
	}

	var used []int
	if err := tx.SelectContext(ctx, &used, tx.Rebind(`SELECT slot FROM proposals WHERE owner_id = ?`), proposal.OwnerID); err != nil {
		return apperror.Storage(err, "не удалось проверить количество предложений")
	}
	slot := s.pickSlot(used)
	if slot == 0 {
		return apperror.ErrTooManyProposals
	}

	query := `
		INSERT INTO proposals (owner_id, slot, description, cost_cents, approved)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`
	var id int64
	err = tx.QueryRowxContext(ctx, tx.Rebind(query),
		proposal.OwnerID, slot, proposal.Description, proposal.Cost.Cents, false,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return errSlotTaken
		}
		return apperror.Storage(err, "не удалось создать предложение")
	}

	proposal.ID = id
	proposal.Approved = false
	return nil
}

func freeSlot(used []int) int {
	taken := make(map[int]bool, len(used))
	for _, s := range used {
		taken[s] = true
	}
	for slot := 1; slot <= entity.MaxProposalsPerOwner; slot++ {
		if !taken[slot] {
			return slot
		}
	}
	return 0
}

func (s *ProposalStoreAdapter) Update(ctx context.Context, proposal *entity.Proposal) error {
	return WithTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
		round, err := lockRoundInPhase(ctx, tx, s.dialect.shareLock, valueobject.PhaseProposalSubmission)
		if err != nil {
			return err
		}
		if err := s.checkOwner(ctx, tx, proposal.ID, proposal.OwnerID); err != nil {
			return err
		}
		budget, err := round.RequireBudget()
		if err != nil {
			return err
		}
		if !proposal.FitsBudget(budget) {
			return apperror.ErrCostExceedsBudget
		}

		query := `UPDATE proposals SET description = ?, cost_cents = ? WHERE id = ?`
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), proposal.Description, proposal.Cost.Cents, proposal.ID); err != nil {
			return apperror.Storage(err, "не удалось обновить предложение")
		}
		proposal.Approved = false
		return nil
	})
}

func (s *ProposalStoreAdapter) Delete(ctx context.Context, id, ownerID int64) error {
	return WithTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := lockRoundInPhase(ctx, tx, s.dialect.shareLock, valueobject.PhaseProposalSubmission); err != nil {
			return err
		}
		if err := s.checkOwner(ctx, tx, id, ownerID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM proposals WHERE id = ?`), id); err != nil {
			return apperror.Storage(err, "не удалось удалить предложение")
		}
		return nil
	})
}

// checkOwner блокирует строку предложения и сверяет владельца.
func (s *ProposalStoreAdapter) checkOwner(ctx context.Context, tx *sqlx.Tx, id, ownerID int64) error {
	var owner int64
	query := `SELECT owner_id FROM proposals WHERE id = ?` + s.dialect.updateLock
	if err := tx.GetContext(ctx, &owner, tx.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrProposalNotFound
		}
		return apperror.Storage(err, "не удалось получить предложение")
	}
	if owner != ownerID {
		return apperror.ErrNotOwner
	}
	return nil
}

func (s *ProposalStoreAdapter) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Proposal, error) {
	var rows []proposalRow
	query := selectProposalsQuery + ` WHERE owner_id = ? ORDER BY id`
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), ownerID); err != nil {
		return nil, apperror.Storage(err, "не удалось получить предложения")
	}
	return toProposalEntities(rows), nil
}

func (s *ProposalStoreAdapter) ListAll(ctx context.Context) ([]*entity.Proposal, error) {
	var rows []proposalRow
	if err := s.db.SelectContext(ctx, &rows, selectProposalsQuery+` ORDER BY id`); err != nil {
		return nil, apperror.Storage(err, "не удалось получить предложения")
	}
	if len(rows) == 0 {
		return nil, apperror.ErrNoProposals
	}
	return toProposalEntities(rows), nil
}

func (s *ProposalStoreAdapter) AddVote(ctx context.Context, vote *entity.Vote) error {
	return WithTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := lockRoundInPhase(ctx, tx, s.dialect.shareLock, valueobject.PhaseVoting); err != nil {
			return err
		}

		var owner int64
		if err := tx.GetContext(ctx, &owner, tx.Rebind(`SELECT owner_id FROM proposals WHERE id = ?`), vote.ProposalID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.ErrProposalNotFound
			}
			return apperror.Storage(err, "не удалось получить предложение")
		}
		if owner == vote.UserID {
			return apperror.ErrVoteOwnProposal
		}

		// повторный голос отсекает первичный ключ (user_id, proposal_id)
		insert := `INSERT INTO votes (user_id, proposal_id, score) VALUES (?, ?, ?)`
		if _, err := tx.ExecContext(ctx, tx.Rebind(insert), vote.UserID, vote.ProposalID, int(vote.Score)); err != nil {
			if isUniqueViolation(err) {
				return apperror.ErrAlreadyVoted
			}
			return apperror.Storage(err, "не удалось сохранить голос")
		}
		return nil
	})
}

func (s *ProposalStoreAdapter) DeleteVote(ctx context.Context, userID, proposalID int64) error {
	return WithTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := lockRoundInPhase(ctx, tx, s.dialect.shareLock, valueobject.PhaseVoting); err != nil {
			return err
		}

		query := `DELETE FROM votes WHERE user_id = ? AND proposal_id = ?`
		res, err := tx.ExecContext(ctx, tx.Rebind(query), userID, proposalID)
		if err != nil {
			return apperror.Storage(err, "не удалось удалить голос")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return apperror.Storage(err, "не удалось удалить голос")
		}
		if affected == 0 {
			return apperror.ErrVoteNotFound
		}
		return nil
	})
}

func (s *ProposalStoreAdapter) ListVotesByUser(ctx context.Context, userID int64) ([]*entity.VoteDetail, error) {
	var rows []voteRow
	query := `
		SELECT v.user_id, v.proposal_id, v.score, p.description, p.cost_cents
		FROM votes v
		JOIN proposals p ON p.id = v.proposal_id
		WHERE v.user_id = ?
		ORDER BY v.proposal_id
	`
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), userID); err != nil {
		return nil, apperror.Storage(err, "не удалось получить голоса")
	}
	if len(rows) == 0 {
		return nil, apperror.ErrNoVotes
	}

	result := make([]*entity.VoteDetail, len(rows))
	for i, row := range rows {
		result[i] = &entity.VoteDetail{
			Vote: entity.Vote{
				UserID:     row.UserID,
				ProposalID: row.ProposalID,
				Score:      valueobject.Score(row.Score),
			},
			Description: row.Description,
			Cost:        valueobject.MoneyFromCents(row.CostCents),
		}
	}
	return result, nil
}

const selectProposalsQuery = `SELECT id, owner_id, description, cost_cents, approved FROM proposals`

type proposalRow struct {
	ID          int64  `db:"id"`
	OwnerID     int64  `db:"owner_id"`
	Description string `db:"description"`
	CostCents   int64  `db:"cost_cents"`
	Approved    bool   `db:"approved"`
}

func (p *proposalRow) toEntity() *entity.Proposal {
	return &entity.Proposal{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Description: p.Description,
		Cost:        valueobject.MoneyFromCents(p.CostCents),
		Approved:    p.Approved,
	}
}

func toProposalEntities(rows []proposalRow) []*entity.Proposal {
	result := make([]*entity.Proposal, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result
}

type voteRow struct {
	UserID      int64  `db:"user_id"`
	ProposalID  int64  `db:"proposal_id"`
	Score       int    `db:"score"`
	Description string `db:"description"`
	CostCents   int64  `db:"cost_cents"`
}
