package repository

import (
	"context"

	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
)

// ProposalStore хранилище предложений и голосов. Каждая изменяющая операция сама
// проверяет фазу процесса в той же транзакции, что и запись.
type ProposalStore interface {
	Create(ctx context.Context, proposal *entity.Proposal) error
	Update(ctx context.Context, proposal *entity.Proposal) error
	Delete(ctx context.Context, id, ownerID int64) error
	ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Proposal, error)
	ListAll(ctx context.Context) ([]*entity.Proposal, error)

	AddVote(ctx context.Context, vote *entity.Vote) error
	DeleteVote(ctx context.Context, userID, proposalID int64) error
	ListVotesByUser(ctx context.Context, userID int64) ([]*entity.VoteDetail, error)
}
