package entity

import (
	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
)

// Vote предпочтение участника. Пара (UserID, ProposalID) уникальна.
type Vote struct {
	UserID     int64
	ProposalID int64
	Score      valueobject.Score
}

func NewVote(userID, proposalID int64, score int) (*Vote, error) {
	if userID <= 0 || proposalID <= 0 {
		return nil, apperror.Validation("некорректный идентификатор")
	}
	s, err := valueobject.NewScore(score)
	if err != nil {
		return nil, err
	}
	return &Vote{UserID: userID, ProposalID: proposalID, Score: s}, nil
}

// VoteDetail голос вместе с данными предложения, для списка голосов участника.
type VoteDetail struct {
	Vote
	Description string
	Cost        valueobject.Money
}
