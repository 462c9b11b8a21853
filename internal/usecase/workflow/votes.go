package workflow

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
)

func (s *Service) Vote(ctx context.Context, principal entity.Principal, proposalID int64, score int) (*entity.Vote, error) {
	fields := logrus.Fields{"user_id": principal.UserID, "proposal_id": proposalID, "score": score}
	if err := requireMember(principal); err != nil {
		return nil, s.done("vote", err, fields)
	}

	vote, err := entity.NewVote(principal.UserID, proposalID, score)
	if err != nil {
		return nil, s.done("vote", err, fields)
	}

	if err := s.proposals.AddVote(ctx, vote); err != nil {
		return nil, s.done("vote", err, fields)
	}
	return vote, s.done("vote", nil, nil)
}

func (s *Service) DeleteVote(ctx context.Context, principal entity.Principal, proposalID int64) error {
	fields := logrus.Fields{"user_id": principal.UserID, "proposal_id": proposalID}
	if err := requireMember(principal); err != nil {
		return s.done("delete_vote", err, fields)
	}

	if err := s.proposals.DeleteVote(ctx, principal.UserID, proposalID); err != nil {
		return s.done("delete_vote", err, fields)
	}
	return s.done("delete_vote", nil, nil)
}

// ListVotesByUser участник видит только свои голоса.
func (s *Service) ListVotesByUser(ctx context.Context, principal entity.Principal, userID int64) ([]*entity.VoteDetail, error) {
	fields := logrus.Fields{"user_id": principal.UserID, "target_user_id": userID}
	if err := requireMember(principal); err != nil {
		return nil, s.done("list_votes", err, fields)
	}
	if principal.UserID != userID {
		return nil, s.done("list_votes", apperror.ErrForbidden, fields)
	}

	votes, err := s.proposals.ListVotesByUser(ctx, userID)
	if err != nil {
		return nil, s.done("list_votes", err, fields)
	}
	return votes, nil
}
