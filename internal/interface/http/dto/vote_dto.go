package dto

import (
	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
)

type VoteRequest struct {
	Score int `json:"score"`
}

type VoteResponse struct {
	UserID     int64 `json:"user_id"`
	ProposalID int64 `json:"proposal_id"`
	Score      int   `json:"score"`
}

type VoteDetailResponse struct {
	ProposalID  int64   `json:"proposal_id"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Score       int     `json:"score"`
}

func ToVoteResponse(vote *entity.Vote) VoteResponse {
	return VoteResponse{
		UserID:     vote.UserID,
		ProposalID: vote.ProposalID,
		Score:      int(vote.Score),
	}
}

func ToVoteDetailResponses(votes []*entity.VoteDetail) []VoteDetailResponse {
	responses := make([]VoteDetailResponse, 0, len(votes))
	for _, v := range votes {
		responses = append(responses, VoteDetailResponse{
			ProposalID:  v.ProposalID,
			Description: v.Description,
			Cost:        v.Cost.Amount(),
			Score:       int(v.Score),
		})
	}
	return responses
}
