package dto

import (
	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
)

type ApprovedProposalResponse struct {
	ProposalID    int64   `json:"proposal_id"`
	Description   string  `json:"description"`
	OwnerUsername string  `json:"owner_username"`
	Cost          float64 `json:"cost"`
	TotalScore    int64   `json:"total_score"`
}

type NonApprovedProposalResponse struct {
	ProposalID  int64   `json:"proposal_id"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	TotalScore  int64   `json:"total_score"`
}

type ApprovalResultResponse struct {
	Budget            float64                       `json:"budget"`
	TotalApprovedCost float64                       `json:"total_approved_cost"`
	Approved          []ApprovedProposalResponse    `json:"approved"`
	NonApproved       []NonApprovedProposalResponse `json:"non_approved"`
}

func ToApprovalResultResponse(result *entity.ApprovalResult) ApprovalResultResponse {
	resp := ApprovalResultResponse{
		Budget:            result.Budget.Amount(),
		TotalApprovedCost: result.TotalApprovedCost().Amount(),
		Approved:          make([]ApprovedProposalResponse, 0, len(result.Approved)),
		NonApproved:       make([]NonApprovedProposalResponse, 0, len(result.NonApproved)),
	}
	for _, a := range result.Approved {
		resp.Approved = append(resp.Approved, ApprovedProposalResponse{
			ProposalID:    a.ProposalID,
			Description:   a.Description,
			OwnerUsername: a.OwnerUsername,
			Cost:          a.Cost.Amount(),
			TotalScore:    a.TotalScore,
		})
	}
	for _, n := range result.NonApproved {
		resp.NonApproved = append(resp.NonApproved, NonApprovedProposalResponse{
			ProposalID:  n.ProposalID,
			Description: n.Description,
			Cost:        n.Cost.Amount(),
			TotalScore:  n.TotalScore,
		})
	}
	return resp
}
