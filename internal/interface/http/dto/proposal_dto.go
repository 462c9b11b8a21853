package dto

import (
	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
)

// ProposalRequest тело создания и изменения предложения.
type ProposalRequest struct {
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

type ProposalResponse struct {
	ID          int64   `json:"id"`
	OwnerID     int64   `json:"owner_id"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Approved    bool    `json:"approved"`
}

func ToProposalResponse(proposal *entity.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:          proposal.ID,
		OwnerID:     proposal.OwnerID,
		Description: proposal.Description,
		Cost:        proposal.Cost.Amount(),
		Approved:    proposal.Approved,
	}
}

func ToProposalResponses(proposals []*entity.Proposal) []ProposalResponse {
	responses := make([]ProposalResponse, 0, len(proposals))
	for _, proposal := range proposals {
		responses = append(responses, ToProposalResponse(proposal))
	}
	return responses
}
