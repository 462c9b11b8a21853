package dto

import (
	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
)

type SetBudgetRequest struct {
	Amount float64 `json:"amount"`
}

type PhaseResponse struct {
	Phase int    `json:"phase"`
	Name  string `json:"name"`
}

type RoundResponse struct {
	Phase     int      `json:"phase"`
	PhaseName string   `json:"phase_name"`
	Budget    *float64 `json:"budget"`
}

type BudgetResponse struct {
	Budget float64 `json:"budget"`
}

func ToPhaseResponse(phase valueobject.Phase) PhaseResponse {
	return PhaseResponse{Phase: int(phase), Name: phase.String()}
}

func ToRoundResponse(round *entity.Round) RoundResponse {
	resp := RoundResponse{
		Phase:     int(round.Phase),
		PhaseName: round.Phase.String(),
	}
	if round.Budget != nil {
		amount := round.Budget.Amount()
		resp.Budget = &amount
	}
	return resp
}
