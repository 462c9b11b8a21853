package valueobject

import "github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"

type Phase int

const (
	PhaseBudgetDefinition   Phase = 0
	PhaseProposalSubmission Phase = 1
	PhaseVoting             Phase = 2
	PhaseResults            Phase = 3
)

// FinalPhase после неё AdvancePhase возвращает ошибку.
const FinalPhase = PhaseResults

func (p Phase) IsValid() bool {
	return p >= PhaseBudgetDefinition && p <= FinalPhase
}

// Next возвращает следующую фазу. Переход возможен только на +1 и не дальше последней фазы.
func (p Phase) Next() (Phase, error) {
	if p >= FinalPhase {
		return p, apperror.ErrFinalPhase
	}
	return p + 1, nil
}

// Require проверяет, что текущая фаза совпадает с требуемой операцией.
func (p Phase) Require(expected Phase) error {
	if p != expected {
		return apperror.ErrWrongPhase
	}
	return nil
}

func (p Phase) String() string {
	switch p {
	case PhaseBudgetDefinition:
		return "budget_definition"
	case PhaseProposalSubmission:
		return "proposal_submission"
	case PhaseVoting:
		return "voting"
	case PhaseResults:
		return "results"
	}
	return "unknown"
}

type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMember:
		return true
	}
	return false
}

func NewRole(role string) (Role, error) {
	r := Role(role)
	if !r.IsValid() {
		return "", apperror.Validation("некорректная роль пользователя")
	}
	return r, nil
}

type Score int

const (
	MinScore Score = 1
	MaxScore Score = 3
)

func NewScore(value int) (Score, error) {
	s := Score(value)
	if s < MinScore || s > MaxScore {
		return 0, apperror.Validation("оценка должна быть от 1 до 3")
	}
	return s, nil
}
