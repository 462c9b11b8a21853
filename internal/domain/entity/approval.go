package entity

import (
	"sort"

	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
)

// ApprovalCandidate предложение с суммой оценок, загруженное для расчёта.
type ApprovalCandidate struct {
	ProposalID    int64
	Description   string
	OwnerUsername string
	Cost          valueobject.Money
	TotalScore    int64
}

type ApprovedProposal struct {
	ProposalID    int64
	Description   string
	OwnerUsername string
	Cost          valueobject.Money
	TotalScore    int64
}

type NonApprovedProposal struct {
	ProposalID  int64
	Description string
	Cost        valueobject.Money
	TotalScore  int64
}

type ApprovalResult struct {
	Budget      valueobject.Money
	Approved    []ApprovedProposal
	NonApproved []NonApprovedProposal
}

// ApprovedIDs идентификаторы одобренных предложений в порядке отбора.
func (r ApprovalResult) ApprovedIDs() []int64 {
	ids := make([]int64, 0, len(r.Approved))
	for _, a := range r.Approved {
		ids = append(ids, a.ProposalID)
	}
	return ids
}

// TotalApprovedCost сумма стоимостей одобренных предложений.
func (r ApprovalResult) TotalApprovedCost() valueobject.Money {
	var total valueobject.Money
	for _, a := range r.Approved {
		total = total.Add(a.Cost)
	}
	return total
}

// ApprovalPlanner выбирает одобренные предложения. Должен быть детерминированным.
type ApprovalPlanner func(budget valueobject.Money, candidates []ApprovalCandidate) ApprovalResult

// PlanApprovals жадный отбор: кандидаты идут по убыванию суммы оценок (при равенстве
// сохраняется порядок id), предложение одобряется, пока накопленная стоимость не превышает
// бюджет. Обход прекращается на первом не поместившемся предложении или когда бюджет
// исчерпан ровно.
func PlanApprovals(budget valueobject.Money, candidates []ApprovalCandidate) ApprovalResult {
	sorted := make([]ApprovalCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalScore > sorted[j].TotalScore
	})

	result := ApprovalResult{
		Budget:      budget,
		Approved:    []ApprovedProposal{},
		NonApproved: []NonApprovedProposal{},
	}

	var running int64
	stopped := false
	for _, c := range sorted {
		if !stopped && running+c.Cost.Cents <= budget.Cents {
			running += c.Cost.Cents
			result.Approved = append(result.Approved, ApprovedProposal{
				ProposalID:    c.ProposalID,
				Description:   c.Description,
				OwnerUsername: c.OwnerUsername,
				Cost:          c.Cost,
				TotalScore:    c.TotalScore,
			})
			if running == budget.Cents {
				stopped = true
			}
			continue
		}

		stopped = true
		result.NonApproved = append(result.NonApproved, NonApprovedProposal{
			ProposalID:  c.ProposalID,
			Description: c.Description,
			Cost:        c.Cost,
			TotalScore:  c.TotalScore,
		})
	}

	return result
}
