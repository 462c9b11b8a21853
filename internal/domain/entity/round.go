package entity

import (
	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
)

// Round единственный процесс бюджетирования в развёртывании.
type Round struct {
	Phase  valueobject.Phase
	Budget *valueobject.Money
}

// RequireBudget возвращает бюджет или ErrBudgetNotFound.
func (r Round) RequireBudget() (valueobject.Money, error) {
	if r.Budget == nil {
		return valueobject.Money{}, apperror.ErrBudgetNotFound
	}
	return *r.Budget, nil
}
