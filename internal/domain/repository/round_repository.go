package repository

import (
	"context"

	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
)

// RoundRepository конечный автомат фаз поверх единственной строки rounds.
type RoundRepository interface {
	GetOrCreate(ctx context.Context) (*entity.Round, error)
	Get(ctx context.Context) (*entity.Round, error)
	SetBudget(ctx context.Context, amount valueobject.Money) (*entity.Round, error)
	Advance(ctx context.Context) (valueobject.Phase, error)
	Reset(ctx context.Context) error
}

// ApprovalRepository выполняет расчёт одобрений атомарно.
type ApprovalRepository interface {
	Apply(ctx context.Context, planner entity.ApprovalPlanner) (*entity.ApprovalResult, error)
}
