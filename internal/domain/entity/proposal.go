package entity

import (
	"strings"

	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
	"github.com/francescogabrieli/budget-sociale/internal/validation"
)

// MaxProposalsPerOwner ограничение на число предложений одного участника.
const MaxProposalsPerOwner = 3

type Proposal struct {
	ID          int64
	OwnerID     int64
	Description string
	Cost        valueobject.Money
	Approved    bool
}

func NewProposal(ownerID int64, description string, cost float64) (*Proposal, error) {
	if ownerID <= 0 {
		return nil, apperror.Validation("некорректный владелец предложения")
	}

	p := &Proposal{OwnerID: ownerID}
	if err := p.Change(description, cost); err != nil {
		return nil, err
	}
	return p, nil
}

// Change меняет описание и стоимость. Флаг approved не трогается.
func (p *Proposal) Change(description string, cost float64) error {
	description = strings.TrimSpace(description)
	if err := validation.ValidateProposalDescription(description); err != nil {
		return apperror.Validation(err.Error())
	}
	if err := validation.ValidateProposalCost(cost); err != nil {
		return apperror.Validation(err.Error())
	}

	money, err := valueobject.NewMoney(cost)
	if err != nil {
		return err
	}

	p.Description = description
	p.Cost = money
	return nil
}

// FitsBudget сообщает, не превышает ли стоимость бюджет раунда.
func (p *Proposal) FitsBudget(budget valueobject.Money) bool {
	return !p.Cost.GreaterThan(budget)
}

func (p *Proposal) IsOwnedBy(userID int64) bool {
	return p.OwnerID == userID
}
